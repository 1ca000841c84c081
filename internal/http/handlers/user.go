package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonEmtsov/foodgram-project-react/internal/http/response"
	"github.com/AntonEmtsov/foodgram-project-react/internal/services"
)

type UserHandler struct {
	users         services.UserService
	subscriptions services.SubscriptionService
}

func NewUserHandler(users services.UserService, subscriptions services.SubscriptionService) *UserHandler {
	return &UserHandler{users: users, subscriptions: subscriptions}
}

// GET /api/users
func (uh *UserHandler) List(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	page, err := uh.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/users/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.users.GetMe(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// GET /api/users/:id
func (uh *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := uh.users.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// POST /api/users/set_password
func (uh *UserHandler) SetPassword(c *gin.Context) {
	var req struct {
		NewPassword     string `json:"new_password"`
		CurrentPassword string `json:"current_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := uh.users.SetPassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/users/:id/subscribe?recipes_limit=N
func (uh *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := optionalInt(c, "recipes_limit")
	if !ok {
		return
	}
	author, err := uh.subscriptions.Follow(c.Request.Context(), id, recipesLimit)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, author)
}

// DELETE /api/users/:id/subscribe
func (uh *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := uh.subscriptions.Unfollow(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/users/subscriptions?limit=&page=&recipes_limit=
func (uh *UserHandler) Subscriptions(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	recipesLimit, ok := optionalInt(c, "recipes_limit")
	if !ok {
		return
	}
	page, err := uh.subscriptions.ListFollowing(c.Request.Context(), services.FollowingQuery{
		Limit:        limit,
		Offset:       offset,
		RecipesLimit: recipesLimit,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, page)
}
