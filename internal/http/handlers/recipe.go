package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/http/response"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/pointers"
	"github.com/AntonEmtsov/foodgram-project-react/internal/services"
)

type RecipeHandlerDeps struct {
	Recipes      services.RecipeService
	Favorites    services.CollectionService
	Cart         services.CollectionService
	ShoppingList services.ShoppingListService
}

type RecipeHandler struct {
	recipes      services.RecipeService
	favorites    services.CollectionService
	cart         services.CollectionService
	shoppingList services.ShoppingListService
}

func NewRecipeHandlerWithDeps(deps RecipeHandlerDeps) *RecipeHandler {
	return &RecipeHandler{
		recipes:      deps.Recipes,
		favorites:    deps.Favorites,
		cart:         deps.Cart,
		shoppingList: deps.ShoppingList,
	}
}

type ingredientAmountRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// recipeRequest serves both POST and PATCH; absent fields stay nil.
type recipeRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	Image       *string                    `json:"image"`
	CookingTime *int                       `json:"cooking_time"`
	Tags        *[]uuid.UUID               `json:"tags"`
	Ingredients *[]ingredientAmountRequest `json:"ingredients"`
}

func (r recipeRequest) ingredients() *[]domainagg.IngredientAmount {
	if r.Ingredients == nil {
		return nil
	}
	out := make([]domainagg.IngredientAmount, 0, len(*r.Ingredients))
	for _, in := range *r.Ingredients {
		out = append(out, domainagg.IngredientAmount{IngredientID: in.ID, Amount: in.Amount})
	}
	return &out
}

func (r recipeRequest) createInput() domainagg.CreateRecipeInput {
	return domainagg.CreateRecipeInput{
		Name:        pointers.Deref(r.Name, ""),
		Text:        pointers.Deref(r.Text, ""),
		Image:       pointers.Deref(r.Image, ""),
		CookingTime: pointers.Deref(r.CookingTime, 0),
		TagIDs:      pointers.Deref(r.Tags, nil),
		Ingredients: pointers.Deref(r.ingredients(), nil),
	}
}

func (r recipeRequest) updateInput() domainagg.UpdateRecipeInput {
	return domainagg.UpdateRecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: r.ingredients(),
	}
}

// GET /api/recipes?author=&tags=&is_favorited=&is_in_shopping_cart=&limit=&page=
func (h *RecipeHandler) List(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	q := services.RecipeQuery{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited"),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart"),
		Limit:            limit,
		Offset:           offset,
	}
	if raw := strings.TrimSpace(c.Query("author")); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("author must be a user id"))
			return
		}
		q.AuthorID = authorID
	}
	page, err := h.recipes.List(c.Request.Context(), q)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, recipe)
}

// POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), req.createInput())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, recipe)
}

// PATCH /api/recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	recipe, err := h.recipes.Update(c.Request.Context(), id, req.updateInput())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, recipe)
}

// DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/recipes/:id/favorite
func (h *RecipeHandler) AddFavorite(c *gin.Context) { h.addTo(c, h.favorites) }

// DELETE /api/recipes/:id/favorite
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) { h.removeFrom(c, h.favorites) }

// POST /api/recipes/:id/shopping_cart
func (h *RecipeHandler) AddToCart(c *gin.Context) { h.addTo(c, h.cart) }

// DELETE /api/recipes/:id/shopping_cart
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) { h.removeFrom(c, h.cart) }

func (h *RecipeHandler) addTo(c *gin.Context, set services.CollectionService) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	short, err := set.Add(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, short)
}

func (h *RecipeHandler) removeFrom(c *gin.Context, set services.CollectionService) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := set.Remove(c.Request.Context(), id); err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/recipes/download_shopping_cart?format=csv|txt
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	file, err := h.shoppingList.Download(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
