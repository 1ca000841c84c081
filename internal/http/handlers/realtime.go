package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AntonEmtsov/foodgram-project-react/internal/http/response"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/services"
)

type RealtimeHandler struct {
	Log     *logger.Logger
	streams services.EventStreamService
}

func NewRealtimeHandler(log *logger.Logger, streams services.EventStreamService) *RealtimeHandler {
	return &RealtimeHandler{Log: log.With("handler", "RealtimeHandler"), streams: streams}
}

// GET /api/users/subscriptions/events streams recipe events of every
// followed author until the client disconnects.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	userID := services.ActorFromContext(c.Request.Context()).UserID
	client, err := h.streams.Open(c.Request.Context(), userID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	h.Log.Info("SSEStream open", "user_id", userID.String(), "client_id", client.ID.String())
	defer h.streams.Close(client)
	h.streams.Hub().ServeHTTP(c.Writer, c.Request, client)
}
