package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime/bus"
)

// RecipeEvents notifies followers about an author's recipes. Delivery is
// best effort: failures are logged and never fail the write.
type RecipeEvents interface {
	RecipePublished(ctx context.Context, authorID uuid.UUID, r RecipeShort)
	RecipeDeleted(ctx context.Context, authorID, recipeID uuid.UUID)
}

type busRecipeEvents struct {
	bus     bus.Bus
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewRecipeEvents(b bus.Bus, log *logger.Logger, metrics *observability.Metrics) RecipeEvents {
	return &busRecipeEvents{bus: b, log: log.With("service", "RecipeEvents"), metrics: metrics}
}

func (e *busRecipeEvents) RecipePublished(ctx context.Context, authorID uuid.UUID, r RecipeShort) {
	e.publish(ctx, realtime.SSEMessage{
		Channel: realtime.AuthorChannel(authorID),
		Event:   realtime.SSEEventRecipePublished,
		Data:    r,
	})
}

func (e *busRecipeEvents) RecipeDeleted(ctx context.Context, authorID, recipeID uuid.UUID) {
	e.publish(ctx, realtime.SSEMessage{
		Channel: realtime.AuthorChannel(authorID),
		Event:   realtime.SSEEventRecipeDeleted,
		Data:    map[string]any{"id": recipeID},
	})
}

func (e *busRecipeEvents) publish(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || e.bus == nil {
		return
	}
	if err := e.bus.Publish(context.WithoutCancel(ctx), msg); err != nil {
		e.log.Warn("publish realtime event failed", "event", msg.Event, "channel", msg.Channel, "error", err)
		return
	}
	e.metrics.IncRealtimeEvent(string(msg.Event), e.bus.Transport())
}

type noopRecipeEvents struct{}

func (noopRecipeEvents) RecipePublished(context.Context, uuid.UUID, RecipeShort) {}
func (noopRecipeEvents) RecipeDeleted(context.Context, uuid.UUID, uuid.UUID)     {}

// EventStreamService attaches SSE clients to the channels of every author
// the caller follows. Follows made after connecting apply on reconnect.
type EventStreamService interface {
	Open(ctx context.Context, userID uuid.UUID) (*realtime.SSEClient, error)
	Close(client *realtime.SSEClient)
	Hub() *realtime.SSEHub
}

type eventStreamService struct {
	hub      *realtime.SSEHub
	userRepo repos.UserRepo
	log      *logger.Logger
	metrics  *observability.Metrics
}

func NewEventStreamService(hub *realtime.SSEHub, userRepo repos.UserRepo, log *logger.Logger, metrics *observability.Metrics) EventStreamService {
	return &eventStreamService{hub: hub, userRepo: userRepo, log: log.With("service", "EventStreamService"), metrics: metrics}
}

func (s *eventStreamService) Hub() *realtime.SSEHub { return s.hub }

func (s *eventStreamService) Open(ctx context.Context, userID uuid.UUID) (*realtime.SSEClient, error) {
	authors, err := s.userRepo.ListFollowing(dbctx.Context{Ctx: ctx}, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	client := s.hub.NewSSEClient(userID)
	for _, a := range authors {
		s.hub.AddChannel(client, realtime.AuthorChannel(a.ID))
	}
	s.metrics.SSEClientsInc()
	s.log.Debug("event stream opened", "user_id", userID, "channels", len(authors))
	return client, nil
}

func (s *eventStreamService) Close(client *realtime.SSEClient) {
	if client == nil {
		return
	}
	if s.hub.CloseClient(client) {
		s.metrics.SSEClientsDec()
	}
}
