package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime/bus"
)

func TestEventStreamDeliversFollowedAuthors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	metrics := observability.New()
	hub := realtime.NewSSEHub(f.log)
	b := bus.NewMemoryBus()
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.StartForwarder(ctx, hub.Broadcast))

	reader := testutil.SeedUser(t, f.db, "reader")
	followed := testutil.SeedUser(t, f.db, "followed")
	ignored := testutil.SeedUser(t, f.db, "ignored")
	_, err := f.subs.Create(dbctx.Context{Ctx: ctx}, reader.ID, followed.ID)
	require.NoError(t, err)

	streams := NewEventStreamService(hub, f.users, f.log, metrics)
	client, err := streams.Open(ctx, reader.ID)
	require.NoError(t, err)
	require.Equal(t, 1, hub.Subscribers(realtime.AuthorChannel(followed.ID)))

	events := NewRecipeEvents(b, f.log, metrics)
	events.RecipePublished(ctx, ignored.ID, RecipeShort{Name: "skip"})
	events.RecipePublished(ctx, followed.ID, RecipeShort{Name: "soup"})

	select {
	case msg := <-client.Outbound:
		require.Equal(t, realtime.SSEEventRecipePublished, msg.Event)
		require.Equal(t, RecipeShort{Name: "soup"}, msg.Data)
	default:
		t.Fatal("expected a recipe_published message")
	}
	require.Empty(t, client.Outbound)

	streams.Close(client)
	streams.Close(client)
	require.Zero(t, hub.Subscribers(realtime.AuthorChannel(followed.ID)))
}
