package aggregates_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
)

func TestFollowSelfIsValidationError(t *testing.T) {
	f := newFixture(t)
	u := testutil.SeedUser(t, f.db, "solo")

	err := f.graph().Follow(context.Background(), actorOf(u), u.ID)
	requireCode(t, err, domainagg.CodeValidation)
	require.Equal(t, "author", domainagg.FieldOf(err))
	require.Equal(t, "cannot follow self", domainagg.MessageOf(err))
}

func TestFollowUnfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, f.db, "alice")
	b := testutil.SeedUser(t, f.db, "bob")
	g := f.graph()

	requireCode(t, g.Unfollow(ctx, actorOf(a), b.ID), domainagg.CodeNotFound)

	require.NoError(t, g.Follow(ctx, actorOf(a), b.ID))
	requireCode(t, g.Follow(ctx, actorOf(a), b.ID), domainagg.CodeConflict)
	require.NoError(t, g.Follow(ctx, actorOf(b), a.ID))

	require.NoError(t, g.Unfollow(ctx, actorOf(a), b.ID))
	requireCode(t, g.Unfollow(ctx, actorOf(a), b.ID), domainagg.CodeNotFound)
}

func TestFollowUnknownOrAnonymous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.SeedUser(t, f.db, "alice")

	requireCode(t, f.graph().Follow(ctx, actorOf(a), uuid.New()), domainagg.CodeNotFound)
	requireCode(t, f.graph().Follow(ctx, authz.Anonymous(), a.ID), domainagg.CodeUnauthenticated)
}
