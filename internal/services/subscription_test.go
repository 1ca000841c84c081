package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/pointers"
)

func seedAuthorRecipes(t *testing.T, f *fixture, author *types.User, names ...string) []*types.Recipe {
	t.Helper()
	tag := testutil.SeedTag(t, f.db, "tag-"+author.Username)
	salt := testutil.SeedIngredient(t, f.db, "salt-"+author.Username, "g")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*types.Recipe, 0, len(names))
	for i, name := range names {
		r := testutil.SeedRecipe(t, f.db, author, name, []*types.Tag{tag}, map[*types.Ingredient]int{salt: 1})
		require.NoError(t, f.db.Model(r).Update("published_at", base.Add(time.Duration(i)*time.Hour)).Error)
		out = append(out, r)
	}
	return out
}

func TestSubscriptionFollowReturnsAuthorCard(t *testing.T) {
	f := newFixture(t)
	svc := f.subscriptionService(0)
	reader := testutil.SeedUser(t, f.db, "reader")
	chef := testutil.SeedUser(t, f.db, "chef")
	recipes := seedAuthorRecipes(t, f, chef, "first", "second", "third")
	ctx := asUser(reader)

	card, err := svc.Follow(ctx, chef.ID, pointers.Int(2))
	require.NoError(t, err)
	require.Equal(t, chef.ID, card.ID)
	require.True(t, card.IsSubscribed)
	require.EqualValues(t, 3, card.RecipesCount)
	require.Len(t, card.Recipes, 2)
	require.Equal(t, recipes[2].ID, card.Recipes[0].ID)
	require.Equal(t, recipes[1].ID, card.Recipes[1].ID)

	_, err = svc.Follow(ctx, chef.ID, nil)
	requireCode(t, err, domainagg.CodeConflict)
	_, err = svc.Follow(ctx, reader.ID, nil)
	requireCode(t, err, domainagg.CodeValidation)
	_, err = svc.Follow(ctx, uuid.New(), nil)
	requireCode(t, err, domainagg.CodeNotFound)

	require.NoError(t, svc.Unfollow(ctx, chef.ID))
	requireCode(t, svc.Unfollow(ctx, chef.ID), domainagg.CodeNotFound)
}

func TestSubscriptionListFollowing(t *testing.T) {
	f := newFixture(t)
	svc := f.subscriptionService(1)
	reader := testutil.SeedUser(t, f.db, "reader")
	zoe := testutil.SeedUser(t, f.db, "zoe")
	bea := testutil.SeedUser(t, f.db, "bea")
	quiet := testutil.SeedUser(t, f.db, "quiet")
	seedAuthorRecipes(t, f, zoe, "z1", "z2")
	seedAuthorRecipes(t, f, bea, "b1", "b2", "b3")
	ctx := asUser(reader)

	for _, a := range []*types.User{zoe, bea, quiet} {
		_, err := svc.Follow(ctx, a.ID, nil)
		require.NoError(t, err)
	}

	page, err := svc.ListFollowing(ctx, FollowingQuery{})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Count)
	require.Len(t, page.Results, 3)
	require.Equal(t, []string{"bea", "quiet", "zoe"}, []string{
		page.Results[0].Username, page.Results[1].Username, page.Results[2].Username,
	})
	require.EqualValues(t, 3, page.Results[0].RecipesCount)
	require.Len(t, page.Results[0].Recipes, 1)
	require.Zero(t, page.Results[1].RecipesCount)
	require.NotNil(t, page.Results[1].Recipes)
	require.Empty(t, page.Results[1].Recipes)
	require.EqualValues(t, 2, page.Results[2].RecipesCount)

	all, err := svc.ListFollowing(ctx, FollowingQuery{Limit: 1, Offset: 2, RecipesLimit: pointers.Int(0)})
	require.NoError(t, err)
	require.EqualValues(t, 3, all.Count)
	require.Len(t, all.Results, 1)
	require.Equal(t, "zoe", all.Results[0].Username)
	require.Len(t, all.Results[0].Recipes, 2)

	_, err = svc.ListFollowing(context.Background(), FollowingQuery{})
	requireCode(t, err, domainagg.CodeUnauthenticated)
}
