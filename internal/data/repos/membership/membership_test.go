package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

func TestFavoriteMembershipRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewRepo[types.Favorite, *types.Favorite](db, testutil.Logger(t), "FavoriteRepo")
	dbc := dbctx.Context{Ctx: context.Background()}

	u := testutil.SeedUser(t, db, "fan")
	author := testutil.SeedUser(t, db, "author")
	r1 := testutil.SeedRecipe(t, db, author, "One", nil, nil)
	r2 := testutil.SeedRecipe(t, db, author, "Two", nil, nil)

	if _, err := repo.Create(dbc, u.ID, r1.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, u.ID, r1.ID); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second Create must violate the pair index, got %v", err)
	}

	ok, err := repo.Exists(dbc, u.ID, r1.ID)
	if err != nil || !ok {
		t.Fatalf("Exists: want true, got %v (%v)", ok, err)
	}

	held, err := repo.ContainsAny(dbc, u.ID, []uuid.UUID{r1.ID, r2.ID})
	if err != nil {
		t.Fatalf("ContainsAny: %v", err)
	}
	if !held[r1.ID] || held[r2.ID] {
		t.Fatalf("ContainsAny: unexpected %+v", held)
	}

	members, err := repo.MembersOf(dbc, u.ID)
	if err != nil || len(members) != 1 || members[0] != r1.ID {
		t.Fatalf("MembersOf: unexpected %+v (%v)", members, err)
	}

	n, err := repo.Delete(dbc, u.ID, r1.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: want 1, got %d (%v)", n, err)
	}
	n, _ = repo.Delete(dbc, u.ID, r1.ID)
	if n != 0 {
		t.Fatalf("Delete(absent): want 0, got %d", n)
	}
}

func TestSubscriptionMembershipRepoRejectsSelfEdge(t *testing.T) {
	db := testutil.DB(t)
	repo := NewRepo[types.Subscription, *types.Subscription](db, testutil.Logger(t), "SubscriptionRepo")
	dbc := dbctx.Context{Ctx: context.Background()}

	u := testutil.SeedUser(t, db, "narcissus")
	if _, err := repo.Create(dbc, u.ID, u.ID); err == nil {
		t.Fatalf("self edge must be rejected by the check constraint")
	}

	other := testutil.SeedUser(t, db, "echo")
	if _, err := repo.Create(dbc, u.ID, other.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.DeleteByMember(dbc, other.ID); err != nil {
		t.Fatalf("DeleteByMember: %v", err)
	}
	if ok, _ := repo.Exists(dbc, u.ID, other.ID); ok {
		t.Fatalf("edge should be gone")
	}
}
