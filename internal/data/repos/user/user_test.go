package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	created, err := repo.Create(dbc, []*types.User{
		{
			Email:     "userrepo@example.com",
			Username:  "userrepo",
			Password:  "pw",
			FirstName: "A",
			LastName:  "B",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected 1 user with an id, got %+v", created)
	}
	if created[0].Role != string(types.RoleUser) {
		t.Fatalf("Create: expected default role user, got %q", created[0].Role)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Username != "userrepo" {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{created[0].Email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].Email != created[0].Email {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	exists, err := repo.EmailExists(dbc, created[0].Email)
	if err != nil || !exists {
		t.Fatalf("EmailExists: want true, got %v (%v)", exists, err)
	}
	exists, err = repo.UsernameExists(dbc, "nobody")
	if err != nil || exists {
		t.Fatalf("UsernameExists: want false, got %v (%v)", exists, err)
	}

	if err := repo.UpdateRole(dbc, created[0].ID, types.RoleModerator); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	got, _ = repo.GetByID(dbc, created[0].ID)
	if got.RoleValue() != types.RoleModerator {
		t.Fatalf("UpdateRole: want moderator, got %q", got.Role)
	}

	if err := repo.UpdatePassword(dbc, created[0].ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, _ = repo.GetByID(dbc, created[0].ID)
	if got.Password != "new-hash" {
		t.Fatalf("UpdatePassword: want new-hash, got %q", got.Password)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): want nil,nil got %+v, %v", missing, err)
	}
}

func TestUserRepoListFollowing(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	follower := testutil.SeedUser(t, db, "follower")
	zed := testutil.SeedUser(t, db, "zed")
	amy := testutil.SeedUser(t, db, "amy")
	testutil.SeedUser(t, db, "stranger")

	for _, author := range []*types.User{zed, amy} {
		if err := db.Create(&types.Subscription{FollowerID: follower.ID, AuthorID: author.ID}).Error; err != nil {
			t.Fatalf("seed subscription: %v", err)
		}
	}

	got, err := repo.ListFollowing(dbc, follower.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListFollowing: %v", err)
	}
	if len(got) != 2 || got[0].Username != "amy" || got[1].Username != "zed" {
		t.Fatalf("ListFollowing: expected [amy zed], got %+v", got)
	}

	limited, err := repo.ListFollowing(dbc, follower.ID, 1, 1)
	if err != nil {
		t.Fatalf("ListFollowing(limit): %v", err)
	}
	if len(limited) != 1 || limited[0].Username != "zed" {
		t.Fatalf("ListFollowing(limit): expected [zed], got %+v", limited)
	}

	n, err := repo.CountFollowing(dbc, follower.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountFollowing: expected 2, got %d (%v)", n, err)
	}
	total, err := repo.Count(dbc)
	if err != nil || total != 4 {
		t.Fatalf("Count: expected 4, got %d (%v)", total, err)
	}
}
