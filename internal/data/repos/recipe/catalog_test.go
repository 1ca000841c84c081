package recipe

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

func TestIngredientRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	repo := NewIngredientRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	if _, err := repo.Create(dbc, []*types.Ingredient{
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "pinch"},
		{Name: "100%_juice", MeasurementUnit: "ml"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.SearchByPrefix(dbc, "sa", 0)
	if err != nil {
		t.Fatalf("SearchByPrefix: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SearchByPrefix(sa): want 2, got %+v", got)
	}

	got, _ = repo.SearchByPrefix(dbc, "100%", 0)
	if len(got) != 1 {
		t.Fatalf("SearchByPrefix should treat %% literally, got %+v", got)
	}

	all, _ := repo.SearchByPrefix(dbc, "", 3)
	if len(all) != 3 {
		t.Fatalf("SearchByPrefix(limit 3): got %d", len(all))
	}

	_, err = repo.Create(dbc, []*types.Ingredient{{Name: "sugar", MeasurementUnit: "g"}})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("(name, unit) must be unique, got %v", err)
	}

	byIDs, err := repo.GetByIDs(dbc, []uuid.UUID{all[0].ID, uuid.New()})
	if err != nil || len(byIDs) != 1 {
		t.Fatalf("GetByIDs: want 1, got %d (%v)", len(byIDs), err)
	}
}

func TestTagRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewTagRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	created, err := repo.Create(dbc, []*types.Tag{
		{Name: "Lunch", Slug: "lunch", Color: "#00FF00"},
		{Name: "Breakfast", Slug: "breakfast", Color: "#FF0000"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := repo.List(dbc)
	if err != nil || len(list) != 2 || list[0].Slug != "breakfast" {
		t.Fatalf("List: unexpected %+v (%v)", list, err)
	}
	_, err = repo.Create(dbc, []*types.Tag{{Name: "Other", Slug: "lunch", Color: "#0000FF"}})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("slug must be unique, got %v", err)
	}
	got, _ := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if len(got) != 1 || got[0].Slug != "lunch" {
		t.Fatalf("GetByIDs: unexpected %+v", got)
	}
}
