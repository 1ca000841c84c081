package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
)

func SeedUser(tb testing.TB, db *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      string(types.RoleUser),
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedIngredient(tb testing.TB, db *gorm.DB, name, unit string) *types.Ingredient {
	tb.Helper()
	ing := &types.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

func SeedTag(tb testing.TB, db *gorm.DB, slug string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{
		ID:    uuid.New(),
		Name:  slug,
		Slug:  slug,
		Color: fmt.Sprintf("#%06x", uuid.New().ID()&0xFFFFFF),
	}
	if err := db.Create(tag).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}

// SeedRecipe inserts a recipe with its tag and ledger rows, bypassing
// aggregate validation.
func SeedRecipe(tb testing.TB, db *gorm.DB, author *types.User, name string, tags []*types.Tag, amounts map[*types.Ingredient]int) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "text",
		CookingTime: 10,
		PublishedAt: time.Now().UTC(),
	}
	if err := db.Omit("Author", "Tags", "Ingredients").Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	for _, tag := range tags {
		if err := db.Create(&types.RecipeTag{RecipeID: r.ID, TagID: tag.ID}).Error; err != nil {
			tb.Fatalf("seed recipe tag: %v", err)
		}
	}
	for ing, amount := range amounts {
		row := &types.RecipeIngredient{RecipeID: r.ID, IngredientID: ing.ID, Amount: amount}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			tb.Fatalf("seed ledger row: %v", err)
		}
	}
	return r
}
