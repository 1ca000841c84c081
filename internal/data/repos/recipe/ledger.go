package recipe

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

// LedgerLine is one expanded (ingredient, unit, amount) row of a recipe.
type LedgerLine struct {
	RecipeID        uuid.UUID
	Name            string
	MeasurementUnit string
	Amount          int
}

type LedgerRepo interface {
	CreateBatch(dbc dbctx.Context, rows []*types.RecipeIngredient) error
	DeleteByRecipe(dbc dbctx.Context, recipeID uuid.UUID) error
	ListByRecipe(dbc dbctx.Context, recipeID uuid.UUID) ([]*types.RecipeIngredient, error)
	CartLines(dbc dbctx.Context, userID uuid.UUID) ([]LedgerLine, error)
}

type ledgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLedgerRepo(db *gorm.DB, baseLog *logger.Logger) LedgerRepo {
	return &ledgerRepo{db: db, log: baseLog.With("repo", "LedgerRepo")}
}

func (r *ledgerRepo) CreateBatch(dbc dbctx.Context, rows []*types.RecipeIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).Omit("Ingredient").Create(&rows).Error
}

func (r *ledgerRepo) DeleteByRecipe(dbc dbctx.Context, recipeID uuid.UUID) error {
	return dbc.DB(r.db).Where("recipe_id = ?", recipeID).Delete(&types.RecipeIngredient{}).Error
}

func (r *ledgerRepo) ListByRecipe(dbc dbctx.Context, recipeID uuid.UUID) ([]*types.RecipeIngredient, error) {
	var out []*types.RecipeIngredient
	if err := dbc.DB(r.db).
		Preload("Ingredient").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Where("recipe_ingredient.recipe_id = ?", recipeID).
		Order("ingredient.name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CartLines expands every recipe in userID's cart into ledger lines.
func (r *ledgerRepo) CartLines(dbc dbctx.Context, userID uuid.UUID) ([]LedgerLine, error) {
	var out []LedgerLine
	if err := dbc.DB(r.db).
		Table("recipe_ingredient").
		Select("recipe_ingredient.recipe_id AS recipe_id, ingredient.name AS name, ingredient.measurement_unit AS measurement_unit, recipe_ingredient.amount AS amount").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Joins("JOIN cart_item ON cart_item.recipe_id = recipe_ingredient.recipe_id").
		Where("cart_item.user_id = ?", userID).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
