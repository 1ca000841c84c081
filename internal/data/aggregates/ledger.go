package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/recipe"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

const ingredientsField = "ingredients"

type LedgerDeps struct {
	Base        BaseDeps
	Recipes     repos.RecipeRepo
	Ledger      repos.LedgerRepo
	Ingredients repos.IngredientRepo
}

type ledgerAggregate struct {
	deps LedgerDeps
}

var _ domainagg.QuantityLedger = (*ledgerAggregate)(nil)

func NewQuantityLedger(deps LedgerDeps) domainagg.QuantityLedger {
	deps.Base = deps.Base.withDefaults()
	return &ledgerAggregate{deps: deps}
}

func (a *ledgerAggregate) Contract() domainagg.Contract { return domainagg.QuantityLedgerContract }

func (a *ledgerAggregate) SetIngredients(ctx context.Context, recipeID uuid.UUID, items []domainagg.IngredientAmount) error {
	const op = "Recipe.SetIngredients"
	if err := CheckIngredientAmounts(items); err != nil {
		return MapError(op, err)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		ok, err := a.deps.Recipes.Exists(dbc, recipeID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError("recipe not found")
		}
		if err := a.checkRefs(dbc, items); err != nil {
			return err
		}
		return a.replace(dbc, recipeID, items)
	})
}

// CheckIngredientAmounts validates a submitted ingredient list without
// touching storage: non-empty, every amount positive, no repeated id.
func CheckIngredientAmounts(items []domainagg.IngredientAmount) error {
	if len(items) == 0 {
		return FieldError(ingredientsField, "must choose at least one ingredient")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if it.IngredientID == uuid.Nil {
			return FieldError(ingredientsField, "ingredient id is required")
		}
		if it.Amount < recipe.MinAmount {
			return FieldError(ingredientsField, fmt.Sprintf("ingredient %s: amount must be ≥ %d", it.IngredientID, recipe.MinAmount))
		}
		if _, dup := seen[it.IngredientID]; dup {
			return FieldError(ingredientsField, fmt.Sprintf("ingredient %s: duplicate ingredient in recipe", it.IngredientID))
		}
		seen[it.IngredientID] = struct{}{}
	}
	return nil
}

func (a *ledgerAggregate) checkRefs(dbc dbctx.Context, items []domainagg.IngredientAmount) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.IngredientID)
	}
	found, err := a.deps.Ingredients.GetByIDs(dbc, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, ing := range found {
		known[ing.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return FieldError(ingredientsField, fmt.Sprintf("ingredient %s: does not exist", id))
		}
	}
	return nil
}

// replace is delete-then-insert, never a merge.
func (a *ledgerAggregate) replace(dbc dbctx.Context, recipeID uuid.UUID, items []domainagg.IngredientAmount) error {
	if err := a.deps.Ledger.DeleteByRecipe(dbc, recipeID); err != nil {
		return err
	}
	rows := make([]*types.RecipeIngredient, 0, len(items))
	for _, it := range items {
		rows = append(rows, &types.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: it.IngredientID,
			Amount:       it.Amount,
		})
	}
	return a.deps.Ledger.CreateBatch(dbc, rows)
}
