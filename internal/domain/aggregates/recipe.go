package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/recipe"
)

var QuantityLedgerContract = Contract{
	Name:             "Recipe.QuantityLedger",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Replaces the full (recipe, ingredient, amount) set of one recipe atomically.",
}

var RecipeAggregateContract = Contract{
	Name:             "Recipe.RecipeAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns recipe row, tag set and ledger rows; create/update/delete are single transactions.",
}

// IngredientAmount is one submitted (ingredient, amount) pair.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// QuantityLedger owns the recipe to ingredient association.
//
// Failures are *aggregates.Error with CodeValidation (field "ingredients") or CodeNotFound.
type QuantityLedger interface {
	Aggregate

	// SetIngredients deletes every ledger row of the recipe and inserts items.
	SetIngredients(ctx context.Context, recipeID uuid.UUID, items []IngredientAmount) error
}

// NameScope selects how recipe names must be unique.
type NameScope string

const (
	NameScopeGlobal NameScope = "global"
	NameScopeAuthor NameScope = "author"
	NameScopeNone   NameScope = "none"
)

func ParseNameScope(s string) NameScope {
	switch NameScope(s) {
	case NameScopeAuthor:
		return NameScopeAuthor
	case NameScopeNone:
		return NameScopeNone
	default:
		return NameScopeGlobal
	}
}

type CreateRecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// UpdateRecipeInput leaves nil fields untouched. Non-nil Tags and
// Ingredients replace the whole set.
type UpdateRecipeInput struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	TagIDs      *[]uuid.UUID
	Ingredients *[]IngredientAmount
}

// RecipeAggregate owns recipe identity, tags and ledger rows.
//
// Write failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodePermissionDenied, CodeUnauthenticated, CodeInternal.
type RecipeAggregate interface {
	Aggregate

	Create(ctx context.Context, actor authz.Actor, in CreateRecipeInput) (*recipe.Recipe, error)
	Update(ctx context.Context, actor authz.Actor, recipeID uuid.UUID, in UpdateRecipeInput) (*recipe.Recipe, error)
	Delete(ctx context.Context, actor authz.Actor, recipeID uuid.UUID) error
}
