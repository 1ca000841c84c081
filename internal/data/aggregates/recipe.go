package aggregates

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/recipe"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

type RecipeDeps struct {
	Base        BaseDeps
	Recipes     repos.RecipeRepo
	Ledger      repos.LedgerRepo
	Ingredients repos.IngredientRepo
	Tags        repos.TagRepo
	Favorites   *repos.FavoriteRepo
	Cart        *repos.CartRepo
	NameScope   domainagg.NameScope
}

type recipeAggregate struct {
	deps   RecipeDeps
	ledger *ledgerAggregate
}

var _ domainagg.RecipeAggregate = (*recipeAggregate)(nil)

func NewRecipeAggregate(deps RecipeDeps) domainagg.RecipeAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.NameScope == "" {
		deps.NameScope = domainagg.NameScopeGlobal
	}
	return &recipeAggregate{
		deps: deps,
		ledger: &ledgerAggregate{deps: LedgerDeps{
			Base:        deps.Base,
			Recipes:     deps.Recipes,
			Ledger:      deps.Ledger,
			Ingredients: deps.Ingredients,
		}},
	}
}

func (a *recipeAggregate) Contract() domainagg.Contract { return domainagg.RecipeAggregateContract }

func (a *recipeAggregate) Create(ctx context.Context, actor authz.Actor, in domainagg.CreateRecipeInput) (*recipe.Recipe, error) {
	const op = "Recipe.Create"
	if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceRecipe}, authz.ActionCreate)); err != nil {
		return nil, err
	}

	name, err := checkRecipeName(in.Name)
	if err != nil {
		return nil, MapError(op, err)
	}
	text, err := checkRecipeText(in.Text)
	if err != nil {
		return nil, MapError(op, err)
	}
	if err := checkCookingTime(in.CookingTime); err != nil {
		return nil, MapError(op, err)
	}
	tagIDs, err := checkTagIDs(in.TagIDs)
	if err != nil {
		return nil, MapError(op, err)
	}
	if err := CheckIngredientAmounts(in.Ingredients); err != nil {
		return nil, MapError(op, err)
	}

	var out *recipe.Recipe
	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.checkTagsExist(dbc, tagIDs); err != nil {
			return err
		}
		if err := a.ledger.checkRefs(dbc, in.Ingredients); err != nil {
			return err
		}
		if err := a.checkNameFree(dbc, name, actor.UserID, uuid.Nil); err != nil {
			return err
		}

		row := &types.Recipe{
			AuthorID:    actor.UserID,
			Name:        name,
			Text:        text,
			Image:       strings.TrimSpace(in.Image),
			CookingTime: in.CookingTime,
			PublishedAt: a.deps.Base.Clock(),
		}
		if err := a.deps.Recipes.Create(dbc, row); err != nil {
			if IsUniqueViolation(err) {
				return errNameTaken()
			}
			return err
		}
		if err := a.deps.Recipes.ReplaceTags(dbc, row.ID, tagIDs); err != nil {
			return err
		}
		if err := a.ledger.replace(dbc, row.ID, in.Ingredients); err != nil {
			return err
		}
		loaded, err := a.deps.Recipes.GetDetailed(dbc, row.ID)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *recipeAggregate) Update(ctx context.Context, actor authz.Actor, recipeID uuid.UUID, in domainagg.UpdateRecipeInput) (*recipe.Recipe, error) {
	const op = "Recipe.Update"
	if !actor.Authenticated() {
		return nil, denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceRecipe}, authz.ActionUpdate))
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name, err := checkRecipeName(*in.Name)
		if err != nil {
			return nil, MapError(op, err)
		}
		updates["name"] = name
	}
	if in.Text != nil {
		text, err := checkRecipeText(*in.Text)
		if err != nil {
			return nil, MapError(op, err)
		}
		updates["text"] = text
	}
	if in.Image != nil {
		updates["image"] = strings.TrimSpace(*in.Image)
	}
	if in.CookingTime != nil {
		if err := checkCookingTime(*in.CookingTime); err != nil {
			return nil, MapError(op, err)
		}
		updates["cooking_time"] = *in.CookingTime
	}
	var tagIDs []uuid.UUID
	if in.TagIDs != nil {
		ids, err := checkTagIDs(*in.TagIDs)
		if err != nil {
			return nil, MapError(op, err)
		}
		tagIDs = ids
	}
	if in.Ingredients != nil {
		if err := CheckIngredientAmounts(*in.Ingredients); err != nil {
			return nil, MapError(op, err)
		}
	}

	var out *recipe.Recipe
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.deps.Recipes.GetByID(dbc, recipeID)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFoundError("recipe not found")
		}
		if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceRecipe, OwnerID: current.AuthorID}, authz.ActionUpdate)); err != nil {
			return err
		}

		if name, ok := updates["name"].(string); ok {
			if err := a.checkNameFree(dbc, name, current.AuthorID, current.ID); err != nil {
				return err
			}
		}
		if err := a.deps.Recipes.UpdateFields(dbc, current.ID, updates); err != nil {
			if IsUniqueViolation(err) {
				return errNameTaken()
			}
			return err
		}
		if in.TagIDs != nil {
			if err := a.checkTagsExist(dbc, tagIDs); err != nil {
				return err
			}
			if err := a.deps.Recipes.ReplaceTags(dbc, current.ID, tagIDs); err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			if err := a.ledger.checkRefs(dbc, *in.Ingredients); err != nil {
				return err
			}
			if err := a.ledger.replace(dbc, current.ID, *in.Ingredients); err != nil {
				return err
			}
		}
		loaded, err := a.deps.Recipes.GetDetailed(dbc, current.ID)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *recipeAggregate) Delete(ctx context.Context, actor authz.Actor, recipeID uuid.UUID) error {
	const op = "Recipe.Delete"
	if !actor.Authenticated() {
		return denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceRecipe}, authz.ActionDelete))
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.deps.Recipes.GetByID(dbc, recipeID)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFoundError("recipe not found")
		}
		if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceRecipe, OwnerID: current.AuthorID}, authz.ActionDelete)); err != nil {
			return err
		}
		if a.deps.Favorites != nil {
			if err := a.deps.Favorites.DeleteByMember(dbc, current.ID); err != nil {
				return err
			}
		}
		if a.deps.Cart != nil {
			if err := a.deps.Cart.DeleteByMember(dbc, current.ID); err != nil {
				return err
			}
		}
		if err := a.deps.Ledger.DeleteByRecipe(dbc, current.ID); err != nil {
			return err
		}
		if err := a.deps.Recipes.ReplaceTags(dbc, current.ID, nil); err != nil {
			return err
		}
		n, err := a.deps.Recipes.Delete(dbc, current.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError("recipe not found")
		}
		return nil
	})
}

func (a *recipeAggregate) checkTagsExist(dbc dbctx.Context, ids []uuid.UUID) error {
	found, err := a.deps.Tags.GetByIDs(dbc, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, t := range found {
		known[t.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return FieldError("tags", fmt.Sprintf("tag %s: does not exist", id))
		}
	}
	return nil
}

func (a *recipeAggregate) checkNameFree(dbc dbctx.Context, name string, authorID, excludeID uuid.UUID) error {
	var scopeAuthor uuid.UUID
	switch a.deps.NameScope {
	case domainagg.NameScopeNone:
		return nil
	case domainagg.NameScopeAuthor:
		scopeAuthor = authorID
	}
	taken, err := a.deps.Recipes.NameTaken(dbc, name, scopeAuthor, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return errNameTaken()
	}
	return nil
}

func errNameTaken() error {
	return FieldError("name", "recipe with this name already exists")
}

func checkRecipeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", FieldError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > recipe.MaxNameLength {
		return "", FieldError("name", fmt.Sprintf("name must be at most %d characters", recipe.MaxNameLength))
	}
	return name, nil
}

func checkRecipeText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", FieldError("text", "text is required")
	}
	return text, nil
}

func checkCookingTime(minutes int) error {
	if minutes < recipe.MinCookingTime {
		return FieldError("cooking_time", fmt.Sprintf("cooking time must be ≥ %d", recipe.MinCookingTime))
	}
	return nil
}

// checkTagIDs requires at least one tag and drops repeats; a tag set has no
// multiplicity.
func checkTagIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, FieldError("tags", "tag id is required")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, FieldError("tags", "must choose at least one tag")
	}
	return out, nil
}
