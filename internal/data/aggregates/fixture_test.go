package aggregates_test

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/aggregates"
	aggtest "github.com/AntonEmtsov/foodgram-project-react/internal/data/aggregates/testutil"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	hooks *aggtest.HooksRecorder
	base  aggregates.BaseDeps

	users       repos.UserRepo
	recipes     repos.RecipeRepo
	ledgerRows  repos.LedgerRepo
	ingredients repos.IngredientRepo
	tags        repos.TagRepo
	favorites   *repos.FavoriteRepo
	cart        *repos.CartRepo
	subs        *repos.SubscriptionRepo
}

func newFixture(t *testing.T) *fixture {
	return newScopedFixture(t, domainagg.NameScopeGlobal)
}

func newScopedFixture(t *testing.T, scope domainagg.NameScope) *fixture {
	t.Helper()
	db := testutil.DBWithScope(t, scope)
	log := testutil.Logger(t)
	hooks := &aggtest.HooksRecorder{}
	return &fixture{
		db:    db,
		hooks: hooks,
		base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: hooks,
			Clock: func() time.Time { return fixedNow },
		},
		users:       repos.NewUserRepo(db, log),
		recipes:     repos.NewRecipeRepo(db, log),
		ledgerRows:  repos.NewLedgerRepo(db, log),
		ingredients: repos.NewIngredientRepo(db, log),
		tags:        repos.NewTagRepo(db, log),
		favorites:   repos.NewFavoriteRepo(db, log),
		cart:        repos.NewCartRepo(db, log),
		subs:        repos.NewSubscriptionRepo(db, log),
	}
}

func (f *fixture) recipeAggregate(scope domainagg.NameScope) domainagg.RecipeAggregate {
	return aggregates.NewRecipeAggregate(aggregates.RecipeDeps{
		Base:        f.base,
		Recipes:     f.recipes,
		Ledger:      f.ledgerRows,
		Ingredients: f.ingredients,
		Tags:        f.tags,
		Favorites:   f.favorites,
		Cart:        f.cart,
		NameScope:   scope,
	})
}

func (f *fixture) ledger() domainagg.QuantityLedger {
	return aggregates.NewQuantityLedger(aggregates.LedgerDeps{
		Base:        f.base,
		Recipes:     f.recipes,
		Ledger:      f.ledgerRows,
		Ingredients: f.ingredients,
	})
}

func (f *fixture) favoritesSet() domainagg.RecipeCollection {
	return aggregates.NewRecipeCollection(aggregates.RecipeCollectionDeps[types.Favorite, *types.Favorite]{
		Base:    f.base,
		Recipes: f.recipes,
		Repo:    f.favorites,
		Kind:    authz.ResourceFavorites,
		Name:    "Favorites",
	})
}

func (f *fixture) cartSet() domainagg.RecipeCollection {
	return aggregates.NewRecipeCollection(aggregates.RecipeCollectionDeps[types.CartItem, *types.CartItem]{
		Base:    f.base,
		Recipes: f.recipes,
		Repo:    f.cart,
		Kind:    authz.ResourceCart,
		Name:    "Cart",
	})
}

func (f *fixture) graph() domainagg.SubscriptionGraph {
	return aggregates.NewSubscriptionGraph(aggregates.SubscriptionDeps{
		Base:          f.base,
		Users:         f.users,
		Subscriptions: f.subs,
	})
}

func actorOf(u *types.User) authz.Actor {
	return authz.Actor{UserID: u.ID, Role: u.RoleValue()}
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if !domainagg.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func allRecipes() repos.RecipeListFilter { return repos.RecipeListFilter{} }
