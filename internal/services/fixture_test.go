package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/testutil"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/ctxutil"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type fixture struct {
	db  *gorm.DB
	log *logger.Logger

	users       repos.UserRepo
	recipes     repos.RecipeRepo
	ledger      repos.LedgerRepo
	ingredients repos.IngredientRepo
	tags        repos.TagRepo
	favorites   *repos.FavoriteRepo
	cart        *repos.CartRepo
	subs        *repos.SubscriptionRepo

	base aggregates.BaseDeps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &fixture{
		db:          db,
		log:         log,
		users:       repos.NewUserRepo(db, log),
		recipes:     repos.NewRecipeRepo(db, log),
		ledger:      repos.NewLedgerRepo(db, log),
		ingredients: repos.NewIngredientRepo(db, log),
		tags:        repos.NewTagRepo(db, log),
		favorites:   repos.NewFavoriteRepo(db, log),
		cart:        repos.NewCartRepo(db, log),
		subs:        repos.NewSubscriptionRepo(db, log),
		base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Clock: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
	}
}

func (f *fixture) recipeService(events RecipeEvents) RecipeService {
	agg := aggregates.NewRecipeAggregate(aggregates.RecipeDeps{
		Base:        f.base,
		Recipes:     f.recipes,
		Ledger:      f.ledger,
		Ingredients: f.ingredients,
		Tags:        f.tags,
		Favorites:   f.favorites,
		Cart:        f.cart,
		NameScope:   domainagg.NameScopeGlobal,
	})
	return NewRecipeService(f.db, f.log, agg, f.recipes, f.favorites, f.cart, f.subs, events, testutil.Parallelism())
}

func (f *fixture) cartService() CollectionService {
	set := aggregates.NewRecipeCollection(aggregates.RecipeCollectionDeps[types.CartItem, *types.CartItem]{
		Base:    f.base,
		Recipes: f.recipes,
		Repo:    f.cart,
		Kind:    authz.ResourceCart,
		Name:    "Cart",
	})
	return NewCollectionService(set, f.recipeService(nil))
}

func (f *fixture) favoritesService() CollectionService {
	set := aggregates.NewRecipeCollection(aggregates.RecipeCollectionDeps[types.Favorite, *types.Favorite]{
		Base:    f.base,
		Recipes: f.recipes,
		Repo:    f.favorites,
		Kind:    authz.ResourceFavorites,
		Name:    "Favorites",
	})
	return NewCollectionService(set, f.recipeService(nil))
}

func (f *fixture) subscriptionService(defaultLimit int) SubscriptionService {
	graph := aggregates.NewSubscriptionGraph(aggregates.SubscriptionDeps{
		Base:          f.base,
		Users:         f.users,
		Subscriptions: f.subs,
	})
	return NewSubscriptionService(f.log, graph, f.users, f.recipes, defaultLimit, testutil.Parallelism())
}

func (f *fixture) shoppingList() ShoppingListService {
	return NewShoppingListService(f.log, f.ledger, nil)
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID, Role: u.Role})
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if !domainagg.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
