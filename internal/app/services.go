package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/aggregates"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime/bus"
	"github.com/AntonEmtsov/foodgram-project-react/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Recipe       services.RecipeService
	Favorites    services.CollectionService
	Cart         services.CollectionService
	ShoppingList services.ShoppingListService
	Subscription services.SubscriptionService
	Catalog      services.CatalogService
	Events       services.RecipeEvents
	Streams      services.EventStreamService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	repos Repos,
	eventBus bus.Bus,
	hub *realtime.SSEHub,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
		Clock: func() time.Time { return time.Now().UTC() },
	}

	recipeAgg := aggregates.NewRecipeAggregate(aggregates.RecipeDeps{
		Base:        base,
		Recipes:     repos.Recipe,
		Ledger:      repos.Ledger,
		Ingredients: repos.Ingredient,
		Tags:        repos.Tag,
		Favorites:   repos.Favorite,
		Cart:        repos.Cart,
		NameScope:   cfg.NameScope(),
	})
	favorites := aggregates.NewRecipeCollection(aggregates.RecipeCollectionDeps[types.Favorite, *types.Favorite]{
		Base:    base,
		Recipes: repos.Recipe,
		Repo:    repos.Favorite,
		Kind:    authz.ResourceFavorites,
		Name:    "Favorites",
	})
	cart := aggregates.NewRecipeCollection(aggregates.RecipeCollectionDeps[types.CartItem, *types.CartItem]{
		Base:    base,
		Recipes: repos.Recipe,
		Repo:    repos.Cart,
		Kind:    authz.ResourceCart,
		Name:    "Cart",
	})
	graph := aggregates.NewSubscriptionGraph(aggregates.SubscriptionDeps{
		Base:          base,
		Users:         repos.User,
		Subscriptions: repos.Subscription,
	})

	for _, c := range domainagg.Contracts() {
		log.Debug("Aggregate wired", "name", c.Name, "tx", c.WriteTxOwnership, "reads", c.ReadPolicy)
	}

	events := services.NewRecipeEvents(eventBus, log, metrics)
	recipeService := services.NewRecipeService(
		db, log, recipeAgg, repos.Recipe, repos.Favorite, repos.Cart, repos.Subscription, events, cfg.Parallelism,
	)

	return Services{
		Auth:         services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:         services.NewUserService(log, repos.User, repos.Subscription, cfg.Parallelism),
		Recipe:       recipeService,
		Favorites:    services.NewCollectionService(favorites, recipeService),
		Cart:         services.NewCollectionService(cart, recipeService),
		ShoppingList: services.NewShoppingListService(log, repos.Ledger, metrics),
		Subscription: services.NewSubscriptionService(
			log, graph, repos.User, repos.Recipe, cfg.SubscriptionRecipesLimit, cfg.Parallelism,
		),
		Catalog: services.NewCatalogService(repos.Tag, repos.Ingredient, cfg.IngredientSearchLimit),
		Events:  events,
		Streams: services.NewEventStreamService(hub, repos.User, log, metrics),
	}
}
