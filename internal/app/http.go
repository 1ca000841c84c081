package app

import (
	"gorm.io/gorm"

	httpx "github.com/AntonEmtsov/foodgram-project-react/internal/http"
	httpH "github.com/AntonEmtsov/foodgram-project-react/internal/http/handlers"
	httpMW "github.com/AntonEmtsov/foodgram-project-react/internal/http/middleware"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Recipe   *httpH.RecipeHandler
	Catalog  *httpH.CatalogHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Auth:   httpH.NewAuthHandler(services.Auth),
		User:   httpH.NewUserHandler(services.User, services.Subscription),
		Recipe: httpH.NewRecipeHandlerWithDeps(httpH.RecipeHandlerDeps{
			Recipes:      services.Recipe,
			Favorites:    services.Favorites,
			Cart:         services.Cart,
			ShoppingList: services.ShoppingList,
		}),
		Catalog:  httpH.NewCatalogHandler(services.Catalog),
		Realtime: httpH.NewRealtimeHandler(log, services.Streams),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *httpx.Server {
	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	return httpx.NewServer(httpx.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		CORSOrigins:     cfg.CORSOrigins,
		TracingService:  tracing,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		UserHandler:     handlers.User,
		RecipeHandler:   handlers.Recipe,
		CatalogHandler:  handlers.Catalog,
		RealtimeHandler: handlers.Realtime,
	})
}
