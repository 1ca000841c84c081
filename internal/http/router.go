package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/AntonEmtsov/foodgram-project-react/internal/http/handlers"
	httpMW "github.com/AntonEmtsov/foodgram-project-react/internal/http/middleware"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	TracingService string

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	RecipeHandler   *httpH.RecipeHandler
	CatalogHandler  *httpH.CatalogHandler
	RealtimeHandler *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(httpMW.Tracing(cfg.TracingService)...)
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	optionalAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
		optionalAuth = cfg.AuthMiddleware.OptionalAuth()
	}

	api := r.Group("/api")

	// Auth
	if cfg.AuthHandler != nil {
		api.POST("/users", cfg.AuthHandler.Register)
		api.POST("/auth/token/login", cfg.AuthHandler.Login)
		api.POST("/auth/token/logout", requireAuth, cfg.AuthHandler.Logout)
	}

	// Users and subscriptions
	if cfg.UserHandler != nil {
		api.GET("/users", optionalAuth, cfg.UserHandler.List)
		api.GET("/users/me", requireAuth, cfg.UserHandler.GetMe)
		api.POST("/users/set_password", requireAuth, cfg.UserHandler.SetPassword)
		api.GET("/users/subscriptions", requireAuth, cfg.UserHandler.Subscriptions)
		api.GET("/users/:id", optionalAuth, cfg.UserHandler.Get)
		api.POST("/users/:id/subscribe", requireAuth, cfg.UserHandler.Subscribe)
		api.DELETE("/users/:id/subscribe", requireAuth, cfg.UserHandler.Unsubscribe)
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		api.GET("/users/subscriptions/events", requireAuth, cfg.RealtimeHandler.SSEStream)
	}

	// Catalog
	if cfg.CatalogHandler != nil {
		api.GET("/tags", cfg.CatalogHandler.ListTags)
		api.GET("/tags/:id", cfg.CatalogHandler.GetTag)
		api.GET("/ingredients", cfg.CatalogHandler.ListIngredients)
		api.GET("/ingredients/:id", cfg.CatalogHandler.GetIngredient)
	}

	// Recipes
	if cfg.RecipeHandler != nil {
		recipes := api.Group("/recipes")
		recipes.GET("", optionalAuth, cfg.RecipeHandler.List)
		recipes.POST("", requireAuth, cfg.RecipeHandler.Create)
		recipes.GET("/download_shopping_cart", requireAuth, cfg.RecipeHandler.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, cfg.RecipeHandler.Get)
		recipes.PATCH("/:id", requireAuth, cfg.RecipeHandler.Update)
		recipes.DELETE("/:id", requireAuth, cfg.RecipeHandler.Delete)
		recipes.POST("/:id/favorite", requireAuth, cfg.RecipeHandler.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, cfg.RecipeHandler.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, cfg.RecipeHandler.AddToCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, cfg.RecipeHandler.RemoveFromCart)
	}

	return r
}
