package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/db"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/observability"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/envutil"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime/bus"
)

type Config struct {
	LogMode         string        `yaml:"log_mode"`
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	DB    db.Config       `yaml:"database"`
	Redis bus.RedisConfig `yaml:"redis"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	RecipeNameScope          string `yaml:"recipe_name_scope"`
	SubscriptionRecipesLimit int    `yaml:"subscription_recipes_limit"`
	IngredientSearchLimit    int    `yaml:"ingredient_search_limit"`
	Parallelism              int    `yaml:"parallelism"`

	CORSOrigins    []string                 `yaml:"cors_origins"`
	MetricsEnabled bool                     `yaml:"metrics_enabled"`
	MetricsAddr    string                   `yaml:"metrics_addr"`
	Otel           observability.OtelConfig `yaml:"otel"`
}

func DefaultConfig() Config {
	return Config{
		LogMode:         "development",
		Port:            "8080",
		ShutdownTimeout: 15 * time.Second,
		DB: db.Config{
			Driver:  db.DriverPostgres,
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "foodgram",
			SSLMode: "disable",
		},
		Redis:                    bus.RedisConfig{Channel: "foodgram:events"},
		JWTSecretKey:             "defaultsecret",
		AccessTokenTTL:           24 * time.Hour,
		RecipeNameScope:          string(domainagg.NameScopeGlobal),
		SubscriptionRecipesLimit: 3,
		IngredientSearchLimit:    50,
		Parallelism:              4,
		MetricsEnabled:           true,
		Otel: observability.OtelConfig{
			ServiceName: "foodgram",
			SampleRatio: 1,
		},
	}
}

// LoadConfig layers an optional YAML file (FOODGRAM_CONFIG) and then the
// environment over the defaults.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := DefaultConfig()
	if path := strings.TrimSpace(os.Getenv("FOODGRAM_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	cfg.DB.Driver = envutil.String("DATABASE_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)

	cfg.RecipeNameScope = envutil.String("RECIPE_NAME_SCOPE", cfg.RecipeNameScope)
	cfg.SubscriptionRecipesLimit = envutil.Int("SUBSCRIPTION_RECIPES_LIMIT", cfg.SubscriptionRecipesLimit)
	cfg.IngredientSearchLimit = envutil.Int("INGREDIENT_SEARCH_LIMIT", cfg.IngredientSearchLimit)
	cfg.Parallelism = envutil.Int("FANOUT_PARALLELISM", cfg.Parallelism)

	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = envutil.String("METRICS_ADDR", cfg.MetricsAddr)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	if c.SubscriptionRecipesLimit < 0 {
		return fmt.Errorf("SUBSCRIPTION_RECIPES_LIMIT must not be negative")
	}
	switch domainagg.NameScope(c.RecipeNameScope) {
	case domainagg.NameScopeGlobal, domainagg.NameScopeAuthor, domainagg.NameScopeNone:
	default:
		return fmt.Errorf("unknown RECIPE_NAME_SCOPE %q", c.RecipeNameScope)
	}
	return nil
}

func (c Config) NameScope() domainagg.NameScope {
	return domainagg.ParseNameScope(c.RecipeNameScope)
}

func (c Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
