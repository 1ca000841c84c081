package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FOODGRAM_CONFIG", "PORT", "RECIPE_NAME_SCOPE", "SUBSCRIPTION_RECIPES_LIMIT", "ACCESS_TOKEN_TTL", "DATABASE_DRIVER", "SQLITE_PATH", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, domainagg.NameScopeGlobal, cfg.NameScope())
	require.Equal(t, 3, cfg.SubscriptionRecipesLimit)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodgram.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
access_token_ttl: 2h
recipe_name_scope: author
subscription_recipes_limit: 5
database:
  driver: sqlite
  sqlite_path: /tmp/foodgram.db
cors_origins:
  - https://food.example.com
`), 0o600))
	clearConfigEnv(t)
	t.Setenv("FOODGRAM_CONFIG", path)
	t.Setenv("SUBSCRIPTION_RECIPES_LIMIT", "7")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr())
	require.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, domainagg.NameScopeAuthor, cfg.NameScope())
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "/tmp/foodgram.db", cfg.DB.SQLitePath)
	require.Equal(t, 7, cfg.SubscriptionRecipesLimit)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.JWTSecretKey = " " }},
		{"zero ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"negative limit", func(c *Config) { c.SubscriptionRecipesLimit = -1 }},
		{"unknown scope", func(c *Config) { c.RecipeNameScope = "tenant" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, DefaultConfig().Validate())
}
