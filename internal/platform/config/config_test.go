package config_test

import (
	"testing"
	"time"

	. "spidyleet/internal/platform/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "http://localhost:3000/api/v1", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "javascript", cfg.DefaultLanguage)
	assert.Equal(t, time.Minute, cfg.ListingCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.ListingRefreshInterval)
	assert.False(t, cfg.HasDatabase())
	assert.False(t, cfg.HasRedis())
	assert.Same(t, cfg, AppConfig)
}

func TestLoad_Custom(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("BACKEND_URL", "http://judge.local/api/v1/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("DEFAULT_LANGUAGE", "cpp")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MAX_WORKSPACES", "4")

	cfg := Load()

	assert.Equal(t, "9000", cfg.APIPort)
	assert.Equal(t, "http://judge.local/api/v1", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "cpp", cfg.DefaultLanguage)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 4, cfg.MaxWorkspaces)
	assert.True(t, cfg.HasRedis())
}

func TestLoad_DatabaseConnString(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "history")

	cfg := Load()
	assert.True(t, cfg.HasDatabase())
	assert.Contains(t, cfg.DBConnStr, "host=db")
	assert.Contains(t, cfg.DBConnStr, "dbname=history")

	t.Setenv("DB_URL", "postgres://u:p@db/h")
	assert.Equal(t, "postgres://u:p@db/h", Load().DBConnStr)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_WORKSPACES", "many")
	t.Setenv("LISTING_CACHE_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 32, cfg.MaxWorkspaces)
	assert.Equal(t, time.Minute, cfg.ListingCacheTTL)
}
