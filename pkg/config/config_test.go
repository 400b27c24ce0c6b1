package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "app_", cfg.Store.KeyPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Overview.CacheTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Uploads.MaxFileSizeBytes)
	assert.Equal(t, 500, cfg.Limits.Events)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("STORE_KEY_PREFIX", "tenant_")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("OVERVIEW_CACHE_TTL", "30s")
	t.Setenv("REPORTS_SIGNED_URL_TTL", "not-a-duration")
	t.Setenv("UPLOADS_MAX_FILE_SIZE", "-1")
	t.Setenv("ENABLE_OVERVIEW_CACHE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "tenant_", cfg.Store.KeyPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Overview.CacheEnabled)
	assert.Equal(t, 30*time.Second, cfg.Overview.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Uploads.MaxFileSizeBytes)
}
