package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8094", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "portal_resolver", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, []string{"pagevine.app", "pagevine.com"}, cfg.Resolver.MainAppDomains)
	assert.Equal(t, []string{"pagevine.app"}, cfg.Resolver.RootDomains)
	assert.Contains(t, cfg.Resolver.ReservedSubdomains, "www")
	assert.Contains(t, cfg.Resolver.ReservedSubdomains, "api")
	assert.Equal(t, 5*time.Minute, cfg.Resolver.CacheTTL)
	assert.Equal(t, 10000, cfg.Resolver.CacheMaxEntries)
	assert.Equal(t, 3*time.Second, cfg.Resolver.QueryTimeout)
	assert.Equal(t, float64(200), cfg.Resolver.MissRateLimit)
	assert.Equal(t, 500, cfg.Resolver.MissRateBurst)

	assert.Equal(t, time.Minute, cfg.Workers.CacheSweepInterval)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_NAME", "resolver_test")
	t.Setenv("MAIN_APP_DOMAINS", "example.dev, example.io")
	t.Setenv("LANDING_ROOT_DOMAINS", "example.dev")
	t.Setenv("RESOLVER_CACHE_TTL", "30s")
	t.Setenv("RESOLVER_CACHE_MAX_ENTRIES", "250")
	t.Setenv("RESOLVER_MISS_RATE_LIMIT", "50.5")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "resolver_test", cfg.Database.DBName)
	assert.Equal(t, []string{"example.dev", "example.io"}, cfg.Resolver.MainAppDomains)
	assert.Equal(t, []string{"example.dev"}, cfg.Resolver.RootDomains)
	assert.Equal(t, 30*time.Second, cfg.Resolver.CacheTTL)
	assert.Equal(t, 250, cfg.Resolver.CacheMaxEntries)
	assert.Equal(t, 50.5, cfg.Resolver.MissRateLimit)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RESOLVER_CACHE_TTL", "not-a-duration")
	t.Setenv("RESOLVER_CACHE_MAX_ENTRIES", "many")
	t.Setenv("RESOLVER_MISS_RATE_LIMIT", "fast")

	cfg := LoadConfig()

	assert.Equal(t, 5*time.Minute, cfg.Resolver.CacheTTL)
	assert.Equal(t, 10000, cfg.Resolver.CacheMaxEntries)
	assert.Equal(t, float64(200), cfg.Resolver.MissRateLimit)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "portal_resolver",
		SSLMode:  "disable",
	}.DSN()

	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=portal_resolver sslmode=disable", dsn)
}
