package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Resolver ResolverConfig
	Workers  WorkersConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string
	Mode string // "debug" or "release"
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis configuration for the shared resolution cache tier
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	URL      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string
}

// ResolverConfig holds domain-resolution configuration.
// MainAppDomains is the allow-list of platform-operated domains that
// must never resolve to a tenant. RootDomains are the domains under
// which agency landing subdomains live, matched in order.
type ResolverConfig struct {
	MainAppDomains     []string
	RootDomains        []string
	ReservedSubdomains []string

	CacheTTL        time.Duration
	CacheMaxEntries int
	QueryTimeout    time.Duration

	// Rate limit applied to store lookups on cache misses, bounding the
	// database load generated by random/hostile hostname traffic.
	MissRateLimit float64
	MissRateBurst int
}

// WorkersConfig holds background worker configuration
type WorkersConfig struct {
	CacheSweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("HOST", "0.0.0.0"),
			Port: getEnv("PORT", "8094"),
			Mode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "postgresql.database.svc.cluster.local"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "portal_resolver"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis.redis-platform.svc.cluster.local"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			URL:      getEnv("REDIS_URL", ""),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Resolver: ResolverConfig{
			MainAppDomains:     getEnvStringSlice("MAIN_APP_DOMAINS", "pagevine.app,pagevine.com"),
			RootDomains:        getEnvStringSlice("LANDING_ROOT_DOMAINS", "pagevine.app"),
			ReservedSubdomains: getEnvStringSlice("RESERVED_SUBDOMAINS", "www,app,api,admin,help,support,blog,docs,portal"),
			CacheTTL:           getEnvDuration("RESOLVER_CACHE_TTL", 5*time.Minute),
			CacheMaxEntries:    getEnvInt("RESOLVER_CACHE_MAX_ENTRIES", 10000),
			QueryTimeout:       getEnvDuration("RESOLVER_QUERY_TIMEOUT", 3*time.Second),
			MissRateLimit:      getEnvFloat("RESOLVER_MISS_RATE_LIMIT", 200),
			MissRateBurst:      getEnvInt("RESOLVER_MISS_RATE_BURST", 500),
		},
		Workers: WorkersConfig{
			CacheSweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL", time.Minute),
		},
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as float64 with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as duration with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvStringSlice splits a comma-separated env var into a string slice
func getEnvStringSlice(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
