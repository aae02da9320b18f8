package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"portal-resolver-service/internal/config"
	"portal-resolver-service/internal/handlers"
	"portal-resolver-service/internal/models"
	natssub "portal-resolver-service/internal/nats"
	"portal-resolver-service/internal/repository"
	"portal-resolver-service/internal/services"
	"portal-resolver-service/internal/workers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	initLogging()

	log.Info().Msg("Starting portal-resolver-service")

	cfg := config.LoadConfig()

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := runMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient := initRedis(cfg)

	// Repositories
	queryTimeout := cfg.Resolver.QueryTimeout
	tenantRepo := repository.NewTenantRepository(db, queryTimeout)
	domainRepo := repository.NewPortalDomainRepository(db, queryTimeout)
	landingRepo := repository.NewAgencyLandingRepository(db, queryTimeout)

	// Resolver
	classifier := services.NewClassifier(cfg.Resolver)
	cache := services.NewResolverCache(cfg.Resolver.CacheTTL, cfg.Resolver.CacheMaxEntries)
	resolver := services.NewResolverService(cfg, classifier, cache, tenantRepo, domainRepo, landingRepo, redisClient)

	// NATS subscriber for async cache invalidation
	var subscriber *natssub.Subscriber
	if cfg.NATS.URL != "" {
		subscriber, err = natssub.NewSubscriber(cfg, resolver)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize NATS subscriber, event-driven invalidation disabled")
		}
	} else {
		log.Warn().Msg("NATS URL not configured, event-driven invalidation disabled")
	}

	// Handlers
	resolveHandlers := handlers.NewResolveHandlers(resolver)
	cacheHandlers := handlers.NewCacheHandlers(resolver)

	router := setupRouter(cfg, resolveHandlers, cacheHandlers)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepWorker := workers.NewCacheSweepWorker(cfg, cache)
	go sweepWorker.Start(ctx)

	if subscriber != nil {
		if err := subscriber.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to start NATS subscriptions")
		}
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if subscriber != nil {
		subscriber.Stop()
	}

	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}

	if redisClient != nil {
		redisClient.Close()
	}

	log.Info().Msg("Server exited")
}

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Use JSON logging in production
	if os.Getenv("GIN_MODE") == "release" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default
	if os.Getenv("GIN_MODE") == "release" {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func runMigrations(db *gorm.DB) error {
	log.Info().Msg("Running database migrations")

	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")

	return db.AutoMigrate(
		&models.Tenant{},
		&models.PortalDomain{},
		&models.AgencyLanding{},
	)
}

func initRedis(cfg *config.Config) *redis.Client {
	var opt *redis.Options
	if cfg.Redis.URL != "" {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to parse Redis URL, using host/port config")
		} else {
			opt = parsed
		}
	}
	if opt == nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, shared cache tier disabled")
		return nil
	}

	log.Info().Msg("Connected to Redis")
	return client
}

func setupRouter(cfg *config.Config, resolveHandlers *handlers.ResolveHandlers, cacheHandlers *handlers.CacheHandlers) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	// CORS for the admin UI; the resolve endpoints are service-to-service
	// and not browser-facing.
	allowedOrigins := []string{
		"https://admin.pagevine.app",
		"https://app.pagevine.app",
	}
	if extraOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); extraOrigins != "" {
		for _, origin := range strings.Split(extraOrigins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", resolveHandlers.Health)
	router.GET("/ready", resolveHandlers.Ready)

	v1 := router.Group("/api/v1")
	{
		internal := v1.Group("/internal")
		{
			internal.GET("/resolve", resolveHandlers.ResolveDomain)
			internal.GET("/classify", resolveHandlers.ClassifyHostname)
			internal.GET("/theme", resolveHandlers.PortalTheme)
		}

		admin := v1.Group("/admin/cache")
		{
			admin.GET("/stats", cacheHandlers.GetStats)
			admin.DELETE("", cacheHandlers.ClearAll)
			admin.DELETE("/portal/:domain", cacheHandlers.ClearPortalDomain)
			admin.DELETE("/tenant/:tenantId", cacheHandlers.ClearTenant)
			admin.DELETE("/landing", cacheHandlers.ClearLanding)
		}
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
