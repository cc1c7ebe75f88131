// Music catalog API server.
//
//	@title						Music Catalog API
//	@version					1.0
//	@description				Songs, albums, playlists, podcasts and per-user favorites.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jesusmusic/backend/internal/config"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/jesusmusic/backend/internal/models"
	"github.com/jesusmusic/backend/internal/router"
	"github.com/jesusmusic/backend/internal/services"
	"github.com/jesusmusic/backend/internal/store"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.New()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Info().Msg("No .env file found, using environment variables")
	}

	st, health, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to initialize store")
	}
	defer st.Close()

	var (
		redisClient *redis.Client
		blacklist   services.TokenBlacklist
	)
	if cfg.StoreDriver == "memory" {
		blacklist = services.NewMemoryBlacklist()
	} else {
		redisClient = models.InitRedis(cfg)
		defer redisClient.Close()
		blacklist = services.NewRedisBlacklist(redisClient)
	}

	// Initialize services
	authService := services.NewAuthService(st.Users, blacklist, cfg)
	linkService := services.NewLinkService(st)
	catalogService := services.NewCatalogService(st, cfg.StoreBatchSize)

	engine := router.New(router.Deps{
		Config:  cfg,
		Redis:   redisClient,
		Auth:    authService,
		Links:   linkService,
		Catalog: catalogService,
		Health:  health,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logging.Info().Str("port", cfg.Port).Str("docs", "/api-docs").Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logging.Info().Msg("Server exited")
}

// openStore connects the configured backend and returns a readiness check.
func openStore(cfg *config.Config) (*store.Store, func(*gin.Context) error, error) {
	if cfg.StoreDriver == "memory" {
		logging.Warn().Msg("Using in-memory store, data is lost on restart")
		return store.NewMemory(), nil, nil
	}

	db, err := models.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := models.Migrate(db); err != nil {
		return nil, nil, err
	}

	health := func(c *gin.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(c.Request.Context())
	}
	return store.NewPostgres(db), health, nil
}
