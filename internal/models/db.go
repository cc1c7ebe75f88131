package models

import (
	"fmt"
	"time"

	"github.com/jesusmusic/backend/internal/config"
	"github.com/jesusmusic/backend/internal/logging"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimeZone)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		// References between documents are soft: no FK constraints.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	if cfg.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log := logging.WithComponent("database")
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("Database connection established")
	return db, nil
}

// InitRedis initializes Redis connection
func InitRedis(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	logging.Info().Str("addr", client.Options().Addr).Msg("Redis client configured")
	return client
}

// Migrate creates or updates one table per entity kind.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Album{},
		&Song{},
		&Playlist{},
		&Podcast{},
	)
}
