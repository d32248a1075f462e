package db

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/gamehub/internal/chat"
	"github.com/thesrcielos/gamehub/internal/config"
	"github.com/thesrcielos/gamehub/internal/game"
	"github.com/thesrcielos/gamehub/internal/social"
	"github.com/thesrcielos/gamehub/internal/user"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// Connect opens the postgres pool, retrying while the database starts up.
func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		conn, err := open(cfg, level)
		if err == nil {
			logger.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
			return conn, nil
		}
		lastErr = err
		logger.Warn("database not ready",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", connectAttempts),
			zap.Error(err),
		)
		time.Sleep(connectBackoff)
	}
	return nil, fmt.Errorf("error connecting to database: %w", lastErr)
}

func open(cfg *config.Config, level gormlogger.LogLevel) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

// ConnectRedis returns nil when no address is configured.
func ConnectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	var tlsConfig *tls.Config
	if cfg.RedisTLS {
		tlsConfig = &tls.Config{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:      cfg.RedisAddr,
		Username:  cfg.RedisUsername,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		TLSConfig: tlsConfig,
	})

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", cfg.RedisAddr), zap.String("pong", pong))
	return rdb, nil
}

func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&user.AccessToken{},
		&social.Friendship{},
		&social.BlockedUser{},
		&chat.Chat{},
		&chat.ChatMessage{},
		&game.Game{},
		&game.GameHistory{},
		&game.GameStatistic{},
	}
}

func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}
	return nil
}
