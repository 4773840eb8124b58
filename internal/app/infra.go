package app

import (
	"context"
	"errors"

	"admin-dashboard/internal/config"
	"admin-dashboard/internal/db"
	"admin-dashboard/internal/logger"
	"admin-dashboard/internal/redis"
)

// Infra holds optional backing services. A nil field means the service is
// not configured.
type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		database, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		infra.DB = database
		logger.Info("database ready", nil)
	} else {
		logger.Warn("DATABASE_DSN not set, password login disabled", nil)
	}

	if cfg.RedisAddr != "" {
		client, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, errors.Join(err, infra.closeDB())
		}
		infra.Redis = client
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	} else {
		logger.Warn("REDIS_ADDR not set, tokens kept in memory", nil)
	}

	return infra, nil
}

func (i *Infra) closeDB() error {
	if i.DB == nil {
		return nil
	}
	return i.DB.Close()
}
