// Package redisstore caché del catálogo y candado del abastecimiento masivo sobre Redis.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/pkg/config"
)

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, &domain.PersistenceError{Kind: domain.KindConnection, Op: "redis ping", Err: fmt.Errorf("%s: %w", cfg.Addr, err)}
	}
	return client, nil
}
