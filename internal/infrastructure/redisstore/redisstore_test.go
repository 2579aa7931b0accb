package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCatalogCache_IdaYVuelta(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	cache := NewCatalogCache(client, time.Minute, zerolog.Nop())
	cache.Invalidate(ctx)

	_, ok := cache.GetServices(ctx)
	assert.False(t, ok)

	cache.SetServices(ctx, []*entity.Service{{ID: 1, Name: "Mini Dulces", BasePrice: decimal.NewFromInt(36), Active: true}})
	list, ok := cache.GetServices(ctx)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Mini Dulces", list[0].Name)
	assert.True(t, list[0].BasePrice.Equal(decimal.NewFromInt(36)))

	cache.Invalidate(ctx)
	_, ok = cache.GetServices(ctx)
	assert.False(t, ok)
}

func TestLocker_Exclusivo(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "lock:test-abastecimiento"
	client.Del(ctx, key)
	l := NewLocker(client)

	unlock, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, domain.ErrLocked)

	require.NoError(t, unlock(ctx))
	unlock2, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_NoLiberaCandadoAjeno(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "lock:test-ajeno"
	client.Del(ctx, key)
	l := NewLocker(client)

	unlock, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	// expira y otro proceso lo toma
	client.Set(ctx, key, "otro", time.Minute)
	require.NoError(t, unlock(ctx))

	v, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "otro", v)
	client.Del(ctx, key)
}

func TestLocker_RenuevaMientrasSeSostiene(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "lock:test-renovacion"
	client.Del(ctx, key)
	l := NewLocker(client)

	unlock, err := l.Acquire(ctx, key, 300*time.Millisecond)
	require.NoError(t, err)

	// tres TTL después sigue tomado
	time.Sleep(900 * time.Millisecond)
	_, err = l.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, domain.ErrLocked)

	require.NoError(t, unlock(ctx))
	assert.Equal(t, int64(0), client.Exists(ctx, key).Val())
	// liberar dos veces no falla
	require.NoError(t, unlock(ctx))
}
