package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

const (
	servicesKey = "catalogo:servicios"
	packagesKey = "catalogo:paquetes"
)

var _ repository.CatalogCache = (*CatalogCache)(nil)

// CatalogCache listados del catálogo serializados en JSON. Un fallo de Redis se registra
// y se trata como miss, la base sigue siendo la fuente.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCatalogCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{client: client, ttl: ttl, log: log}
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("caché no disponible")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir caché")
	}
}

func (c *CatalogCache) GetServices(ctx context.Context) ([]*entity.Service, bool) {
	var list []*entity.Service
	ok := c.get(ctx, servicesKey, &list)
	return list, ok
}

func (c *CatalogCache) SetServices(ctx context.Context, services []*entity.Service) {
	c.set(ctx, servicesKey, services)
}

func (c *CatalogCache) GetPackages(ctx context.Context) ([]*entity.Package, bool) {
	var list []*entity.Package
	ok := c.get(ctx, packagesKey, &list)
	return list, ok
}

func (c *CatalogCache) SetPackages(ctx context.Context, packages []*entity.Package) {
	c.set(ctx, packagesKey, packages)
}

func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, servicesKey, packagesKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo invalidar caché del catálogo")
	}
}
