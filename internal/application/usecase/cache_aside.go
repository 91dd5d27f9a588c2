package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/ports"
)

// CatalogCache capa cache-aside compartida por los casos de uso del catálogo.
// Lecturas: caché → (fallo) repositorio → proyección → caché. Escrituras: repositorio → invalidar.
// Nunca se puebla durante una escritura.
type CatalogCache struct {
	store ports.CacheStore
	ttl   time.Duration
	keys  CacheKeys
	log   zerolog.Logger
}

// NewCatalogCache construye la capa sobre un CacheStore.
func NewCatalogCache(store ports.CacheStore, prefix string, ttl time.Duration, log zerolog.Logger) *CatalogCache {
	return &CatalogCache{store: store, ttl: ttl, keys: NewCacheKeys(prefix), log: log}
}

// Keys claves usadas por la capa.
func (c *CatalogCache) Keys() CacheKeys { return c.keys }

// cacheGetOrLoad devuelve el valor cacheado en key o lo carga con load y lo guarda con el TTL.
// Los errores de load (incluidos los *domain.AppError) no se cachean.
func cacheGetOrLoad[T any](ctx context.Context, c *CatalogCache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("cache get %s: %w", key, err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		// entrada corrupta: se descarta y se recarga
		c.log.Warn().Str("key", key).Msg("entrada de caché ilegible, se recarga")
		if err := c.store.Remove(ctx, key); err != nil {
			return zero, fmt.Errorf("cache remove %s: %w", key, err)
		}
	}

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return zero, fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		return zero, fmt.Errorf("cache set %s: %w", key, err)
	}
	return v, nil
}

// invalidate elimina las claves que la escritura dejó obsoletas.
func (c *CatalogCache) invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.store.Remove(ctx, keys...); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
