package ports

import (
	"context"
	"time"
)

// CacheStore almacén clave/valor de bytes con expiración. Nunca es la fuente de verdad:
// puede vaciarse en cualquier momento sin pérdida de corrección.
type CacheStore interface {
	// Get devuelve (valor, true, nil) en un acierto y (nil, false, nil) en un fallo de caché.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, keys ...string) error
}
