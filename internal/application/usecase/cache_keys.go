package usecase

import (
	"strconv"

	"github.com/google/uuid"
)

// CacheKeys construye las claves de caché del catálogo bajo un prefijo común.
type CacheKeys struct {
	prefix string
}

// NewCacheKeys p. ej. NewCacheKeys("funko-api:").
func NewCacheKeys(prefix string) CacheKeys {
	return CacheKeys{prefix: prefix}
}

func (k CacheKeys) CategoriesAll() string { return k.prefix + "categories:all" }

func (k CacheKeys) Category(id uuid.UUID) string { return k.prefix + "categories:" + id.String() }

func (k CacheKeys) ItemsAll() string { return k.prefix + "items:all" }

func (k CacheKeys) Item(id int64) string { return k.prefix + "items:" + strconv.FormatInt(id, 10) }
