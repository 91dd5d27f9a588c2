package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/jhoicas/funko-api/internal/application/ports"
)

var _ ports.CacheStore = (*MemoryStore)(nil)

const (
	memoryShards             = 10
	memoryEvictionPercentage = 10
)

// MemoryStore CacheStore en proceso sobre sturdyc. Se usa cuando no hay REDIS_URL.
// sturdyc aplica un TTL único para todo el cliente: el ttl de Set se ignora.
type MemoryStore struct {
	client *sturdyc.Client[[]byte]
}

// NewMemoryStore capacity es el número máximo de entradas.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}
	return &MemoryStore{
		client: sturdyc.New[[]byte](capacity, memoryShards, ttl, memoryEvictionPercentage),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.client.Set(key, value)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.client.Delete(k)
	}
	return nil
}

// Len número de entradas vivas.
func (s *MemoryStore) Len() int {
	return s.client.Size()
}
