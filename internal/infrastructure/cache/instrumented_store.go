package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/funko-api/internal/application/ports"
)

var _ ports.CacheStore = (*InstrumentedStore)(nil)

// InstrumentedStore decorador que cuenta aciertos, fallos y errores de la caché.
type InstrumentedStore struct {
	inner      ports.CacheStore
	operations *prometheus.CounterVec
}

// NewInstrumentedStore registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func NewInstrumentedStore(inner ports.CacheStore, backend string, reg prometheus.Registerer) *InstrumentedStore {
	ops := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name:        "funko_cache_operations_total",
			Help:        "Operaciones de caché por tipo y resultado",
			ConstLabels: prometheus.Labels{"backend": backend},
		},
		[]string{"op", "result"},
	)
	return &InstrumentedStore{inner: inner, operations: ops}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := s.inner.Get(ctx, key)
	switch {
	case err != nil:
		s.operations.WithLabelValues("get", "error").Inc()
	case ok:
		s.operations.WithLabelValues("get", "hit").Inc()
	default:
		s.operations.WithLabelValues("get", "miss").Inc()
	}
	return v, ok, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.inner.Set(ctx, key, value, ttl)
	s.operations.WithLabelValues("set", result(err)).Inc()
	return err
}

func (s *InstrumentedStore) Remove(ctx context.Context, keys ...string) error {
	err := s.inner.Remove(ctx, keys...)
	s.operations.WithLabelValues("remove", result(err)).Inc()
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
