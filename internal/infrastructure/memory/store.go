// Package memory implementa los repositorios en memoria del proceso.
// Se usa con DB_DRIVER=memory (desarrollo, demos) y en tests de integración HTTP.
// Respeta las mismas reglas que el esquema PostgreSQL: nombre de categoría único sin
// distinguir mayúsculas, FK de Funko a categoría y usuarios únicos.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/funko-api/internal/application/ports"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]entity.Category
	items      map[int64]entity.Item
	users      map[int64]entity.User
	nextItem   int64
	nextUser   int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories: make(map[uuid.UUID]entity.Category),
		items:      make(map[int64]entity.Item),
		users:      make(map[int64]entity.User),
	}
}

// Categories repositorio de categorías sobre el store.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Items repositorio de Funkos sobre el store.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner transacciones sobre el store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// clone copia el estado. Llamar con s.mu tomado.
func (s *Store) clone() *Store {
	return &Store{
		categories: maps.Clone(s.categories),
		items:      maps.Clone(s.items),
		users:      maps.Clone(s.users),
		nextItem:   s.nextItem,
		nextUser:   s.nextUser,
	}
}

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn sobre una copia del store y la publica sólo si fn no falla.
// Las escrituras concurrentes esperan a que termine la transacción.
type TxRunner struct {
	s *Store
}

// Run implementa ports.TxRunner.
func (r *TxRunner) Run(_ context.Context, fn func(
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx := r.s.clone()
	if err := fn(tx.Categories(), tx.Items()); err != nil {
		return err
	}
	r.s.categories, r.s.items, r.s.users = tx.categories, tx.items, tx.users
	r.s.nextItem, r.s.nextUser = tx.nextItem, tx.nextUser
	return nil
}
