package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	s *Store
}

// GetAll lista las categorías ordenadas por nombre.
func (r *CategoryRepo) GetAll(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entity.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c, ok := r.s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// GetByName busca por nombre ignorando mayúsculas.
func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.categoryByName(name), nil
}

// Create inserta la categoría. Nombre repetido es domain.ErrDuplicate.
func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.categoryByName(c.Name) != nil {
		return domain.ErrDuplicate
	}
	stored := *c
	stored.Items = nil
	r.s.categories[c.ID] = stored
	return nil
}

// Update cambia el nombre. Devuelve nil si no existe.
func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.categories[c.ID]
	if !ok {
		return nil, nil
	}
	if dup := r.s.categoryByName(c.Name); dup != nil && dup.ID != c.ID {
		return nil, domain.ErrDuplicate
	}
	current.Name = c.Name
	current.UpdatedAt = c.UpdatedAt
	r.s.categories[c.ID] = current
	return &current, nil
}

// Delete borra la categoría. Con Funkos asociados falla igual que la FK de PostgreSQL.
func (r *CategoryRepo) Delete(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	for _, it := range r.s.items {
		if it.CategoryID == id {
			return nil, fmt.Errorf("delete category: %w", domain.ErrConflict)
		}
	}
	delete(r.s.categories, id)
	return &c, nil
}

// categoryByName llamar con el lock tomado.
func (s *Store) categoryByName(name string) *entity.Category {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return &c
		}
	}
	return nil
}
