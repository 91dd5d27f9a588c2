package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo Funkos en memoria. Las lecturas adjuntan la categoría actual.
type ItemRepo struct {
	s *Store
}

// GetAll lista los Funkos por ID ascendente.
func (r *ItemRepo) GetAll(_ context.Context) ([]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.itemsWhere(func(entity.Item) bool { return true }), nil
}

// GetByID obtiene un Funko.
func (r *ItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return r.s.withCategory(it), nil
}

// Create asigna el ID siguiente. La categoría debe existir.
func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[it.CategoryID]; !ok {
		return fmt.Errorf("insert item: categoría %s: %w", it.CategoryID, domain.ErrConflict)
	}
	r.s.nextItem++
	it.ID = r.s.nextItem
	stored := *it
	stored.Category = nil
	r.s.items[it.ID] = stored
	return nil
}

// Update reemplaza los campos editables. Devuelve nil si no existe.
func (r *ItemRepo) Update(_ context.Context, it *entity.Item) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.items[it.ID]
	if !ok {
		return nil, nil
	}
	if _, ok := r.s.categories[it.CategoryID]; !ok {
		return nil, fmt.Errorf("update item: categoría %s: %w", it.CategoryID, domain.ErrConflict)
	}
	current.Name = it.Name
	current.Price = it.Price
	current.CategoryID = it.CategoryID
	current.Image = it.Image
	current.UpdatedAt = it.UpdatedAt
	r.s.items[it.ID] = current
	return r.s.withCategory(current), nil
}

// Delete borra el Funko y lo devuelve con su categoría.
func (r *ItemRepo) Delete(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	delete(r.s.items, id)
	return r.s.withCategory(it), nil
}

// CountByCategory cuenta los Funkos de una categoría.
func (r *ItemRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, it := range r.s.items {
		if it.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// ListByCategory lista los Funkos de una categoría.
func (r *ItemRepo) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.itemsWhere(func(it entity.Item) bool { return it.CategoryID == categoryID }), nil
}

// DeleteByCategory borra los Funkos de una categoría.
func (r *ItemRepo) DeleteByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, it := range r.s.items {
		if it.CategoryID == categoryID {
			delete(r.s.items, id)
			n++
		}
	}
	return n, nil
}

// itemsWhere llamar con el lock tomado.
func (s *Store) itemsWhere(keep func(entity.Item) bool) []*entity.Item {
	out := make([]*entity.Item, 0)
	for _, it := range s.items {
		if keep(it) {
			out = append(out, s.withCategory(it))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Item) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Store) withCategory(it entity.Item) *entity.Item {
	if c, ok := s.categories[it.CategoryID]; ok {
		it.Category = &c
	}
	return &it
}
