package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/funko-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Las búsquedas que no encuentran nada devuelven (nil, nil).
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*entity.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	// GetByName compara sin distinguir mayúsculas/minúsculas.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	// Update devuelve nil si no existe una categoría con ese ID.
	Update(ctx context.Context, category *entity.Category) (*entity.Category, error)
	// Delete devuelve la categoría eliminada o nil si no existía.
	Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}
