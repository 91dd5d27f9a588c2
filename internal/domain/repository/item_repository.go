package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/funko-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas traen la Category asociada; los no encontrados son (nil, nil).
type ItemRepository interface {
	GetAll(ctx context.Context) ([]*entity.Item, error)
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// Create asigna item.ID.
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) (*entity.Item, error)
	Delete(ctx context.Context, id int64) (*entity.Item, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Item, error)
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
