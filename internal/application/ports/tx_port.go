package ports

import (
	"context"

	"github.com/jhoicas/funko-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categoryRepo repository.CategoryRepository,
		itemRepo repository.ItemRepository,
	) error) error
}
