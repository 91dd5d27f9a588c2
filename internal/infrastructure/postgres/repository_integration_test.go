package postgres_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
	"github.com/jhoicas/funko-api/internal/infrastructure/postgres"
	"github.com/jhoicas/funko-api/pkg/config"
)

// Requiere TEST_DATABASE_URL apuntando a una base desechable.
func newIntegrationRunner(t *testing.T) (*postgres.TxRunner, context.Context) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return postgres.NewTxRunner(pool), ctx
}

// errRollback fuerza el rollback para no dejar datos en la base.
var errRollback = domain.ErrInvalidInput

func TestRepositorios_CategoriaYFunkos(t *testing.T) {
	runner, ctx := newIntegrationRunner(t)

	err := runner.Run(ctx, func(categories repository.CategoryRepository, items repository.ItemRepository) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		cat := &entity.Category{ID: uuid.New(), Name: "Test-" + uuid.NewString()[:8], CreatedAt: now, UpdatedAt: now}
		require.NoError(t, categories.Create(ctx, cat))

		found, err := categories.GetByName(ctx, strings.ToUpper(cat.Name))
		require.NoError(t, err)
		require.NotNil(t, found, "la búsqueda por nombre no distingue mayúsculas")
		assert.Equal(t, cat.ID, found.ID)

		assert.ErrorIs(t, categories.Create(ctx, &entity.Category{ID: uuid.New(), Name: cat.Name, CreatedAt: now, UpdatedAt: now}), domain.ErrDuplicate)
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	err = runner.Run(ctx, func(categories repository.CategoryRepository, items repository.ItemRepository) error {
		now := time.Now().UTC()
		cat := &entity.Category{ID: uuid.New(), Name: "Cat-" + uuid.NewString()[:8], CreatedAt: now, UpdatedAt: now}
		require.NoError(t, categories.Create(ctx, cat))

		it := &entity.Item{Name: "Groot", Price: decimal.RequireFromString("12.50"), CategoryID: cat.ID, Image: entity.DefaultImage, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, items.Create(ctx, it))
		assert.NotZero(t, it.ID)

		got, err := items.GetByID(ctx, it.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Category)
		assert.Equal(t, cat.Name, got.Category.Name)
		assert.True(t, decimal.RequireFromString("12.50").Equal(got.Price))

		n, err := items.CountByCategory(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		it.Name = "Groot Bailando"
		updated, err := items.Update(ctx, it)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Groot Bailando", updated.Name)

		deleted, err := items.Delete(ctx, it.ID)
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, cat.ID, deleted.Category.ID)

		missing, err := items.Delete(ctx, it.ID)
		require.NoError(t, err)
		assert.Nil(t, missing, "borrar dos veces devuelve nil")
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
}
