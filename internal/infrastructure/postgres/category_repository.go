package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// GetAll lista las categorías ordenadas por nombre.
func (r *CategoryRepo) GetAll(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	row := r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, toPgUUID(id))
	return r.one(row, "get category")
}

// GetByName busca por nombre ignorando mayúsculas (usa el índice único sobre lower(name)).
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	row := r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE lower(name) = lower($1) LIMIT 1`, name)
	return r.one(row, "get category by name")
}

// Create persiste una categoría nueva.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		toPgUUID(c.ID), c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update cambia el nombre y devuelve la fila resultante.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) (*entity.Category, error) {
	row := r.q.QueryRow(ctx,
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1 RETURNING `+categoryColumns,
		toPgUUID(c.ID), c.Name, c.UpdatedAt,
	)
	updated, err := r.one(row, "update category")
	if err != nil && isUniqueViolation(err) {
		return nil, domain.ErrDuplicate
	}
	return updated, err
}

// Delete borra la categoría. Con productos asociados la FK lo impide y se devuelve domain.ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	row := r.q.QueryRow(ctx, `DELETE FROM categories WHERE id = $1 RETURNING `+categoryColumns, toPgUUID(id))
	deleted, err := r.one(row, "delete category")
	if err != nil && isForeignKeyViolation(err) {
		return nil, fmt.Errorf("delete category: %w", domain.ErrConflict)
	}
	return deleted, err
}

func (r *CategoryRepo) one(row pgx.Row, op string) (*entity.Category, error) {
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var (
		c  entity.Category
		id pgtype.UUID
	)
	if err := row.Scan(&id, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = fromPgUUID(id)
	return &c, nil
}
