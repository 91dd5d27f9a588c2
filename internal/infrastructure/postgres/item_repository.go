package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// Columnas de items seguidas de las de su categoría (LEFT JOIN, pueden venir nulas).
const itemJoinColumns = `i.id, i.name, i.price, i.category_id, i.image, i.created_at, i.updated_at,
	c.id, c.name, c.created_at, c.updated_at`

const itemSelect = `SELECT ` + itemJoinColumns + `
	FROM items i LEFT JOIN categories c ON c.id = i.category_id`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetAll lista todos los Funkos con su categoría, por ID ascendente.
func (r *ItemRepo) GetAll(ctx context.Context) ([]*entity.Item, error) {
	return r.list(ctx, itemSelect+` ORDER BY i.id`)
}

// GetByID obtiene un Funko con su categoría.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.Item, error) {
	return r.one(r.q.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, id), "get item")
}

// Create inserta el Funko y asigna item.ID.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO items (name, price, category_id, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		it.Name, it.Price, toPgUUID(it.CategoryID), it.Image, it.CreatedAt, it.UpdatedAt,
	).Scan(&it.ID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update reescribe los campos editables. Devuelve nil si el ID no existe.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) (*entity.Item, error) {
	row := r.q.QueryRow(ctx, `
		WITH u AS (
			UPDATE items SET name = $2, price = $3, category_id = $4, image = $5, updated_at = $6
			WHERE id = $1
			RETURNING *
		)
		SELECT `+itemJoinColumns+`
		FROM u i LEFT JOIN categories c ON c.id = i.category_id`,
		it.ID, it.Name, it.Price, toPgUUID(it.CategoryID), it.Image, it.UpdatedAt,
	)
	return r.one(row, "update item")
}

// Delete borra el Funko y devuelve la fila eliminada con su categoría.
func (r *ItemRepo) Delete(ctx context.Context, id int64) (*entity.Item, error) {
	row := r.q.QueryRow(ctx, `
		WITH d AS (DELETE FROM items WHERE id = $1 RETURNING *)
		SELECT `+itemJoinColumns+`
		FROM d i LEFT JOIN categories c ON c.id = i.category_id`,
		id,
	)
	return r.one(row, "delete item")
}

// CountByCategory cuenta los Funkos de una categoría.
func (r *ItemRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM items WHERE category_id = $1`, toPgUUID(categoryID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// ListByCategory lista los Funkos de una categoría.
func (r *ItemRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Item, error) {
	return r.list(ctx, itemSelect+` WHERE i.category_id = $1 ORDER BY i.id`, toPgUUID(categoryID))
}

// DeleteByCategory borra todos los Funkos de una categoría y devuelve cuántos fueron.
func (r *ItemRepo) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE category_id = $1`, toPgUUID(categoryID))
	if err != nil {
		return 0, fmt.Errorf("delete items by category: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) one(row pgx.Row, op string) (*entity.Item, error) {
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		it         entity.Item
		categoryID pgtype.UUID
		catID      pgtype.UUID
		catName    pgtype.Text
		catCreated pgtype.Timestamptz
		catUpdated pgtype.Timestamptz
	)
	err := row.Scan(
		&it.ID, &it.Name, &it.Price, &categoryID, &it.Image, &it.CreatedAt, &it.UpdatedAt,
		&catID, &catName, &catCreated, &catUpdated,
	)
	if err != nil {
		return nil, err
	}
	it.CategoryID = fromPgUUID(categoryID)
	if catID.Valid {
		it.Category = &entity.Category{
			ID:        fromPgUUID(catID),
			Name:      catName.String,
			CreatedAt: catCreated.Time,
			UpdatedAt: catUpdated.Time,
		}
	}
	return &it, nil
}
