package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest entrada para crear o actualizar un Funko.
type ItemRequest struct {
	Name       string          `json:"name" validate:"notblank,max=100"`
	Price      decimal.Decimal `json:"price" validate:"positive,pricescale"`
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
}

// ItemResponse proyección pública de un Funko con su categoría embebida (o null).
type ItemResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Category  *CategoryResponse `json:"category"`
	Price     decimal.Decimal   `json:"price"`
	Image     string            `json:"image"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ItemDeletedEvent payload del evento "deleted": sólo el identificador.
type ItemDeletedEvent struct {
	ID int64 `json:"id"`
}

// CatalogReport datos del informe PDF del catálogo.
type CatalogReport struct {
	Title       string
	GeneratedAt time.Time
	Items       []ItemResponse
	Total       decimal.Decimal // suma de precios
}
