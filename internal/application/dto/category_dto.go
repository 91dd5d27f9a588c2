package dto

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"notblank,min=3,max=50"`
}

// CategoryResponse proyección pública de una categoría (es lo que se guarda en caché).
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
