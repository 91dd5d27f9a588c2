package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category agrupa Funkos (Disney, Marvel, Anime...). El nombre es único sin distinguir mayúsculas.
type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []*Item // sólo se carga cuando el repositorio lo pide; nunca se persiste por esta vía
}
