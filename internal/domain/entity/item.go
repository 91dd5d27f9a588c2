package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultImage imagen asignada a todo Funko recién creado.
const DefaultImage = "https://placehold.co/600x400.png"

// Item representa un Funko del catálogo. Pertenece a exactamente una Category.
type Item struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID uuid.UUID
	Category   *Category // join en lectura; puede ser nil
	Image      string    // nombre de archivo local o URL absoluta
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasLocalImage indica si la imagen es un archivo propio del almacenamiento local.
// Las URLs externas (http/https) nunca se borran.
func (i *Item) HasLocalImage() bool {
	if i.Image == "" {
		return false
	}
	lower := strings.ToLower(i.Image)
	return !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://")
}
