package ports

import (
	"context"
	"io"
)

// Upload archivo recibido del cliente.
type Upload struct {
	Filename string // nombre original, sólo se usa su extensión
	Size     int64
	Content  io.Reader
}

// ImageStorage almacenamiento de imágenes de los Funkos.
type ImageStorage interface {
	// Save persiste el archivo y devuelve el nombre con el que quedó guardado.
	// Falla con formatos no soportados.
	Save(ctx context.Context, file Upload) (string, error)
	// Delete elimina el archivo; no hace nada si no existe.
	Delete(ctx context.Context, name string) error
	Open(name string) (io.ReadCloser, error)
}
