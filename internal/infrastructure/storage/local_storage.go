package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/funko-api/internal/application/ports"
)

var _ ports.ImageStorage = (*LocalStorage)(nil)

// MaxImageSize tamaño máximo aceptado (5 MB).
const MaxImageSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ErrUnsupportedFormat extensión de imagen no permitida.
var ErrUnsupportedFormat = errors.New("formato de imagen no soportado")

// LocalStorage guarda las imágenes en un directorio del disco con nombre <uuid><ext>.
type LocalStorage struct {
	dir string
}

// NewLocalStorage crea el directorio si no existe.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Dir directorio raíz (para servir estáticos).
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Save(ctx context.Context, file ports.Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("la imagen supera el tamaño máximo de %d bytes", MaxImageSize)
	}
	if file.Content == nil {
		return "", errors.New("archivo vacío")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(file.Content, MaxImageSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxImageSize {
		err = fmt.Errorf("la imagen supera el tamaño máximo de %d bytes", MaxImageSize)
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *LocalStorage) Open(name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}

// resolve impide salir del directorio con nombres como "../x".
func (s *LocalStorage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("nombre de imagen inválido: %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
