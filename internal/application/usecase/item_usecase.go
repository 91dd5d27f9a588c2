package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/ports"
	"github.com/jhoicas/funko-api/internal/application/validation"
	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
)

const itemEntity = "Funko"

// CategoryLookup guarda de integridad referencial hacia categorías (la implementa CategoryUseCase).
type CategoryLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*entity.Category, error)
}

// ItemUseCase casos de uso de los Funkos: CRUD, imagen y notificación de cambios.
type ItemUseCase struct {
	repo       repository.ItemRepository
	categories CategoryLookup
	cache      *CatalogCache
	storage    ports.ImageStorage
	notifier   ports.Notifier
	log        zerolog.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	repo repository.ItemRepository,
	categories CategoryLookup,
	cache *CatalogCache,
	storage ports.ImageStorage,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ItemUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &ItemUseCase{
		repo:       repo,
		categories: categories,
		cache:      cache,
		storage:    storage,
		notifier:   notifier,
		log:        log,
	}
}

// List devuelve todos los Funkos con su categoría.
func (uc *ItemUseCase) List(ctx context.Context) ([]dto.ItemResponse, error) {
	return cacheGetOrLoad(ctx, uc.cache, uc.cache.keys.ItemsAll(), func(ctx context.Context) ([]dto.ItemResponse, error) {
		list, err := uc.repo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ItemResponse, 0, len(list))
		for _, it := range list {
			out = append(out, *toItemResponse(it))
		}
		return out, nil
	})
}

// GetByID obtiene un Funko. NotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	resp, err := cacheGetOrLoad(ctx, uc.cache, uc.cache.keys.Item(id), func(ctx context.Context) (dto.ItemResponse, error) {
		it, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return dto.ItemResponse{}, err
		}
		if it == nil {
			return dto.ItemResponse{}, domain.NotFound(itemEntity, id)
		}
		return *toItemResponse(it), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create valida, exige que la categoría exista y persiste con la imagen por defecto.
// Una categoría inexistente es BusinessRule: es entrada inválida del cliente, no un recurso pedido.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.ItemRequest) (*dto.ItemResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if msg, failed := validation.First(in); failed {
		return nil, domain.BusinessRule("%s", msg)
	}
	category, err := uc.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	it := &entity.Item{
		Name:       in.Name,
		Price:      in.Price,
		CategoryID: in.CategoryID,
		Category:   category,
		Image:      entity.DefaultImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	if err := uc.cache.invalidate(ctx, uc.cache.keys.ItemsAll()); err != nil {
		return nil, err
	}

	resp := toItemResponse(it)
	uc.notifier.Broadcast(ctx, ports.EventCreated, resp)
	return resp, nil
}

// Update reemplaza nombre, precio y categoría de un Funko existente.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.ItemRequest) (*dto.ItemResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if msg, failed := validation.First(in); failed {
		return nil, domain.BusinessRule("%s", msg)
	}
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.NotFound(itemEntity, id)
	}
	category, err := uc.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	it.Name = in.Name
	it.Price = in.Price
	it.CategoryID = in.CategoryID
	it.Category = category
	it.UpdatedAt = time.Now()

	return uc.persist(ctx, it)
}

// Delete elimina un Funko y, si su imagen es local, intenta borrar el archivo.
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, domain.NotFound(itemEntity, id)
	}
	if err := uc.cache.invalidate(ctx, uc.cache.keys.ItemsAll(), uc.cache.keys.Item(id)); err != nil {
		return nil, err
	}
	if deleted.HasLocalImage() {
		uc.deleteImage(ctx, deleted.Image)
	}

	uc.notifier.Broadcast(ctx, ports.EventDeleted, dto.ItemDeletedEvent{ID: id})
	return toItemResponse(deleted), nil
}

// UpdateImage guarda la nueva imagen y reemplaza la anterior. Un fallo del almacenamiento
// es BusinessRule. Las imágenes externas (URL) nunca se borran.
func (uc *ItemUseCase) UpdateImage(ctx context.Context, id int64, file ports.Upload) (*dto.ItemResponse, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.NotFound(itemEntity, id)
	}

	name, err := uc.storage.Save(ctx, file)
	if err != nil {
		return nil, domain.BusinessRule("Error al subir imagen: %s", err.Error())
	}
	if it.HasLocalImage() {
		uc.deleteImage(ctx, it.Image)
	}

	it.Image = name
	it.UpdatedAt = time.Now()
	resp, err := uc.persist(ctx, it)
	if err != nil {
		// la imagen nueva no quedó referenciada por ningún Funko
		uc.deleteImage(ctx, name)
		return nil, err
	}
	return resp, nil
}

// persist actualiza, invalida y notifica "updated".
func (uc *ItemUseCase) persist(ctx context.Context, it *entity.Item) (*dto.ItemResponse, error) {
	updated, err := uc.repo.Update(ctx, it)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFound(itemEntity, it.ID)
	}
	if updated.Category == nil {
		updated.Category = it.Category
	}
	if err := uc.cache.invalidate(ctx, uc.cache.keys.ItemsAll(), uc.cache.keys.Item(it.ID)); err != nil {
		return nil, err
	}

	resp := toItemResponse(updated)
	uc.notifier.Broadcast(ctx, ports.EventUpdated, resp)
	return resp, nil
}

func (uc *ItemUseCase) requireCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	c, err := uc.categories.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.BusinessRule("La categoría con ID %s no existe", id)
	}
	return c, nil
}

func (uc *ItemUseCase) deleteImage(ctx context.Context, name string) {
	if err := uc.storage.Delete(ctx, name); err != nil {
		uc.log.Warn().Err(err).Str("image", name).Msg("no se pudo borrar la imagen anterior")
	}
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Category:  toCategoryResponse(it.Category),
		Price:     it.Price,
		Image:     it.Image,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
