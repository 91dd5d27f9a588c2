package usecase

import (
	"context"
	"errors"
	"fmt"
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

const categoryEntity = "Categoría"

// CategoryDeletePolicy qué hacer al borrar una categoría con Funkos asociados.
type CategoryDeletePolicy int

const (
	// DeletePolicyGuarded rechaza el borrado con BusinessRule.
	DeletePolicyGuarded CategoryDeletePolicy = iota
	// DeletePolicyCascade borra los Funkos y la categoría en una transacción.
	DeletePolicyCascade
)

// ParseCategoryDeletePolicy "guarded" | "cascade".
func ParseCategoryDeletePolicy(s string) (CategoryDeletePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "guarded":
		return DeletePolicyGuarded, nil
	case "cascade":
		return DeletePolicyCascade, nil
	default:
		return DeletePolicyGuarded, fmt.Errorf("política de borrado desconocida: %q", s)
	}
}

// CategoryUseCase casos de uso del agregado Category con caché cache-aside.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	itemRepo repository.ItemRepository
	tx       ports.TxRunner
	cache    *CatalogCache
	notifier ports.Notifier
	policy   CategoryDeletePolicy
	log      zerolog.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(
	repo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	tx ports.TxRunner,
	cache *CatalogCache,
	notifier ports.Notifier,
	policy CategoryDeletePolicy,
	log zerolog.Logger,
) *CategoryUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &CategoryUseCase{
		repo:     repo,
		itemRepo: itemRepo,
		tx:       tx,
		cache:    cache,
		notifier: notifier,
		policy:   policy,
		log:      log,
	}
}

// List devuelve todas las categorías. Una lista vacía no es un error.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	return cacheGetOrLoad(ctx, uc.cache, uc.cache.keys.CategoriesAll(), func(ctx context.Context) ([]dto.CategoryResponse, error) {
		list, err := uc.repo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CategoryResponse, 0, len(list))
		for _, c := range list {
			out = append(out, *toCategoryResponse(c))
		}
		return out, nil
	})
}

// GetByID obtiene una categoría. NotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	resp, err := cacheGetOrLoad(ctx, uc.cache, uc.cache.keys.Category(id), func(ctx context.Context) (dto.CategoryResponse, error) {
		c, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return dto.CategoryResponse{}, err
		}
		if c == nil {
			return dto.CategoryResponse{}, domain.NotFound(categoryEntity, id)
		}
		return *toCategoryResponse(c), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lookup devuelve la entidad (sin caché) o nil si no existe.
func (uc *CategoryUseCase) Lookup(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Exists guarda de integridad referencial para quien referencia categorías.
func (uc *CategoryUseCase) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	c, err := uc.Lookup(ctx, id)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// Create valida, comprueba duplicados (sin distinguir mayúsculas) y persiste.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if msg, failed := validation.First(in); failed {
		return nil, domain.BusinessRule("%s", msg)
	}
	dup, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, domain.Conflict(categoryEntity, in.Name)
	}

	now := time.Now()
	c := &entity.Category{
		ID:        uuid.New(),
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict(categoryEntity, in.Name)
		}
		return nil, err
	}
	if err := uc.cache.invalidate(ctx, uc.cache.keys.CategoriesAll()); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update renombra una categoría. El chequeo de duplicados excluye la propia categoría.
// Como los Funkos embeben su categoría, también invalida sus entradas.
func (uc *CategoryUseCase) Update(ctx context.Context, id uuid.UUID, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if msg, failed := validation.First(in); failed {
		return nil, domain.BusinessRule("%s", msg)
	}
	dup, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if dup != nil && dup.ID != id {
		return nil, domain.Conflict(categoryEntity, in.Name)
	}

	updated, err := uc.repo.Update(ctx, &entity.Category{ID: id, Name: in.Name, UpdatedAt: time.Now()})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict(categoryEntity, in.Name)
		}
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFound(categoryEntity, id)
	}

	items, err := uc.itemRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.invalidate(ctx, uc.staleKeys(id, items)...); err != nil {
		return nil, err
	}
	return toCategoryResponse(updated), nil
}

// Delete elimina una categoría según la política configurada y devuelve la proyección eliminada.
func (uc *CategoryUseCase) Delete(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFound(categoryEntity, id)
	}

	switch uc.policy {
	case DeletePolicyCascade:
		return uc.deleteCascade(ctx, id)
	default:
		return uc.deleteGuarded(ctx, id)
	}
}

func (uc *CategoryUseCase) deleteGuarded(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	n, err := uc.itemRepo.CountByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, domain.BusinessRule("No se puede eliminar la categoría con ID %s porque tiene %d productos asociados", id, n)
	}
	deleted, err := uc.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrConflict) {
		// Un Funko se creó entre el conteo y el borrado; la FK lo rechazó.
		return nil, domain.BusinessRule("No se puede eliminar la categoría con ID %s porque tiene productos asociados", id)
	}
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, domain.NotFound(categoryEntity, id)
	}
	if err := uc.cache.invalidate(ctx, uc.staleKeys(id, nil)...); err != nil {
		return nil, err
	}
	return toCategoryResponse(deleted), nil
}

func (uc *CategoryUseCase) deleteCascade(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	items, err := uc.itemRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	var deleted *entity.Category
	err = uc.tx.Run(ctx, func(categoryRepo repository.CategoryRepository, itemRepo repository.ItemRepository) error {
		if _, err := itemRepo.DeleteByCategory(ctx, id); err != nil {
			return err
		}
		c, err := categoryRepo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound(categoryEntity, id)
		}
		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.invalidate(ctx, uc.staleKeys(id, items)...); err != nil {
		return nil, err
	}
	for _, it := range items {
		uc.notifier.Broadcast(ctx, ports.EventDeleted, dto.ItemDeletedEvent{ID: it.ID})
	}
	uc.log.Info().Str("category_id", id.String()).Int("items", len(items)).Msg("categoría eliminada en cascada")
	return toCategoryResponse(deleted), nil
}

// staleKeys claves que deja obsoletas una escritura sobre la categoría id.
func (uc *CategoryUseCase) staleKeys(id uuid.UUID, items []*entity.Item) []string {
	k := uc.cache.keys
	keys := []string{k.CategoriesAll(), k.Category(id)}
	if len(items) > 0 {
		keys = append(keys, k.ItemsAll())
		for _, it := range items {
			keys = append(keys, k.Item(it.ID))
		}
	}
	return keys
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
