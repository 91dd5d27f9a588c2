// seed puebla la base de datos con el catálogo inicial y el usuario administrador.
// Es idempotente: lo que ya existe (por nombre) no se vuelve a crear.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/funko-api/internal/application/auth"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/domain/repository"
	"github.com/jhoicas/funko-api/internal/infrastructure/postgres"
	"github.com/jhoicas/funko-api/pkg/config"
	"github.com/jhoicas/funko-api/pkg/logger"
)

type seedItem struct {
	name     string
	price    string
	category string
}

var (
	seedCategories = []string{"Disney", "Marvel", "Anime"}

	seedItems = []seedItem{
		{"Mickey Mouse", "15.99", "Disney"},
		{"Iron Man", "19.50", "Marvel"},
		{"Spider-Man No Way Home", "22.00", "Marvel"},
		{"Naruto Uzumaki", "14.99", "Anime"},
		{"Stitch", "18.99", "Disney"},
	}
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@funko.com"
	adminPassword = "Admin123!"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema")
	}

	s := seeder{
		categories: postgres.NewCategoryRepository(pool),
		items:      postgres.NewItemRepository(pool),
		users:      postgres.NewUserRepository(pool),
	}
	if err := s.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Int("categories", s.createdCategories).
		Int("items", s.createdItems).
		Bool("admin", s.createdAdmin).
		Msg("seed completado")
}

type seeder struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	users      repository.UserRepository

	createdCategories int
	createdItems      int
	createdAdmin      bool
}

func (s *seeder) run(ctx context.Context) error {
	byName := make(map[string]*entity.Category, len(seedCategories))
	for _, name := range seedCategories {
		c, err := s.category(ctx, name)
		if err != nil {
			return err
		}
		byName[name] = c
	}
	for _, it := range seedItems {
		if err := s.item(ctx, it, byName[it.category]); err != nil {
			return err
		}
	}
	return s.admin(ctx)
}

func (s *seeder) category(ctx context.Context, name string) (*entity.Category, error) {
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("buscar categoría %s: %w", name, err)
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("crear categoría %s: %w", name, err)
	}
	s.createdCategories++
	return c, nil
}

func (s *seeder) item(ctx context.Context, in seedItem, category *entity.Category) error {
	existing, err := s.items.ListByCategory(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("listar funkos de %s: %w", category.Name, err)
	}
	for _, it := range existing {
		if strings.EqualFold(it.Name, in.name) {
			return nil
		}
	}
	now := time.Now()
	it := &entity.Item{
		Name:       in.name,
		Price:      decimal.RequireFromString(in.price),
		CategoryID: category.ID,
		Image:      entity.DefaultImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return fmt.Errorf("crear funko %s: %w", in.name, err)
	}
	s.createdItems++
	return nil
}

func (s *seeder) admin(ctx context.Context) error {
	existing, err := s.users.GetByUsername(ctx, adminUsername)
	if err != nil {
		return fmt.Errorf("buscar admin: %w", err)
	}
	if existing != nil {
		return nil
	}
	u, err := auth.NewUser(adminUsername, adminEmail, adminPassword, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return fmt.Errorf("crear admin: %w", err)
	}
	s.createdAdmin = true
	return nil
}
