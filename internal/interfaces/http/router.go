package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/auth"
	"github.com/jhoicas/funko-api/internal/application/usecase"
	"github.com/jhoicas/funko-api/internal/domain/entity"
	"github.com/jhoicas/funko-api/internal/interfaces/graphql"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CategoryUC *usecase.CategoryUseCase
	ItemUC     *usecase.ItemUseCase
	ReportUC   *usecase.ReportUseCase
	GraphQL    *graphql.Executor // opcional
	JWTSecret  string
	ImagesDir  string // opcional: directorio servido como estático
	ImagesPath string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin)}

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Categorías: lectura pública, escritura ADMIN
	categories := api.Group("/categorias")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Log)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", append(adminOnly, categoryHandler.Create)...)
	categories.Put("/:id", append(adminOnly, categoryHandler.Update)...)
	categories.Delete("/:id", append(adminOnly, categoryHandler.Delete)...)

	// Funkos: lectura pública, escritura ADMIN. report.pdf va antes de /:id.
	items := api.Group("/funkos")
	itemHandler := NewItemHandler(deps.ItemUC, deps.ReportUC, deps.Log)
	items.Get("/", itemHandler.List)
	items.Get("/report.pdf", itemHandler.Report)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", append(adminOnly, itemHandler.Create)...)
	items.Put("/:id", append(adminOnly, itemHandler.Update)...)
	items.Delete("/:id", append(adminOnly, itemHandler.Delete)...)
	items.Patch("/:id/imagen", append(adminOnly, itemHandler.UpdateImage)...)

	if deps.GraphQL != nil {
		app.Post("/graphql", GraphQLHandler(deps.GraphQL, deps.JWTSecret, deps.Log))
	}

	if deps.ImagesDir != "" {
		app.Static(deps.ImagesPath, deps.ImagesDir, fiber.Static{Browse: false})
	}
}
