package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP de categorías. Lecturas públicas, escrituras ADMIN.
type CategoryHandler struct {
	uc  *usecase.CategoryUseCase
	log zerolog.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categorias
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categorias [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categorias
// @Produce      json
// @Param        id   path  string  true  "UUID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := categoryID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un UUID válido")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categorias [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categorias
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "UUID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := categoryID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un UUID válido")
	}
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Con la política "guarded" falla si la categoría tiene Funkos; con "cascade" los elimina.
// @Tags         categorias
// @Security     Bearer
// @Param        id   path  string  true  "UUID de la categoría"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categorias/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := categoryID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un UUID válido")
	}
	if _, err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func categoryID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}
