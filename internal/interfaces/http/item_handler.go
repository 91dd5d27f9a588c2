package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/ports"
	"github.com/jhoicas/funko-api/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP de Funkos. Lecturas públicas, escrituras ADMIN.
type ItemHandler struct {
	uc     *usecase.ItemUseCase
	report *usecase.ReportUseCase
	log    zerolog.Logger
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, report *usecase.ReportUseCase, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{uc: uc, report: report, log: log}
}

// List godoc
// @Summary      Listar Funkos
// @Tags         funkos
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/funkos [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener Funko por ID
// @Tags         funkos
// @Produce      json
// @Param        id   path  int  true  "ID del Funko"
// @Success      200  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/funkos/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear Funko
// @Tags         funkos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "Datos del Funko"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/funkos [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.ItemRequest
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
// @Summary      Actualizar Funko
// @Tags         funkos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del Funko"
// @Param        body  body  dto.ItemRequest  true  "Datos del Funko"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/funkos/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	var in dto.ItemRequest
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
// @Summary      Eliminar Funko
// @Tags         funkos
// @Security     Bearer
// @Param        id   path  int  true  "ID del Funko"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/funkos/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	if _, err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateImage godoc
// @Summary      Subir imagen de un Funko
// @Tags         funkos
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "ID del Funko"
// @Param        file  formData  file  true  "Imagen (jpg, png, webp)"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/funkos/{id}/imagen [patch]
func (h *ItemHandler) UpdateImage(c *fiber.Ctx) error {
	id, ok := itemID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "Se requiere un archivo en el campo 'file'")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("abrir archivo subido: %w", err))
	}
	defer f.Close()

	out, err := h.uc.UpdateImage(c.UserContext(), id, ports.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Catálogo en PDF
// @Tags         funkos
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/funkos/report.pdf [get]
func (h *ItemHandler) Report(c *fiber.Ctx) error {
	out, err := h.report.CatalogPDF(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	filename := fmt.Sprintf("catalogo-funkos-%s.pdf", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out)
}

func itemID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
