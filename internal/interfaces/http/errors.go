package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/domain"
)

const internalErrorMessage = "Error interno del servidor"

// respondError traduce el error de un caso de uso a la respuesta HTTP.
// Los fallos inesperados se registran y nunca se exponen al cliente.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	appErr, ok := domain.AsAppError(err)
	if !ok {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error inesperado atendiendo la petición")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalErrorMessage})
	}
	return c.Status(domain.StatusOf(appErr)).JSON(dto.ErrorResponse{Code: appErr.Kind.String(), Message: appErr.Message})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// ErrorHandler manejador de errores de Fiber para lo que no atienden los handlers (404 de ruta, panics recuperados).
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return respondError(c, log, err)
	}
}
