package graphql

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/domain"
	"github.com/jhoicas/funko-api/internal/domain/entity"
)

// codedError añade "extensions.code" a los errores de GraphQL.
type codedError struct {
	code    string
	message string
}

func (e *codedError) Error() string { return e.message }

// Extensions lo lee graphql-go al serializar el error.
func (e *codedError) Extensions() map[string]any {
	return map[string]any{"code": e.code}
}

var errForbidden = &codedError{code: "FORBIDDEN", message: "no tiene permisos para esta operación"}

// toGraphQLError expone los AppError tal cual y oculta los fallos inesperados.
func toGraphQLError(log zerolog.Logger, err error) error {
	if appErr, ok := domain.AsAppError(err); ok {
		return &codedError{code: appErr.Kind.String(), message: appErr.Message}
	}
	log.Error().Err(err).Msg("graphql: error inesperado")
	return &codedError{code: "INTERNAL", message: "Error interno del servidor"}
}

func requireAdmin(ctx context.Context) error {
	if RoleFrom(ctx) != entity.RoleAdmin {
		return errForbidden
	}
	return nil
}
