package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Kind clasifica los fallos esperados de una operación.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindBusinessRule:
		return "BUSINESS_RULE"
	default:
		return "UNKNOWN"
	}
}

// AppError resultado fallido esperado de un caso de uso. Cualquier otro error
// que salga de la capa de aplicación es un fallo inesperado de infraestructura.
type AppError struct {
	Kind    Kind
	Message string
}

func (e *AppError) Error() string { return e.Message }

// Is permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *AppError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindConflict:
		return target == ErrConflict
	case KindBusinessRule:
		return target == ErrInvalidInput
	}
	return false
}

// NotFound "<entidad> con ID <id> no encontrado/a."
func NotFound(entity string, id any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s con ID %v no encontrado/a.", entity, id)}
}

// Conflict "Ya existe un/a <entidad> con el valor: <valor>."
func Conflict(entity, value string) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf("Ya existe un/a %s con el valor: %s.", entity, value)}
}

// BusinessRule regla de negocio o validación incumplida.
func BusinessRule(format string, args ...any) *AppError {
	return &AppError{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// AsAppError extrae el *AppError de la cadena de err.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf traduce un error a código HTTP. Los errores sin tipo son 500.
func StatusOf(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBusinessRule:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
