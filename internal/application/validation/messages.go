package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// messages mensajes por "<Struct>.<Campo>.<tag>".
var messages = map[string]string{
	"CategoryRequest.Name.notblank": "El nombre de la categoría es obligatorio",
	"CategoryRequest.Name.min":      "El nombre debe tener al menos 3 caracteres",
	"CategoryRequest.Name.max":      "El nombre no puede superar los 50 caracteres",

	"ItemRequest.Name.notblank":       "El nombre del Funko es obligatorio.",
	"ItemRequest.Name.max":            "El nombre no puede exceder 100 caracteres.",
	"ItemRequest.Price.positive":      "El precio debe ser un valor positivo",
	"ItemRequest.Price.pricescale":    "El precio admite como máximo 2 decimales y debe ser menor que 100.000.000",
	"ItemRequest.CategoryID.required": "La categoría asociada es obligatoria",

	"RegisterRequest.Username.notblank": "El nombre de usuario es obligatorio",
	"RegisterRequest.Username.min":      "El usuario debe tener al menos 3 caracteres",
	"RegisterRequest.Email.notblank":    "El email es obligatorio",
	"RegisterRequest.Email.email":       "El formato del email no es válido",
	"RegisterRequest.Password.notblank": "La contraseña es obligatoria",
	"RegisterRequest.Password.min":      "La contraseña debe tener al menos 6 caracteres",
	"RegisterRequest.Password.hasupper": "La contraseña debe contener al menos una letra mayúscula",
	"RegisterRequest.Password.haslower": "La contraseña debe contener al menos una letra minúscula",
	"RegisterRequest.Password.hasdigit": "La contraseña debe contener al menos un número",

	"LoginRequest.Username.notblank": "El usuario no puede estar vacío",
	"LoginRequest.Password.notblank": "La contraseña no puede estar vacía",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return msg
	}
	return formatFieldError(fe)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("El campo %s es obligatorio", fe.Field())
	case "min":
		return fmt.Sprintf("El campo %s debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo %s no puede superar %s caracteres", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("El campo %s debe ser mayor que %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("El campo %s debe ser un email válido", fe.Field())
	default:
		return fmt.Sprintf("El campo %s no es válido (%s)", fe.Field(), fe.Tag())
	}
}
