// Package validation comprueba restricciones estructurales de los payloads de entrada
// (longitudes, obligatorios, precio positivo) sin consultar estado persistido.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Violation una restricción incumplida, en el orden de declaración de los campos.
type Violation struct {
	Field   string
	Tag     string
	Message string
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// uuid.Nil cuenta como vacío para "required".
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		id, ok := v.Interface().(uuid.UUID)
		if !ok || id == uuid.Nil {
			return ""
		}
		return id.String()
	}, uuid.UUID{})

	// decimal.Decimal llega a las reglas "positive" y "pricescale" como texto exacto,
	// sin pasar por float64.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return ""
		}
		return d.String()
	}, decimal.Decimal{})

	mustRegister("notblank", validators.NotBlank)
	mustRegister("hasupper", containsRune(unicode.IsUpper))
	mustRegister("haslower", containsRune(unicode.IsLower))
	mustRegister("hasdigit", containsRune(unicode.IsDigit))
	mustRegister("positive", decimalRule(decimal.Decimal.IsPositive))
	mustRegister("pricescale", decimalRule(fitsPriceColumn))
}

// Límites de la columna NUMERIC(10,2) de precios.
const priceScale = 2

var maxPrice = decimal.New(1, 8)

func fitsPriceColumn(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(priceScale)) && d.LessThan(maxPrice)
}

func decimalRule(pred func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && pred(d)
	}
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registrar %q: %v", tag, err))
	}
}

func containsRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// Validate ejecuta las reglas declaradas en las etiquetas `validate` de s.
// Devuelve nil si no hay violaciones.
func Validate(s any) []Violation {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []Violation{{Message: err.Error()}}
	}
	out := make([]Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, Violation{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return out
}

// First devuelve el mensaje de la primera violación, si la hay.
func First(s any) (string, bool) {
	v := Validate(s)
	if len(v) == 0 {
		return "", false
	}
	return v[0].Message, true
}
