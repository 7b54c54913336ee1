package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/controle-estoque/internal/domain"
)

// Límites de contraseña. bcrypt ignora lo que pase de 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// Validate instancia compartida; es segura para uso concurrente.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	if err := v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String()) == ""
	}); err != nil {
		panic(err)
	}
	return v
}

// StrongPassword devuelve el motivo por el que p es débil, o "" si es aceptable.
func StrongPassword(p string) string {
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return fmt.Sprintf("la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}
	if len(p) > MaxPasswordBytes {
		return fmt.Sprintf("la contraseña no puede superar %d bytes", MaxPasswordBytes)
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return "la contraseña debe combinar letras y números"
	}
	return ""
}

// check valida in y convierte el primer fallo en un ValidationError legible.
func check(in any) error {
	err := Validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return domain.Invalid("%s", reason(verrs[0]))
}

func reason(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", field)
	case "email":
		return fmt.Sprintf("%s no es un email válido", field)
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s no puede superar %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "strongpwd":
		return StrongPassword(fe.Value().(string))
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido", field)
	}
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func invalidOrigin(origin string) error {
	return domain.Invalid("origen %q no corresponde a un flujo conocido (167 o 171)", origin)
}
