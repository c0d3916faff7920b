package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var shared = validator.New()

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// Report fields by their JSON name so clients can map errors to inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// HasTag reports whether err is a validation failure on the given tag
func HasTag(err error, tag string) bool {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	for _, e := range validationErrors {
		if e.Tag() == tag {
			return true
		}
	}
	return false
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = "Ce champ est obligatoire."
			case "email":
				errors[field] = "Adresse email invalide."
			case "min":
				errors[field] = "Au moins " + e.Param() + " caractères."
			case "max":
				errors[field] = "Au plus " + e.Param() + " caractères."
			case "gte":
				errors[field] = "Doit être supérieur ou égal à " + e.Param() + "."
			case "lte":
				errors[field] = "Doit être inférieur ou égal à " + e.Param() + "."
			case "oneof":
				errors[field] = "Valeur attendue parmi : " + e.Param() + "."
			default:
				errors[field] = "Valeur invalide."
			}
		}
	}

	return errors
}

// Summary returns the single message shown for a validation failure.
// A missing field takes precedence over every other failure.
func Summary(err error) string {
	switch {
	case HasTag(err, "required"):
		return "Tous les champs sont obligatoires."
	case HasTag(err, "email"):
		return "Adresse email invalide."
	case HasTag(err, "oneof"):
		return "Valeur non autorisée."
	}
	return "Certaines valeurs sont hors limites."
}

// IsEmail reports whether s is a syntactically valid email address
func IsEmail(s string) bool {
	return shared.Var(s, "required,email") == nil
}
