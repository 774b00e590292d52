package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe un campo que no pasó la validación.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

var validate = validator.New()

// ValidateStruct valida un DTO con sus tags `validate` y devuelve la lista de
// campos ofensores (vacía si todo está bien).
func ValidateStruct(data interface{}) []FieldError {
	var out []FieldError
	if err := validate.Struct(data); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			out = append(out, FieldError{
				Field: strings.ToLower(fe.Field()),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
	}
	return out
}
