package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// Describe сворачивает ошибки валидации в одну строку "Field:tag" для логов
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ",")
}
