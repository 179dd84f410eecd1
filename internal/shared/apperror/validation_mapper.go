package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError flattens a binding failure into a single
// validation AppError carrying every violated field.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(errs))
		for _, e := range errs {
			switch e.Tag() {
			case "required":
				fields[e.Field()] = formatFieldName(e.Field()) + " is required"
			case "max":
				fields[e.Field()] = formatFieldName(e.Field()) + " must be at most " + e.Param() + " characters"
			default:
				fields[e.Field()] = formatFieldName(e.Field()) + " is invalid"
			}
		}
		return NewValidation("Validation failed", fields)
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
