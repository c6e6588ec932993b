package apperror

import (
	"fmt"
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

// MapValidationError converts a gin binding failure into a 422 AppError
// whose Details lists every violated field with a human-readable message.
func MapValidationError(err error) *AppError {
	fields := map[string]string{}

	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			name := e.Field()
			label := formatFieldName(name)
			switch e.Tag() {
			case "required":
				fields[name] = fmt.Sprintf("%s is required", label)
			case "max":
				fields[name] = fmt.Sprintf("%s may not be greater than %s characters", label, e.Param())
			case "min":
				fields[name] = fmt.Sprintf("%s must be at least %s characters", label, e.Param())
			case "oneof":
				fields[name] = fmt.Sprintf("%s must be one of: %s", label, e.Param())
			case "email":
				fields[name] = fmt.Sprintf("%s must be a valid email address", label)
			default:
				fields[name] = fmt.Sprintf("%s is invalid", label)
			}
		}
	}

	if len(fields) == 0 {
		fields["body"] = "Request body is malformed"
	}
	return Validation(fields)
}
