// internal/utils/validator.go
package utils

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const maxArticleNumberLength = 100

// Path segments routed ahead of /products/:articleNumber.
var reservedArticleNumbers = map[string]bool{
	"stats": true,
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("article_number", validateArticleNumber)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidArticleNumber reports whether s can serve as a product key in a URL path.
func ValidArticleNumber(s string) bool {
	if s == "" || len(s) > maxArticleNumberLength {
		return false
	}
	if strings.TrimSpace(s) != s || reservedArticleNumbers[s] {
		return false
	}

	for _, r := range s {
		if r == '/' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validateArticleNumber(fl validator.FieldLevel) bool {
	return ValidArticleNumber(fl.Field().String())
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   lowerFirst(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "article_number":
		return "ArticleNumber must be at most 100 characters without slashes, control characters or surrounding whitespace, and must not be a reserved name"
	default:
		return e.Field() + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
