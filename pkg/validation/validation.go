package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// IsOneOf reports whether the trimmed value equals one of the allowed values.
func IsOneOf(s string, allowed []string) bool {
	trimmed := strings.TrimSpace(s)
	for _, a := range allowed {
		if trimmed == a {
			return true
		}
	}
	return false
}

// CatalogTag is the struct tag that restricts a field to the city catalog
const CatalogTag = "catalog_city"

// CatalogValidator returns a validator.Func accepting only the given cities.
// Empty values pass so the tag can be combined with omitempty or required.
func CatalogValidator(cities []string) validator.Func {
	allowed := make([]string, len(cities))
	copy(allowed, cities)
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !IsNotEmpty(value) {
			return true
		}
		return IsOneOf(value, allowed)
	}
}

// RegisterCatalog registers CatalogTag on v
func RegisterCatalog(v *validator.Validate, cities []string) error {
	if len(cities) == 0 {
		return fmt.Errorf("register %s: empty catalog", CatalogTag)
	}
	return v.RegisterValidation(CatalogTag, CatalogValidator(cities))
}
