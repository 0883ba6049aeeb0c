package domain

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9_-]*[a-z0-9][a-z0-9_-]*$`)
	slugSpaces     = regexp.MustCompile(` `)
	slugDisallowed = regexp.MustCompile(`[^\w-]+`)
	validate       = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsValidSlug(fl.Field().String())
	})
	return v
}

// Validate checks struct validation tags. Failures wrap both ErrInvalidInput
// and the underlying validator.ValidationErrors.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// Slugify derives a URL slug from a product name: lowercased, spaces become
// hyphens, everything outside [A-Za-z0-9_-] is removed.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugDisallowed.ReplaceAllString(s, "")
}

// IsValidSlug reports whether s is a non-empty URL-safe slug
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
