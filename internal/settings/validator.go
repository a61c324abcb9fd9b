// internal/settings/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Resolve` calls `validateStruct` immediately after it unmarshals the
// merged Koanf tree into a Settings instance.  A failure here is treated
// the same as a coercion failure: the binary must never run with partial
// or malformed configuration.
//
// Field names in validator errors are mapped through the `koanf` tag so
// diagnostics name the configuration key ("database_url"), not the Go
// struct field ("DatabaseURL").

package settings

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	return val
}

// validateStruct returns the first validation error, or nil on success.
func validateStruct(s *Settings) error {
	return v.Struct(s)
}
