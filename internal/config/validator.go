// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch aborts startup, so the binary never runs with partial or
// malformed configuration.  Rules spanning two sections live in
// crossChecks because struct tags cannot reach across structs.

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	return crossChecks(c)
}

func crossChecks(c *Config) error {
	if c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.Forms.SubmitTimeout {
		return fmt.Errorf("http.write_timeout (%s) must exceed forms.submit_timeout (%s)",
			c.HTTP.WriteTimeout, c.Forms.SubmitTimeout)
	}
	if c.Forms.MinFill >= c.Forms.MaxAge {
		return fmt.Errorf("forms.min_fill (%s) must be shorter than forms.max_age (%s)",
			c.Forms.MinFill, c.Forms.MaxAge)
	}
	return nil
}
