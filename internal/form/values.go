// internal/form/values.go
//
// Field values and field errors for one form instance.
//
// Values always holds exactly the declared field names of its FormDef.  The
// constructors below are the only way to build one, and Set refuses names the
// form does not declare, so the key set never drifts.

package form

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrUnknownField is returned when a caller names a field the form lacks.
var ErrUnknownField = errors.New("unknown field")

// Values maps field name to its current string value.
type Values map[string]string

// Errors maps field name to a user-facing message.  A field that is absent
// from the map is valid.
type Errors map[string]string

// NewValues returns a Values with every declared field set to "".
func NewValues(fd *FormDef) Values {
	v := make(Values, len(fd.Fields))
	for _, f := range fd.Fields {
		v[f.Name] = ""
	}
	return v
}

// ValuesFrom copies the declared fields out of a posted body.  Undeclared
// keys are ignored; missing ones stay "".
func ValuesFrom(fd *FormDef, posted url.Values) Values {
	v := NewValues(fd)
	for name := range v {
		v[name] = posted.Get(name)
	}
	return v
}

// Set updates one field.
func (v Values) Set(name, value string) error {
	if _, ok := v[name]; !ok {
		return fmt.Errorf("set %q: %w", name, ErrUnknownField)
	}
	v[name] = value
	return nil
}

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Clear resets every field to "" while keeping the key set.
func (v Values) Clear() {
	for k := range v {
		v[k] = ""
	}
}

// Has reports whether name has an error.
func (e Errors) Has(name string) bool {
	_, ok := e[name]
	return ok
}
