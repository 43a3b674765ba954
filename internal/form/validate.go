// internal/form/validate.go
//
// TechHub: Forms subsystem, field validation.
//
// Context
//   Validate is the single rule engine behind every registration form.  It
//   reads the rules a FormDef declares (required, conditional requirement,
//   pattern, option list, and the session-derived roll prefix) and reports
//   one message per failing field.  It never fails and never touches the
//   network; CSRF and timing checks live in csrf.go because they guard the
//   HTTP request, not the user’s input.
//
// Workflow
//   •  Fields are visited in declaration order.  Each value is trimmed before
//      any rule runs.
//   •  A required (or conditionally required) field that is empty gets its
//      required message and no further checks.
//   •  An empty optional field is valid.
//   •  A non-empty value must be one of the options (select/radio), match the
//      pattern, and satisfy prefix_from, in that order; the first failure
//      wins.
//
// Notes
//   The derived prefix check is skipped when the source session is empty or
//   malformed.  The session field reports its own problem through required.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"strings"
)

const (
	msgRequired = "This field is required"
	msgInvalid  = "Invalid format"
	msgOption   = "Please choose one of the listed options"
)

// Validate checks v against fd and returns the failing fields.  An empty
// result means v may be submitted.
func Validate(fd *FormDef, v Values) Errors {
	errs := make(Errors)
	for i := range fd.Fields {
		f := &fd.Fields[i]
		val := strings.TrimSpace(v[f.Name])

		if val == "" {
			if f.Required || f.RequiredWhen.Holds(v) {
				errs[f.Name] = orDefault(f.RequiredMsg, msgRequired)
			}
			continue
		}

		if len(f.Options) > 0 && !optionAllowed(f.Options, val) {
			errs[f.Name] = orDefault(f.ErrorMsg, msgOption)
			continue
		}
		if f.re != nil && !f.re.MatchString(val) {
			errs[f.Name] = orDefault(f.ErrorMsg, msgInvalid)
			continue
		}
		if f.PrefixFrom != nil {
			if msg := checkPrefix(f, val, v[f.PrefixFrom.Field]); msg != "" {
				errs[f.Name] = msg
			}
		}
	}
	return errs
}

// SessionPrefix returns the two-digit year suffix of a session such as
// "2022-23".  ok is false when the session is not in that shape.
func SessionPrefix(session string) (prefix string, ok bool) {
	session = strings.TrimSpace(session)
	i := strings.LastIndexByte(session, '-')
	if i < 0 {
		return "", false
	}
	tail := session[i+1:]
	if len(tail) < 2 || !allDigits(tail) || !allDigits(session[:i]) || i == 0 {
		return "", false
	}
	return tail[len(tail)-2:], true
}

// checkPrefix enforces the exact digit count and the derived prefix.
func checkPrefix(f *FieldDef, val, session string) string {
	prefix, ok := SessionPrefix(session)
	if !ok {
		return ""
	}
	if len(val) == f.PrefixFrom.Length && allDigits(val) && strings.HasPrefix(val, prefix) {
		return ""
	}
	if f.PrefixMsg != "" {
		return f.PrefixMsg
	}
	return fmt.Sprintf("Must be %d digits starting with %s", f.PrefixFrom.Length, prefix)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func optionAllowed(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
