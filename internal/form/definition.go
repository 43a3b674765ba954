// internal/form/definition.go
//
// TechHub: Forms subsystem, YAML definition loader.
//
// Context
//   Each registration form is declared in a YAML file.  The file defines the
//   form’s identifier, route, sink endpoint, fields, per-field rules, and the
//   opaque entry key the sink expects for every field.  The built-in
//   definitions ship embedded in components/registration; operators may drop
//   overrides into a directory named by `forms.dir`.  Parsed definitions live
//   in an in-memory registry so the renderer, validator, and submitter share
//   a single source of truth.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → Condition/Derived.
//   •  ParseFormDef decodes one document, checks schema tags with
//      go-playground/validator, and runs the structural rules tags cannot
//      express (option lists, cross-field references, regex compilation).
//   •  RegisterFS and RegisterForms load every “*.yaml” they find.  A later
//      registration with the same ID replaces the earlier one, so call them
//      in ascending precedence.
//   •  GetFormDef, ByRoute, and All offer read-only access.
//
// Style
//   Comments follow the house guide: full sentences, two spaces after
//   periods, Oxford commas.  Helper comments use short noun phrases.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jkkniu-techhub/techhub/internal/message"
	"github.com/jkkniu-techhub/techhub/internal/metrics"
)

// ErrUnknownForm is returned when an ID or route has no definition.
var ErrUnknownForm = errors.New("unknown form")

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID          string     `yaml:"id"          validate:"required"`
	Title       string     `yaml:"title"       validate:"required"`
	Description string     `yaml:"description"`
	Route       string     `yaml:"route"       validate:"required,startswith=/"`
	Aliases     []string   `yaml:"aliases"     validate:"omitempty,dive,startswith=/"`
	Endpoint    string     `yaml:"endpoint"    validate:"required,url"`
	Mode        string     `yaml:"mode"        validate:"omitempty,oneof=opaque inspect"`
	Notice      *NoticeDef `yaml:"notice"      validate:"omitempty"`
	Listing     *Listing   `yaml:"listing"     validate:"omitempty"`
	Messages    Messages   `yaml:"messages"`
	Fields      []FieldDef `yaml:"fields"      validate:"required,min=1,dive"`
	Order       int        `yaml:"order"`

	source string // file the definition was read from
}

// FieldDef describes a single input control and its rules.
type FieldDef struct {
	Name         string     `yaml:"name"           validate:"required"`
	Label        string     `yaml:"label"          validate:"required"`
	Type         string     `yaml:"type"           validate:"required,oneof=text email tel textarea select radio"`
	Entry        string     `yaml:"entry"          validate:"required"` // opaque sink key
	Placeholder  string     `yaml:"placeholder"`
	Help         string     `yaml:"help"`
	Required     bool       `yaml:"required"`
	RequiredWhen *Condition `yaml:"required_when"  validate:"omitempty"`
	IncludeWhen  *Condition `yaml:"include_when"   validate:"omitempty"`
	ShowWhen     *Condition `yaml:"show_when"      validate:"omitempty"`
	OmitEmpty    bool       `yaml:"omit_empty"`
	Pattern      string     `yaml:"pattern"`
	Options      []string   `yaml:"options"`
	PrefixFrom   *Derived   `yaml:"prefix_from"    validate:"omitempty"`
	Sanitize     bool       `yaml:"sanitize"`
	RequiredMsg  string     `yaml:"required_error"`
	ErrorMsg     string     `yaml:"error"`
	PrefixMsg    string     `yaml:"prefix_error"`

	re *regexp.Regexp
}

// Condition is true when the named field equals Equals, or contains
// Contains case-insensitively.  Exactly one of the two must be set.
type Condition struct {
	Field    string `yaml:"field"    validate:"required"`
	Equals   string `yaml:"equals"   validate:"required_without=Contains,excluded_with=Contains"`
	Contains string `yaml:"contains" validate:"required_without=Equals"`
}

// Derived declares a prefix derived from another field.  The source value
// is a session string such as “2022-23”; its two-digit suffix is the prefix
// and Length is the exact digit count of the constrained value.
type Derived struct {
	Field  string `yaml:"field"  validate:"required"`
	Length int    `yaml:"length" validate:"required,gt=2"`
}

// NoticeDef is a highlighted block above the fields, e.g. a fee notice.
type NoticeDef struct {
	Title string `yaml:"title" validate:"required"`
	Body  string `yaml:"body"`
	Copy  string `yaml:"copy"` // value offered to the clipboard, optional
}

// Listing places the form on the home page “running registrations” strip.
type Listing struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Badge       string `yaml:"badge"`
}

// Messages holds the three notices a submit attempt can produce.
type Messages struct {
	Success Notice `yaml:"success"`
	Failure Notice `yaml:"failure"`
	Invalid Notice `yaml:"invalid"`
}

// Holds evaluates c against the trimmed value of c.Field in v.
func (c *Condition) Holds(v Values) bool {
	if c == nil {
		return false
	}
	got := strings.TrimSpace(v[c.Field])
	if c.Equals != "" {
		return got == c.Equals
	}
	return strings.Contains(strings.ToLower(got), strings.ToLower(c.Contains))
}

// Field returns the named FieldDef.
func (fd *FormDef) Field(name string) (*FieldDef, bool) {
	for i := range fd.Fields {
		if fd.Fields[i].Name == name {
			return &fd.Fields[i], true
		}
	}
	return nil, false
}

// Paths lists the canonical route followed by any aliases.
func (fd *FormDef) Paths() []string {
	return append([]string{fd.Route}, fd.Aliases...)
}

// DeliveryMode maps the YAML mode onto the message package.
func (fd *FormDef) DeliveryMode() message.Mode {
	if fd.Mode == string(message.ModeInspect) {
		return message.ModeInspect
	}
	return message.ModeOpaque
}

// WidgetID is the key under which the form widget is registered.
func (fd *FormDef) WidgetID() string { return "form/" + fd.ID }

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by ID.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// ByRoute returns the definition served at path.
func ByRoute(path string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, fd := range registry {
		for _, p := range fd.Paths() {
			if p == path {
				return fd, true
			}
		}
	}
	return nil, false
}

// All returns every definition sorted by Order, then ID.
func All() []*FormDef {
	registryMu.RLock()
	out := make([]*FormDef, 0, len(registry))
	for _, fd := range registry {
		out = append(out, fd)
	}
	registryMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Reset empties the registry.  Tests use it to start from a clean slate.
func Reset() {
	registryMu.Lock()
	registry = make(map[string]*FormDef)
	registryMu.Unlock()
	metrics.RegisteredForms.Set(0)
}

// Register validates fd and inserts (or replaces) it.
func Register(fd *FormDef) error {
	if err := validateFormDef(fd); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	for id, other := range registry {
		if id == fd.ID {
			continue
		}
		for _, p := range fd.Paths() {
			if slices.Contains(other.Paths(), p) {
				return fmt.Errorf("form %s: route %s already served by %s", fd.ID, p, id)
			}
		}
	}
	registry[fd.ID] = fd
	metrics.RegisteredForms.Set(float64(len(registry)))
	injectWidgetRegistration(fd)
	return nil
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes one YAML document.  It NEVER mutates the registry.
func ParseFormDef(raw []byte, source string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", source, err)
	}
	fd.source = source
	if err := validateFormDef(&fd); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadFormDef parses one YAML file from disk.
func LoadFormDef(path string) (*FormDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}
	return ParseFormDef(raw, path)
}

// RegisterFS loads every “*.yaml” under dir in fsys.  Used for the embedded
// built-in definitions.
func RegisterFS(fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		fd, err := ParseFormDef(raw, path)
		if err != nil {
			return err
		}
		return Register(fd)
	})
}

// RegisterForms walks the given directories in order and registers every
// “*.yaml” found.  Missing directories are skipped; parse errors fail fast so
// issues surface loudly.
func RegisterForms(dirs ...string) error {
	for _, base := range dirs {
		if base == "" {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
				return nil
			}
			fd, err := LoadFormDef(path)
			if err != nil {
				return err
			}
			return Register(fd)
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var schema = validator.New()

// validateFormDef enforces the schema tags plus the structural rules that
// cannot be expressed via tags alone.  It also compiles field patterns.
func validateFormDef(fd *FormDef) error {
	src := fd.source
	if src == "" {
		src = fd.ID
	}
	if err := schema.Struct(fd); err != nil {
		return fmt.Errorf("form definition %s: %w", src, err)
	}
	for i, p := range fd.Aliases {
		if slices.Contains(fd.Paths()[:i+1], p) {
			return fmt.Errorf("form %s: alias %s repeats a route", src, p)
		}
	}

	names := make(map[string]struct{}, len(fd.Fields))
	entries := make(map[string]string, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", src, f.Name)
		}
		names[f.Name] = struct{}{}
		if other, dup := entries[f.Entry]; dup {
			return fmt.Errorf("form %s: fields '%s' and '%s' share entry key %s", src, other, f.Name, f.Entry)
		}
		entries[f.Entry] = f.Name

		if (f.Type == "select" || f.Type == "radio") && len(f.Options) == 0 {
			return fmt.Errorf("form %s: field '%s' of type %s needs options", src, f.Name, f.Type)
		}
		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return fmt.Errorf("form %s: field '%s' invalid regex pattern: %w", src, f.Name, err)
			}
			f.re = re
		}
	}

	// Cross-field references must point at declared fields.
	for i := range fd.Fields {
		f := &fd.Fields[i]
		for _, ref := range []string{condField(f.RequiredWhen), condField(f.IncludeWhen), condField(f.ShowWhen), derivedField(f.PrefixFrom)} {
			if ref == "" {
				continue
			}
			if _, ok := names[ref]; !ok {
				return fmt.Errorf("form %s: field '%s' references unknown field '%s'", src, f.Name, ref)
			}
			if ref == f.Name {
				return fmt.Errorf("form %s: field '%s' references itself", src, f.Name)
			}
		}
	}

	fd.Messages.applyDefaults()
	return nil
}

func condField(c *Condition) string {
	if c == nil {
		return ""
	}
	return c.Field
}

func derivedField(d *Derived) string {
	if d == nil {
		return ""
	}
	return d.Field
}
