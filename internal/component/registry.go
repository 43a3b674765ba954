// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  server.NewRouter initialises
// every registered component with the shared Deps, then lets each one add
// its routes to the root chi router.

package component

import (
	"errors"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jkkniu-techhub/techhub/internal/config"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

// ErrDisabled may be returned from Init to skip a component without failing
// boot.  Its routes are not mounted.
var ErrDisabled = errors.New("component disabled")

// Deps are the shared services handed to every component.
type Deps struct {
	Config     *config.Config
	View       *view.Engine
	Dispatcher form.Dispatcher
}

// Initializer is optional.  If a Component implements it, the router calls
// Init(deps) once before Routes.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Routes adds page and form endpoints directly to r, e.g:
//
//	r.Get("/developers", c.developers)
//	r.Post("/register", c.submit)
//
// Components must not Mount at “/”; chi allows only one such mount.
type Component interface {
	Name() string
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.  A duplicate name
// replaces the earlier entry.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name, so route
// registration order is stable between runs.
func All() []Component {
	mu.RLock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Lookup returns the named component.
func Lookup(name string) (Component, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	return c, ok
}
