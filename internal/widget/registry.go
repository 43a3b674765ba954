// internal/widget/registry.go
//
// Widget registry and lookup helpers.
//
// A **Widget** is a reusable view fragment rendered inside a page.  Today
// every form definition registers one under "form/<id>" when it is loaded
// (see internal/form/widget.go), and page templates embed it with:
//
//	{{ widget "form/csc" (dict "values" .Values "errors" .Errors) }}
//
// The `widget` template helper in internal/view looks the key up, calls
// Render, and hides failures behind an HTML comment.
package widget

import (
	"sort"
	"sync"
)

// Widget represents a view fragment that can be embedded in any page
// template.  Render returns the generated HTML and a cache policy hint
// mirroring view.CachePolicy; a widget that injects a CSRF token returns
// CacheSkip.
//
// Params are an arbitrary key-value map passed from the template and may
// be nil.  Errors are returned, never written to the response.  Render
// must be safe for concurrent use.
type Widget interface {
	ID() string
	Render(rctx any, params map[string]any) (html string, policy int, err error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Widget{}
)

// Register adds w under w.ID().  A later registration with the same key
// replaces the earlier one, which is how a reloaded form definition takes
// over its widget.
func Register(w Widget) {
	mu.Lock()
	registry[w.ID()] = w
	mu.Unlock()
}

// Lookup returns the widget or nil.
func Lookup(key string) Widget {
	mu.RLock()
	defer mu.RUnlock()
	return registry[key]
}

// IDs returns every registered key in sorted order.
func IDs() []string {
	mu.RLock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	mu.RUnlock()
	sort.Strings(out)
	return out
}
