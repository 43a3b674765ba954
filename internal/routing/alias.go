// internal/routing/alias.go
//
// Alias-resolution cache and middleware.
//
// Context
// -------
// The site exposes a few friendly or legacy paths (for example
// `/csc-register`) that must resolve to the canonical component paths
// (`/club-recruitment/csc`).  Aliases come from `routes.aliases` in the
// configuration and live in an in-memory AliasCache that can be swapped
// wholesale on reload.
//
// Workflow
// --------
//   1. cmd/web builds the cache via routing.NewAliasCache(cfg.Routes.Aliases).
//   2. server.NewRouter wires routing.Middleware(mode, cache) before any
//      component route runs.
//   3. Middleware rewrites r.URL.Path on cache hit; otherwise falls through or
//      404s per routing mode.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.

package routing

import (
	"net/http"
	"strings"
	"sync"

	"github.com/jkkniu-techhub/techhub/internal/logger"
)

// -----------------------------------------------------------------------------
// AliasCache
// -----------------------------------------------------------------------------

// AliasCache stores alias→target pairs.  Safe for concurrent use.
type AliasCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewAliasCache returns a cache seeded with aliases.
func NewAliasCache(aliases map[string]string) *AliasCache {
	c := &AliasCache{}
	c.Set(aliases)
	return c
}

// Set replaces every alias at once.
func (c *AliasCache) Set(aliases map[string]string) {
	fresh := make(map[string]string, len(aliases))
	for k, v := range aliases {
		if k != v { // a self-alias would loop forever in a browser
			fresh[k] = v
		}
	}
	c.mu.Lock()
	c.data = fresh
	c.mu.Unlock()
}

// Len reports the number of aliases.
func (c *AliasCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *AliasCache) lookup(path string) (string, bool) {
	c.mu.RLock()
	target, ok := c.data[path]
	c.mu.RUnlock()
	return target, ok
}

// -----------------------------------------------------------------------------
// Middleware factory
// -----------------------------------------------------------------------------

const (
	RouteModeAbsolute  = "absolute"
	RouteModeAliasOnly = "alias"
	RouteModeBoth      = "both"
)

// Middleware returns a Chi middleware that rewrites alias paths.  In alias
// mode the canonical paths themselves stay reachable; only unknown paths
// 404 early.
func Middleware(mode string, cache *AliasCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mode == RouteModeAbsolute {
				next.ServeHTTP(w, r)
				return
			}

			if target, ok := cache.lookup(r.URL.Path); ok {
				original := r.URL.Path
				r.URL.Path = target
				r.URL.RawPath = ""
				r.RequestURI = target
				logger.FromContext(r.Context()).Debugw("alias rewrite",
					"from", original,
					"to", target)

				next.ServeHTTP(w, r)
				return
			}

			if mode == RouteModeAliasOnly && !cache.isTarget(r.URL.Path) && !isAsset(r.URL.Path) {
				http.NotFound(w, r)
				return
			}

			// mode == both and alias miss
			next.ServeHTTP(w, r)
		})
	}
}

func (c *AliasCache) isTarget(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.data {
		if t == path {
			return true
		}
	}
	return false
}

// isAsset keeps the home page, static files, and health checks reachable in alias
// mode.
func isAsset(path string) bool {
	switch path {
	case "/", "/metrics", "/healthz":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}
