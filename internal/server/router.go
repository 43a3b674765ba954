// internal/server/router.go
//
// Root router.
//
// The router is built once at boot.  Middleware order matters:
//
//  1. RequestID and RealIP (chi) so the logger sees the id and client IP.
//  2. middleware.Logger, then Recoverer, so a panic is logged with its id.
//  3. ForceHTTPS and Security headers.
//  4. Alias rewrite, which must run before request-info enrichment and
//     before chi matches a route.
//  5. requestinfo.Enrich.
//
// Infrastructure endpoints (/metrics, /healthz, /static/*) are added
// before the components, which then add their own routes.

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/middleware"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
	"github.com/jkkniu-techhub/techhub/internal/routing"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

// NotFoundComponent and NotFoundTemplate name the page rendered for
// unknown paths.
const (
	NotFoundComponent = "pages"
	NotFoundTemplate  = "notfound"
)

// NewRouter initialises every registered component and returns the root
// handler.
func NewRouter(deps component.Deps, aliases *routing.AliasCache) (http.Handler, error) {
	cfg := deps.Config
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(middleware.Security(cfg.HTTP.ForceHTTPS))
	r.Use(routing.Middleware(cfg.Routes.Mode, aliases))
	r.Use(requestinfo.Enrich)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", view.StaticHandler()))

	for _, c := range component.All() {
		if in, ok := c.(component.Initializer); ok {
			err := in.Init(deps)
			if errors.Is(err, component.ErrDisabled) {
				zap.S().Infow("component disabled", "component", c.Name())
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("init component %s: %w", c.Name(), err)
			}
		}
		c.Routes(r)
		zap.S().Debugw("component mounted", "component", c.Name())
	}

	r.NotFound(notFound(deps.View))
	return r, nil
}

// notFound renders the site 404 page, falling back to plain text when the
// template is missing.
func notFound(eng *view.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := view.NewPage(r, "Page not found", r.URL.Path)
		if err := eng.Render(w, http.StatusNotFound, NotFoundComponent, NotFoundTemplate, p); err != nil {
			logger.FromContext(r.Context()).Debugw("404 template unavailable", "err", err)
			http.NotFound(w, r)
		}
	}
}
