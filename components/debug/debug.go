// components/debug/debug.go
//
// Debug component: shows what the server knows about the current request
// and which forms are loaded.
//
// Mounted only when `debug: true`; otherwise Init returns
// component.ErrDisabled and the routes never exist.
//
//   GET /debug/request       HTML page (UA, IP, and Geo details)
//   GET /debug/request.json  the same as JSON
//   GET /debug/forms         registered form definitions as JSON
//   GET /debug/widgets       registered widget keys as JSON
package debug

import (
	"embed"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
	"github.com/jkkniu-techhub/techhub/internal/view"
	"github.com/jkkniu-techhub/techhub/internal/widget"
)

//go:embed templates/*.html
var templatesFS embed.FS

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	view *view.Engine
}

// formSummary is the public face of a FormDef on /debug/forms.
type formSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Route    string   `json:"route"`
	Endpoint string   `json:"endpoint"`
	Mode     string   `json:"mode"`
	Fields   []string `json:"fields"`
	Widget   bool     `json:"widget"` // false means the page cannot embed it
}

func (c *Comp) Name() string { return "debug" }

func (c *Comp) Init(deps component.Deps) error {
	if deps.Config == nil || !deps.Config.Debug {
		return component.ErrDisabled
	}
	c.view = deps.View
	c.view.Mount("debug", templatesFS)
	return nil
}

func (c *Comp) Routes(r chi.Router) {
	// HTML page
	r.Get("/debug/request", func(w http.ResponseWriter, r *http.Request) {
		if requestinfo.FromContext(r.Context()) == nil {
			http.Error(w, "request info not available", http.StatusInternalServerError)
			return
		}
		p := view.NewPage(r, "Request Info", nil)
		if err := c.view.Render(w, http.StatusOK, "debug", "request", p); err != nil {
			logger.FromContext(r.Context()).Errorw("render debug page", "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// JSON endpoints
	r.Get("/debug/request.json", func(w http.ResponseWriter, r *http.Request) {
		ri := requestinfo.FromContext(r.Context())
		if ri == nil {
			http.Error(w, "request info not available", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ri)
	})

	r.Get("/debug/forms", func(w http.ResponseWriter, _ *http.Request) {
		out := make([]formSummary, 0)
		for _, fd := range form.All() {
			s := formSummary{
				ID:       fd.ID,
				Title:    fd.Title,
				Route:    fd.Route,
				Endpoint: fd.Endpoint,
				Mode:     string(fd.DeliveryMode()),
				Widget:   widget.Lookup(fd.WidgetID()) != nil,
			}
			for _, f := range fd.Fields {
				s.Fields = append(s.Fields, f.Name)
			}
			out = append(out, s)
		}
		writeJSON(w, out)
	})

	r.Get("/debug/widgets", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, widget.IDs())
	})
}

// Register component at package init.
func init() {
	component.Register(&Comp{})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
