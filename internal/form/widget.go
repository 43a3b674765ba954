// internal/form/widget.go
//
// TechHub: Forms subsystem, widget integration.
//
// Context
//   Templates embed a form through the widget system:
//
//       {{ widget "form/csc" (dict "values" .Values "errors" .Errors) }}
//
//   This adapter wraps RenderForm and always returns view.CacheSkip so the
//   CSRF token is never cached.
//
//------------------------------------------------------------------------------

package form

import (
	"github.com/jkkniu-techhub/techhub/internal/view"
	"github.com/jkkniu-techhub/techhub/internal/widget"
)

var _ widget.Widget = (*formWidget)(nil)

type formWidget struct{ id string }

// ID implements widget.Widget.
func (w *formWidget) ID() string { return "form/" + w.id }

// Render looks the definition up at call time so a reload is picked up.
// params may include:
//
//   - "values" form.Values  to pre-populate inputs
//   - "errors" form.Errors  to show inline messages
func (w *formWidget) Render(_ any, params map[string]any) (string, int, error) {
	fd, ok := GetFormDef(w.id)
	if !ok {
		return "", int(view.CacheSkip), ErrUnknownForm
	}

	var opts RenderOptions
	if v, ok := params["values"].(Values); ok {
		opts.Values = v
	}
	if e, ok := params["errors"].(Errors); ok {
		opts.Errors = e
	}

	out, err := RenderForm(fd, opts)
	if err != nil {
		return "", int(view.CacheSkip), err
	}
	return string(out), int(view.CacheSkip), nil
}

// injectWidgetRegistration is called by Register after each FormDef loads.
func injectWidgetRegistration(fd *FormDef) { widget.Register(&formWidget{id: fd.ID}) }
