// internal/view/funcs.go
//
// Template functions available to every layout, page, and fragment.
//
//	{{ widget "form/csc" (dict "values" .Data.Values) }}
//	{{ browser . }} {{ device . }} {{ if isBot . }}Robot!{{ end }}
//
// The request helpers take the *Page so templates never poke through the
// nested RequestInfo structs.

package view

import (
	"html/template"

	"github.com/jkkniu-techhub/techhub/internal/widget"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict":   dict,
		"widget": widgetFunc,

		// Request helpers
		"browser": func(p *Page) string {
			if p == nil || p.Info == nil {
				return ""
			}
			return p.Info.UA.Browser
		},
		"device": func(p *Page) string {
			if p == nil || p.Info == nil {
				return ""
			}
			return p.Info.UA.Device
		},
		"os": func(p *Page) string {
			if p == nil || p.Info == nil {
				return ""
			}
			return p.Info.UA.OS
		},
		"country": func(p *Page) string {
			if p == nil || p.Info == nil {
				return ""
			}
			return p.Info.Geo.CountryISO
		},
		"isBot": func(p *Page) bool {
			return p != nil && p.Info.IsBot()
		},
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// widgetFunc renders a registered widget and returns safe HTML.  Errors are
// hidden behind <!-- comments --> so end-users never see stack traces.
func widgetFunc(key string, params map[string]any) template.HTML {
	w := widget.Lookup(key)
	if w == nil {
		return template.HTML("<!-- widget not found -->")
	}
	html, _, err := w.Render(nil, params)
	if err != nil {
		return template.HTML("<!-- widget error -->")
	}
	return template.HTML(html)
}
