// internal/form/renderer.go
//
// TechHub: Forms subsystem, HTML renderer.
//
// Context
//   Given a parsed FormDef this file converts the definition into safe,
//   accessible HTML markup.  It applies HTML5 validation attributes, injects
//   a CSRF token, and honours the current Values and Errors so a rejected
//   submission re-renders with the user’s input and inline messages intact.
//
// Workflow
//   •  RenderForm writes the <form> element, each field via writeField, the
//      hidden token, and the submit button.
//   •  Required, pattern, and placeholder attributes are attached where
//      relevant.  Select/radio options are rendered from the YAML Options
//      slice; a select always starts with an empty “choose” option so “no
//      option selected” is representable.
//   •  Fields with show_when carry data-show-* attributes for the small
//      script in static/js/forms.js, and start hidden when the condition is
//      false for the current values.  The server never relies on this.
//   •  The caller receives template.HTML so the surrounding template does not
//      double-escape the markup.
//
// Style
//   Each input gets id="fld-{name}" and is wrapped in
//   <div class="form-field"> for consistent styling.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
)

// RenderOptions bundles the state the markup reflects.
type RenderOptions struct {
	Values Values // nil renders every field empty
	Errors Errors
}

// RenderForm returns the HTML markup for fd.
func RenderForm(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	if opts.Values == nil {
		opts.Values = NewValues(fd)
	}

	token, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("RenderForm %s: csrf token: %w", fd.ID, err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<form class="th-form" method="post" action="%s" novalidate data-form="%s">`+"\n",
		html.EscapeString(fd.Route), html.EscapeString(fd.ID))

	for i := range fd.Fields {
		if err := writeField(&buf, &fd.Fields[i], opts); err != nil {
			return "", err
		}
	}

	fmt.Fprintf(&buf, `<input type="hidden" name="csrf_token" value="%s">`+"\n", html.EscapeString(token))
	buf.WriteString(`<button type="submit" class="btn btn-primary btn-block" data-busy-label="Submitting...">Submit</button>` + "\n")
	buf.WriteString(`</form>`)
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for one field.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) error {
	val := opts.Values[f.Name]
	msg, bad := opts.Errors[f.Name]
	id := "fld-" + html.EscapeString(f.Name)
	name := html.EscapeString(f.Name)

	buf.WriteString(`<div class="form-field"`)
	if c := f.ShowWhen; c != nil {
		fmt.Fprintf(buf, ` data-show-field="%s"`, html.EscapeString(c.Field))
		if c.Equals != "" {
			fmt.Fprintf(buf, ` data-show-equals="%s"`, html.EscapeString(c.Equals))
		} else {
			fmt.Fprintf(buf, ` data-show-contains="%s"`, html.EscapeString(c.Contains))
		}
		if !c.Holds(opts.Values) {
			buf.WriteString(` hidden`)
		}
	}
	buf.WriteString(">\n")

	label := html.EscapeString(f.Label)
	if f.Required {
		label += ` <span class="req" aria-hidden="true">*</span>`
	}
	if f.Type == "radio" {
		fmt.Fprintf(buf, `<fieldset id="%s"><legend>%s</legend>`+"\n", id, label)
	} else {
		fmt.Fprintf(buf, `<label for="%s">%s</label>`+"\n", id, label)
	}

	common := ""
	if f.Required {
		common += ` required`
	}
	if bad {
		common += ` aria-invalid="true" aria-describedby="` + id + `-err"`
	}

	switch f.Type {
	case "text", "email", "tel":
		fmt.Fprintf(buf, `<input id="%s" name="%s" type="%s"%s`, id, name, f.Type, common)
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		if f.Pattern != "" {
			buf.WriteString(` data-pattern="` + html.EscapeString(f.Pattern) + `"`)
		}
		if val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		buf.WriteString(">\n")

	case "textarea":
		fmt.Fprintf(buf, `<textarea id="%s" name="%s" rows="4"%s`, id, name, common)
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		buf.WriteString(">" + html.EscapeString(val) + "</textarea>\n")

	case "select":
		fmt.Fprintf(buf, `<select id="%s" name="%s"%s>`+"\n", id, name, common)
		placeholder := f.Placeholder
		if placeholder == "" {
			placeholder = "Select " + f.Label
		}
		buf.WriteString(`<option value="">` + html.EscapeString(placeholder) + "</option>\n")
		for _, opt := range f.Options {
			sel := ""
			if val == opt {
				sel = ` selected`
			}
			buf.WriteString(`<option value="` + html.EscapeString(opt) + `"` + sel + `>` + html.EscapeString(opt) + "</option>\n")
		}
		buf.WriteString("</select>\n")

	case "radio":
		for i, opt := range f.Options {
			radioID := fmt.Sprintf("%s-%d", id, i)
			checked := ""
			if val == opt {
				checked = ` checked`
			}
			buf.WriteString(`<div class="radio-option">` + "\n")
			fmt.Fprintf(buf, `<input id="%s" name="%s" type="radio" value="%s"%s%s>`+"\n",
				radioID, name, html.EscapeString(opt), checked, common)
			fmt.Fprintf(buf, `<label for="%s">%s</label>`+"\n", radioID, html.EscapeString(opt))
			buf.WriteString("</div>\n")
		}
		buf.WriteString("</fieldset>\n")

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}

	if f.Help != "" {
		buf.WriteString(`<p class="help">` + html.EscapeString(f.Help) + "</p>\n")
	}
	if bad {
		fmt.Fprintf(buf, `<p id="%s-err" class="field-error" role="alert">%s</p>`+"\n", id, html.EscapeString(msg))
	}
	buf.WriteString("</div>\n")
	return nil
}
