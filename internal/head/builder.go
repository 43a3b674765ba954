// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  view.NewPage seeds one per request with the site
// defaults; handlers refine it (a form page swaps in its own description)
// and the layout emits each group where it belongs.
//
// Features
// --------
//   - SetTitle, SetDescription  single-value tags, last call wins.
//   - OpenGraph                 <meta property="og:*"> pairs.
//   - Stylesheet, Script        asset references, deduplicated by URL.
//   - Render helpers            return template.HTML for the layout.
//
// Every attribute value is escaped here, so callers pass plain strings and
// never hand-built markup.
package head

import (
	"html"
	"html/template"
	"strings"
)

// Builder is scoped to one request and is not safe for concurrent use.
type Builder struct {
	title       string
	description string

	og      []string
	links   []string
	scripts []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helpers
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.
func (b *Builder) SetTitle(t string) { b.title = t }

// SetDescription overrides <meta name="description">.  Empty keeps the
// previous value.
func (b *Builder) SetDescription(d string) {
	if d != "" {
		b.description = d
	}
}

// ------------------------------------------------------------------
// Multi-value helpers with deduplication
// ------------------------------------------------------------------

// OpenGraph adds <meta property="og:<prop>" content="...">.
func (b *Builder) OpenGraph(prop, content string) {
	if content == "" {
		return
	}
	b.add("og:"+prop, &b.og,
		`<meta property="og:`+esc(prop)+`" content="`+esc(content)+`">`)
}

// Stylesheet links a CSS file once.
func (b *Builder) Stylesheet(href string) {
	b.add("css:"+href, &b.links, `<link rel="stylesheet" href="`+esc(href)+`">`)
}

// Script adds a deferred script once.
func (b *Builder) Script(src string) {
	b.add("js:"+src, &b.scripts, `<script src="`+esc(src)+`" defer></script>`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from the layout
// ------------------------------------------------------------------

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + esc(b.title) + "</title>")
}

// Metas returns the description followed by the OpenGraph tags.
func (b *Builder) Metas() template.HTML {
	var sb strings.Builder
	if b.description != "" {
		sb.WriteString(`<meta name="description" content="` + esc(b.description) + `">`)
	}
	for _, t := range b.og {
		sb.WriteString(t)
	}
	return template.HTML(sb.String())
}

func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

func esc(s string) string { return html.EscapeString(s) }

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
