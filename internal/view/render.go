// internal/view/render.go
//
// Central view engine: template lookup, override chain, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Engine.Render         – write a full page to an http.ResponseWriter.
//   - Engine.RenderToString – return template.HTML (widgets, fragments).
//
// Lookup precedence (first hit wins):
//  1. <view.override_dir>/<comp>/<tpl>.html   (operator overrides on disk)
//  2. templates/<tpl>.html inside the component's mounted fs.FS
//
// Every page set also contains the embedded layout (layout/*.html).  Page
// templates fill {{ define "content" }}; the engine executes "layout".
// Fragments rendered with RenderToString execute "<tpl>" or "<tpl>.html".
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/jkkniu-techhub/techhub/internal/cache"
)

//go:embed layout/*.html
var layoutFS embed.FS

// ErrNotFound is returned when no template matches.
var ErrNotFound = errors.New("template not found")

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // keep the parsed set
	CacheSkip                       // never cache
)

// Engine renders component templates inside the site layout.
type Engine struct {
	override string
	noCache  bool

	mu    sync.RWMutex
	comps map[string]fs.FS

	tmplLRU *cache.LRU
}

// Options configure New.
type Options struct {
	OverrideDir string // optional directory of operator overrides
	NoCache     bool   // re-parse on every render (debug mode)
}

// New returns an Engine with no components mounted.
func New(opts Options) *Engine {
	return &Engine{
		override: opts.OverrideDir,
		noCache:  opts.NoCache,
		comps:    make(map[string]fs.FS),
		tmplLRU:  cache.New(256),
	}
}

// Mount registers the template filesystem of a component.  fsys must hold a
// templates/ directory.
func (e *Engine) Mount(comp string, fsys fs.FS) {
	e.mu.Lock()
	e.comps[comp] = fsys
	e.mu.Unlock()
	e.tmplLRU.Purge()
}

//
// public helpers
//

// Render executes comp/name inside the layout and writes it with status.
// Output is buffered so a template error never produces half a page.
func (e *Engine) Render(w http.ResponseWriter, status int, comp, name string, p *Page) error {
	t, err := e.load(comp, name, true, CacheDefault)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s/%s: %w", comp, name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// RenderToString executes a fragment without the layout.
func (e *Engine) RenderToString(comp, name string, data any) (template.HTML, error) {
	t, err := e.load(comp, name, false, CacheDefault)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", fmt.Errorf("render %s/%s: %w", comp, name, err)
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given
// component and base name, obeying the provided cache policy.
func (e *Engine) load(comp, name string, withLayout bool, policy CachePolicy) (*template.Template, error) {
	key := fmt.Sprintf("%s::%s::%t", comp, name, withLayout)
	useCache := policy != CacheSkip && !e.noCache

	if useCache {
		if v, ok := e.tmplLRU.Get(key); ok {
			return v.(*template.Template), nil
		}
	}

	src, file, err := e.locate(comp, name)
	if err != nil {
		return nil, err
	}

	t := template.New(name).Funcs(funcMap())
	if withLayout {
		if t, err = t.ParseFS(layoutFS, "layout/*.html"); err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
	}
	if t, err = t.ParseFS(src, file); err != nil {
		return nil, fmt.Errorf("parse %s/%s: %w", comp, name, err)
	}

	if useCache {
		e.tmplLRU.Add(key, t)
	}
	return t, nil
}

// locate walks the override chain.
func (e *Engine) locate(comp, name string) (fs.FS, string, error) {
	if e.override != "" {
		p := filepath.Join(e.override, comp, name+".html")
		if _, err := os.Stat(p); err == nil {
			return os.DirFS(filepath.Dir(p)), name + ".html", nil
		}
	}

	e.mu.RLock()
	src, ok := e.comps[comp]
	e.mu.RUnlock()
	if ok {
		file := path.Join("templates", name+".html")
		if _, err := fs.Stat(src, file); err == nil {
			return src, file, nil
		}
	}
	return nil, "", fmt.Errorf("%s/%s: %w", comp, name, ErrNotFound)
}

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}
