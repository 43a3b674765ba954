package view

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/hello.html": {Data: []byte(`{{ define "content" }}<h1>Hello {{ .Data }}</h1>{{ end }}`)},
		"templates/frag.html":  {Data: []byte(`<b>{{ .name }}</b>`)},
	}
}

func TestEngine_RenderInsideLayout(t *testing.T) {
	e := New(Options{})
	e.Mount("pages", compFS())

	req := httptest.NewRequest(http.MethodGet, "/developers", nil)
	p := NewPage(req, "Hi", "world")
	p.Toast = &Toast{Title: "Saved", Variant: "default"}

	rec := httptest.NewRecorder()
	require.NoError(t, e.Render(rec, http.StatusTeapot, "pages", "hello", p))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Hello world</h1>")
	assert.Contains(t, body, "<title>Hi | JKKNIU EventHub</title>")
	assert.Contains(t, body, `class="toast toast-default"`)
	assert.Contains(t, body, `<li class="active"><a href="/developers">Developers</a></li>`)
}

func TestEngine_RenderToString(t *testing.T) {
	e := New(Options{})
	e.Mount("pages", compFS())

	out, err := e.RenderToString("pages", "frag", map[string]any{"name": "<x>"})
	require.NoError(t, err)
	assert.Equal(t, "<b>&lt;x&gt;</b>", string(out))
}

func TestEngine_OverrideDirWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "frag.html"), []byte(`<i>{{ .name }}</i>`), 0o644))

	e := New(Options{OverrideDir: dir})
	e.Mount("pages", compFS())

	out, err := e.RenderToString("pages", "frag", map[string]any{"name": "o"})
	require.NoError(t, err)
	assert.Equal(t, "<i>o</i>", string(out))
}

func TestEngine_NotFound(t *testing.T) {
	e := New(Options{})
	e.Mount("pages", compFS())

	_, err := e.RenderToString("pages", "missing", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = e.RenderToString("nope", "hello", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEngine_TemplateErrorWritesNothing(t *testing.T) {
	e := New(Options{NoCache: true})
	e.Mount("pages", fstest.MapFS{
		"templates/bad.html": {Data: []byte(`{{ define "content" }}{{ .Data.Missing.Field }}{{ end }}`)},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := e.Render(rec, http.StatusOK, "pages", "bad", NewPage(req, "", 42))
	require.Error(t, err)
	assert.Empty(t, strings.TrimSpace(rec.Body.String()))
}

func TestStaticHandler(t *testing.T) {
	h := http.StripPrefix("/static/", StaticHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/forms.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "th-form")
}
