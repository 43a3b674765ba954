package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/config"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0"

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	c := &Comp{}
	require.NoError(t, c.Init(component.Deps{
		Config: &config.Config{Debug: true},
		View:   view.New(view.Options{}),
	}))
	r := chi.NewRouter()
	r.Use(requestinfo.Enrich)
	c.Routes(r)
	return r
}

func TestInit_DisabledByDefault(t *testing.T) {
	c := &Comp{}
	err := c.Init(component.Deps{Config: &config.Config{}})
	assert.ErrorIs(t, err, component.ErrDisabled)
}

func TestRequestPage(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/debug/request", nil)
	req.Header.Set("User-Agent", firefoxUA)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Firefox")
}

func TestRequestJSON(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/debug/request.json", nil)
	req.Header.Set("User-Agent", firefoxUA)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got requestinfo.RequestInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Firefox", got.UA.Browser)
	assert.False(t, got.UA.IsBot)
}

func TestForms(t *testing.T) {
	form.Reset()
	fd, err := form.ParseFormDef([]byte(`
id: demo
title: Demo
route: /demo
endpoint: "http://sink.invalid/formResponse"
mode: inspect
fields:
  - {name: a, label: A, type: text, entry: entry.1}
`), "inline")
	require.NoError(t, err)
	require.NoError(t, form.Register(fd))

	h := newHandler(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/forms", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []formSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "inspect", got[0].Mode)
	assert.Equal(t, []string{"a"}, got[0].Fields)
	assert.True(t, got[0].Widget)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/widgets", nil))
	assert.Contains(t, rr.Body.String(), `"form/demo"`)
}
