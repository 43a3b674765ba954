package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/config"
	"github.com/jkkniu-techhub/techhub/internal/routing"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

type pingComponent struct {
	name    string
	initErr error
	inited  bool
}

func (p *pingComponent) Name() string { return p.name }
func (p *pingComponent) Init(component.Deps) error {
	p.inited = true
	return p.initErr
}
func (p *pingComponent) Routes(r chi.Router) {
	r.Get("/"+p.name, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(p.name))
	})
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP:   config.HTTP{ListenAddr: "127.0.0.1:0"},
		Routes: config.Routes{Mode: routing.RouteModeBoth},
	}
}

func TestNewRouter(t *testing.T) {
	on := &pingComponent{name: "zz-ping"}
	off := &pingComponent{name: "zz-off", initErr: component.ErrDisabled}
	component.Register(on)
	component.Register(off)

	deps := component.Deps{Config: testConfig(), View: view.New(view.Options{})}
	h, err := NewRouter(deps, routing.NewAliasCache(map[string]string{"/p": "/zz-ping"}))
	require.NoError(t, err)
	assert.True(t, on.inited)

	cases := []struct {
		path string
		code int
	}{
		{"/zz-ping", http.StatusOK},
		{"/p", http.StatusOK},
		{"/zz-off", http.StatusNotFound},
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/static/css/site.css", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.code, rr.Code, tc.path)
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"), tc.path)
	}
}

func TestNewRouter_InitFailure(t *testing.T) {
	bad := &pingComponent{name: "zz-bad", initErr: errors.New("boom")}
	component.Register(bad)
	t.Cleanup(func() { bad.initErr = component.ErrDisabled })

	_, err := NewRouter(component.Deps{Config: testConfig(), View: view.New(view.Options{})}, routing.NewAliasCache(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zz-bad")
}

func TestNew_Timeouts(t *testing.T) {
	cfg := config.HTTP{ListenAddr: ":8080", ReadTimeout: 1, WriteTimeout: 2, IdleTimeout: 3}
	srv := New(cfg, http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.EqualValues(t, 1, srv.ReadTimeout)
	assert.EqualValues(t, 2, srv.WriteTimeout)
	assert.EqualValues(t, 3, srv.IdleTimeout)
}
