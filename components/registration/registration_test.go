package registration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/config"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

// fakeDispatcher counts calls and optionally blocks until released.
type fakeDispatcher struct {
	calls   atomic.Int32
	ok      bool
	release chan struct{}
	last    atomic.Pointer[form.Values]
}

func (f *fakeDispatcher) Dispatch(_ context.Context, _ *form.FormDef, v form.Values) bool {
	f.calls.Add(1)
	f.last.Store(&v)
	if f.release != nil {
		<-f.release
	}
	return f.ok
}

func newComponent(t *testing.T, d form.Dispatcher) *Component {
	t.Helper()
	form.Reset()
	cfg := &config.Config{
		Forms: config.Forms{
			SubmitTimeout: time.Second,
			MaxAge:        time.Hour,
			RejectBots:    true,
		},
		Security: config.Security{CSRFKey: "registration-test-key-0123456789"},
	}
	c := &Component{}
	require.NoError(t, c.Init(component.Deps{Config: cfg, View: view.New(view.Options{}), Dispatcher: d}))
	return c
}

func newHandler(t *testing.T, d form.Dispatcher) http.Handler {
	t.Helper()
	c := newComponent(t, d)
	r := chi.NewRouter()
	r.Use(requestinfo.Enrich)
	c.Routes(r)
	return r
}

func ctfBody(t *testing.T) url.Values {
	t.Helper()
	tok, err := form.GenerateToken()
	require.NoError(t, err)
	return url.Values{
		"fullName":   {"Rahim Uddin"},
		"session":    {"2022-23"},
		"roll":       {"23000001"},
		"email":      {"rahim@example.com"},
		"phone":      {"01712345678"},
		"payment":    {"Cash"},
		"csrf_token": {tok},
	}
}

func post(h http.Handler, path string, body url.Values, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const ctfPath = "/events/ctf"

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestInit_RegistersBuiltInForms(t *testing.T) {
	newHandler(t, &fakeDispatcher{ok: true})
	for _, id := range []string{"ctf", "midday", "csc"} {
		_, ok := form.GetFormDef(id)
		assert.True(t, ok, id)
	}
	fd, ok := form.ByRoute("/club-recruitment/csc")
	require.True(t, ok)
	assert.Equal(t, "csc", fd.ID)
}

func TestShow_RendersForm(t *testing.T) {
	h := newHandler(t, &fakeDispatcher{ok: true})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, ctfPath, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `data-form="ctf"`)
	assert.Contains(t, body, `name="csrf_token"`)
	assert.Contains(t, body, "Registration fee: 100 Tk")
}

func TestSubmit_SuccessRedirectsWithFlash(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	h := newHandler(t, d)

	rr := post(h, ctfPath, ctfBody(t), chromeUA)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, ctfPath, rr.Header().Get("Location"))
	assert.EqualValues(t, 1, d.calls.Load())
	assert.Equal(t, "Rahim Uddin", (*d.last.Load())["fullName"])

	// Follow the redirect with the flash cookie.
	req := httptest.NewRequest(http.MethodGet, ctfPath, nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	next := httptest.NewRecorder()
	h.ServeHTTP(next, req)
	require.Equal(t, http.StatusOK, next.Code)
	assert.Contains(t, next.Body.String(), "Registration Successful!")
	assert.NotContains(t, next.Body.String(), "Rahim Uddin", "values are cleared")
}

func TestSubmit_InvalidKeepsValues(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	h := newHandler(t, d)

	body := ctfBody(t)
	body.Set("fullName", "")
	body.Set("phone", "12345")
	rr := post(h, ctfPath, body, chromeUA)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Zero(t, d.calls.Load())
	out := rr.Body.String()
	assert.Contains(t, out, "Full name is required")
	assert.Contains(t, out, "Enter a valid Bangladeshi mobile number")
	assert.Contains(t, out, "rahim@example.com")
	assert.Contains(t, out, "Validation Error")
}

func TestSubmit_DispatchFailure(t *testing.T) {
	d := &fakeDispatcher{ok: false}
	h := newHandler(t, d)

	rr := post(h, ctfPath, ctfBody(t), chromeUA)
	require.Equal(t, http.StatusBadGateway, rr.Code)
	assert.EqualValues(t, 1, d.calls.Load())
	assert.Contains(t, rr.Body.String(), "Registration Failed")
	assert.Contains(t, rr.Body.String(), "Rahim Uddin", "values survive a failure")
}

func TestSubmit_RejectsBadToken(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	h := newHandler(t, d)

	body := ctfBody(t)
	body.Set("csrf_token", "forged")
	rr := post(h, ctfPath, body, chromeUA)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, d.calls.Load())
	assert.Contains(t, rr.Body.String(), "Security token invalid")
}

func TestSubmit_RejectsBots(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	h := newHandler(t, d)

	rr := post(h, ctfPath, ctfBody(t),
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Zero(t, d.calls.Load())
}

func TestSubmit_RepostOfSameTokenDispatchesOnce(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	h := newHandler(t, d)

	body := ctfBody(t)
	first := post(h, ctfPath, body, chromeUA)
	second := post(h, ctfPath, body, chromeUA)

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.EqualValues(t, 1, d.calls.Load())
}

func TestSubmit_ConcurrentDoubleClickDispatchesOnce(t *testing.T) {
	d := &fakeDispatcher{ok: true, release: make(chan struct{})}
	h := newHandler(t, d)
	body := ctfBody(t)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = post(h, ctfPath, body, chromeUA).Code
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(d.release)
	wg.Wait()

	assert.Equal(t, []int{http.StatusSeeOther, http.StatusSeeOther}, codes)
	assert.EqualValues(t, 1, d.calls.Load())
}

func TestSubmit_AliasServesMiddayAndRedirectsBack(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	h := newHandler(t, d)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/register", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-form="midday"`)

	tok, err := form.GenerateToken()
	require.NoError(t, err)
	body := url.Values{
		"fullName":           {"Rahim Uddin"},
		"roll":               {"2001"},
		"registrationNumber": {"12345"},
		"gender":             {"Male"},
		"paymentMethod":      {"Cash - CR"},
		"csrf_token":         {tok},
	}
	rr = post(h, "/register", body, chromeUA)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/register", rr.Header().Get("Location"))
	assert.EqualValues(t, 1, d.calls.Load())
}

func TestDispatchOnce_SettledKeySkipsDispatch(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	c := newComponent(t, d)
	fd, ok := form.GetFormDef("ctf")
	require.True(t, ok)

	// The key settled between the caller's own check and the shared call.
	c.used.Add("ctf#tok", struct{}{})
	out, _, err := c.dispatchOnce(context.Background(), fd, "ctf#tok", form.NewValues(fd))
	require.NoError(t, err)
	assert.Equal(t, form.ResultSubmitted, out.Result)
	assert.Zero(t, d.calls.Load())
}

func TestDispatchOnce_UnknownFieldIsAnError(t *testing.T) {
	d := &fakeDispatcher{ok: true}
	c := newComponent(t, d)
	fd, ok := form.GetFormDef("ctf")
	require.True(t, ok)

	v := form.NewValues(fd)
	v["bogus"] = "x"
	_, _, err := c.dispatchOnce(context.Background(), fd, "ctf#other", v)
	assert.ErrorIs(t, err, form.ErrUnknownField)
	assert.Zero(t, d.calls.Load())
	_, used := c.used.Get("ctf#other")
	assert.False(t, used)
}

func TestInit_NilDispatcher(t *testing.T) {
	c := &Component{}
	err := c.Init(component.Deps{Config: &config.Config{}, View: view.New(view.Options{})})
	assert.Error(t, err)
}
