// components/registration/registration.go
//
// Registration component: event and club sign-up forms.
//
// Context
// -------
// Every form definition in the registry gets one page, reachable at its
// route and any aliases it declares.  GET renders the
// form; POST validates the body and, when clean, hands it to the shared
// Dispatcher, which forwards it to the external sink.  The built-in
// definitions (ctf, midday, and csc) ship embedded under forms/; files in
// `forms.dir` replace them by ID.
//
// Workflow
// --------
//  1. Reject oversized bodies, known bots (when `forms.reject_bots` is on),
//     and posts whose CSRF token is forged, too fresh, or expired.
//  2. Collapse concurrent posts carrying the same token into one Submit
//     with singleflight, so a double-click dispatches once.
//  3. Remember tokens that already produced a submission in an LRU, so a
//     later re-post of the same rendered form is answered without a second
//     dispatch.
//  4. Success redirects (303) back to the form with a flash cookie.  Invalid
//     input re-renders with 422, a failed dispatch with 502, and both keep
//     the typed values.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package registration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/jkkniu-techhub/techhub/internal/cache"
	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/config"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/metrics"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
	"github.com/jkkniu-techhub/techhub/internal/session"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

//go:embed forms/*.yaml
var formsFS embed.FS

//go:embed templates/*.html
var templatesFS embed.FS

const (
	// Name is the component key and the view namespace.
	Name = "registration"

	maxBody     = 64 << 10 // form posts are a few hundred bytes
	usedTokens  = 4096
	flashSuffix = ":submitted"
)

// compile-time assertions
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component serves every registered form.
type Component struct {
	cfg  *config.Config
	view *view.Engine
	d    form.Dispatcher

	flight singleflight.Group
	used   *cache.LRU // fd.ID#token → struct{}
}

// pageData is what templates/register.html receives as .Data.
type pageData struct {
	Form   *form.FormDef
	Values form.Values
	Errors form.Errors
}

func (c *Component) Name() string { return Name }

// Init loads the embedded definitions, then the operator overrides, and
// installs the CSRF settings.
func (c *Component) Init(deps component.Deps) error {
	if deps.Dispatcher == nil {
		return errors.New("registration: nil dispatcher")
	}
	c.cfg, c.view, c.d = deps.Config, deps.View, deps.Dispatcher
	c.used = cache.New(usedTokens)

	if err := form.RegisterFS(formsFS, "forms"); err != nil {
		return fmt.Errorf("built-in forms: %w", err)
	}
	dir := c.cfg.Forms.Dir
	if dir != "" && !filepath.IsAbs(dir) && c.cfg.Paths.Root != "" {
		dir = filepath.Join(c.cfg.Paths.Root, dir)
	}
	if err := form.RegisterForms(dir); err != nil {
		return fmt.Errorf("forms.dir %s: %w", dir, err)
	}

	form.Configure(form.Settings{
		Secret:  c.cfg.Security.CSRFKey,
		MinFill: c.cfg.Forms.MinFill,
		MaxAge:  c.cfg.Forms.MaxAge,
	})

	c.view.Mount(Name, templatesFS)
	return nil
}

// Routes adds GET and POST for the route and aliases of every registered
// form.
func (c *Component) Routes(r chi.Router) {
	for _, fd := range form.All() {
		for _, p := range fd.Paths() {
			r.Get(p, c.show(fd.ID))
			r.Post(p, c.submit(fd.ID))
		}
	}
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) show(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fd, ok := form.GetFormDef(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		var toast *view.Toast
		if flash, ok := session.PopFlash(w, r); ok && flash == fd.ID+flashSuffix {
			toast = toastFrom(fd.Messages.Success)
		}
		c.render(w, r, http.StatusOK, fd, form.NewValues(fd), nil, toast)
	}
}

func (c *Component) submit(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fd, ok := form.GetFormDef(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		log := logger.FromContext(r.Context()).With("form", fd.ID)

		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		if err := r.ParseForm(); err != nil {
			log.Infow("unreadable form body", "err", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if c.cfg.Forms.RejectBots && requestinfo.FromContext(r.Context()).IsBot() {
			rejected(fd)
			log.Infow("bot submission rejected")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		values := form.ValuesFrom(fd, r.PostForm)
		tok := r.PostForm.Get("csrf_token")
		if err := form.VerifySubmission(tok); err != nil {
			rejected(fd)
			log.Infow("submission rejected", "reason", err)
			status := http.StatusBadRequest
			if errors.Is(err, form.ErrBadToken) {
				status = http.StatusForbidden
			}
			c.render(w, r, status, fd, values, nil, &view.Toast{
				Title:       "Submission rejected",
				Description: form.RejectionMessage(err),
				Variant:     string(form.VariantDestructive),
			})
			return
		}

		key := fd.ID + "#" + tok
		if _, done := c.used.Get(key); done {
			log.Debugw("token already submitted, skipping dispatch")
			c.succeed(w, r, fd)
			return
		}

		out, shared, err := c.dispatchOnce(r.Context(), fd, key, values)
		if err != nil {
			log.Errorw("submit", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		log.Infow("submit", "result", out.Result, "shared", shared)

		switch out.Result {
		case form.ResultSubmitted:
			c.succeed(w, r, fd)
		case form.ResultInvalid:
			c.render(w, r, http.StatusUnprocessableEntity, fd, out.Values, out.Errors, toastFrom(out.Notice))
		default:
			if out.Values != nil {
				values = out.Values
			}
			c.render(w, r, http.StatusBadGateway, fd, values, nil, toastFrom(fd.Messages.Failure))
		}
	}
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// dispatchOnce runs one Controller submit per token.  Concurrent callers
// with the same key share the call; a caller that arrives after it settled
// finds the key in c.used and skips the dispatch.
func (c *Component) dispatchOnce(ctx context.Context, fd *form.FormDef, key string,
	values form.Values) (form.Outcome, bool, error) {

	v, err, shared := c.flight.Do(key, func() (any, error) {
		if _, done := c.used.Get(key); done {
			return form.Outcome{Result: form.ResultSubmitted}, nil
		}
		ctl := form.NewController(fd, c.d)
		for name, val := range values {
			if err := ctl.Edit(name, val); err != nil {
				return nil, err
			}
		}
		out := ctl.Submit(ctx)
		if out.Result == form.ResultSubmitted {
			c.used.Add(key, struct{}{})
		}
		return out, nil
	})
	if err != nil {
		return form.Outcome{}, shared, err
	}
	return v.(form.Outcome), shared, nil
}

func (c *Component) succeed(w http.ResponseWriter, r *http.Request, fd *form.FormDef) {
	session.SetFlash(w, r, fd.ID+flashSuffix)
	// Back to the path that served the form, which may be an alias.
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, status int,
	fd *form.FormDef, v form.Values, errs form.Errors, toast *view.Toast) {

	p := view.NewPage(r, fd.Title, pageData{Form: fd, Values: v, Errors: errs})
	p.Head.SetDescription(fd.Description)
	p.Toast = toast
	if err := c.view.Render(w, status, Name, "register", p); err != nil {
		logger.FromContext(r.Context()).Errorw("render form page", "form", fd.ID, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func toastFrom(n form.Notice) *view.Toast {
	if n.Title == "" {
		return nil
	}
	return &view.Toast{Title: n.Title, Description: n.Description, Variant: string(n.Variant)}
}

func rejected(fd *form.FormDef) {
	metrics.FormSubmissionsTotal.WithLabelValues(fd.ID, "rejected").Inc()
}
