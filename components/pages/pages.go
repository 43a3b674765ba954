// components/pages/pages.go
//
// Pages component: the home page, the developers page, the contact page,
// and the site-wide 404.
//
// Context
// -------
// The copy for these pages lives in content/site.yaml, embedded at build
// time and decoded once in Init.  The home page also lists every form
// definition that carries a `listing` block, so opening a registration
// needs no change here.
//
// Notes
// -----
// • The contact form posts to a mailto: URL.  The site keeps no inbox.
// • Oxford commas, two spaces after periods.

package pages

import (
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/jkkniu-techhub/techhub/internal/component"
	"github.com/jkkniu-techhub/techhub/internal/form"
	"github.com/jkkniu-techhub/techhub/internal/logger"
	"github.com/jkkniu-techhub/techhub/internal/routing"
	"github.com/jkkniu-techhub/techhub/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed content/site.yaml
var siteYAML []byte

// Name is the component key and the view namespace.
const Name = "pages"

// compile-time assertions
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

/*──────────────────────────── Content model ────────────────────────────────*/

// Link is a labelled href.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Stat is one figure in the hero strip.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Hero is the top block of the home page.
type Hero struct {
	Badge       string `yaml:"badge"`
	Heading     string `yaml:"heading"`
	Description string `yaml:"description"`
	Primary     Link   `yaml:"primary"`
	Secondary   Link   `yaml:"secondary"`
	Stats       []Stat `yaml:"stats"`
}

// Developer is one profile card.
type Developer struct {
	Name       string   `yaml:"name"`
	Role       string   `yaml:"role"`
	Department string   `yaml:"department"`
	Session    string   `yaml:"session"`
	Bio        string   `yaml:"bio"`
	Skills     []string `yaml:"skills"`
	Email      string   `yaml:"email"`
	GitHub     string   `yaml:"github"`
	LinkedIn   string   `yaml:"linkedin"`

	Anchor string `yaml:"-"` // card id, derived from Name
}

// Initials returns up to two upper-case initials for the avatar.
func (d Developer) Initials() string {
	var out []rune
	for _, w := range strings.Fields(d.Name) {
		w = strings.TrimSuffix(w, ".")
		if w == "" || strings.EqualFold(w, "md") {
			continue
		}
		out = append(out, []rune(strings.ToUpper(w))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// GitHubURL and LinkedInURL expand the stored handles.
func (d Developer) GitHubURL() string {
	if d.GitHub == "" {
		return ""
	}
	return "https://github.com" + routing.BuildPath("", d.GitHub)
}

func (d Developer) LinkedInURL() string {
	if d.LinkedIn == "" {
		return ""
	}
	return "https://www.linkedin.com" + routing.BuildPath("in", d.LinkedIn)
}

// Developers is the developers page.
type Developers struct {
	Heading     string      `yaml:"heading"`
	Description string      `yaml:"description"`
	People      []Developer `yaml:"people"`
}

// Labelled is a contact detail such as a phone number.
type Labelled struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Contact is the contact page.
type Contact struct {
	Heading     string     `yaml:"heading"`
	Description string     `yaml:"description"`
	Mailto      string     `yaml:"mailto"`
	Address     []string   `yaml:"address"`
	Phones      []Labelled `yaml:"phones"`
	Emails      []Labelled `yaml:"emails"`
}

// Content is the decoded site.yaml.
type Content struct {
	Hero       Hero       `yaml:"hero"`
	Developers Developers `yaml:"developers"`
	Contact    Contact    `yaml:"contact"`
}

// ParseContent decodes raw site copy and derives the card anchors.
func ParseContent(raw []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	for i := range c.Developers.People {
		c.Developers.People[i].Anchor = routing.MakeSlug(c.Developers.People[i].Name)
	}
	return &c, nil
}

/*──────────────────────────── Component ────────────────────────────────────*/

// Running is one entry of the home page “running registrations” strip.
type Running struct {
	Title       string
	Description string
	Badge       string
	Href        string
}

type homeData struct {
	Hero    Hero
	Running []Running
}

// Component serves the static pages.
type Component struct {
	view    *view.Engine
	content *Content
}

func (c *Component) Name() string { return Name }

// Init decodes the embedded copy and mounts the templates.
func (c *Component) Init(deps component.Deps) error {
	content, err := ParseContent(siteYAML)
	if err != nil {
		return err
	}
	c.view, c.content = deps.View, content
	c.view.Mount(Name, templatesFS)
	return nil
}

// Routes adds the page endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/", c.home)
	r.Get("/developers", c.developers)
	r.Get("/contact", c.contact)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) home(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, "", "home", homeData{Hero: c.content.Hero, Running: running()})
}

func (c *Component) developers(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, "Developers", "developers", c.content.Developers)
}

func (c *Component) contact(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, "Contact", "contact", c.content.Contact)
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, title, tpl string, data any) {
	p := view.NewPage(r, title, data)
	if err := c.view.Render(w, http.StatusOK, Name, tpl, p); err != nil {
		logger.FromContext(r.Context()).Errorw("render page", "template", tpl, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// running lists the forms that advertise themselves on the home page.
func running() []Running {
	var out []Running
	for _, fd := range form.All() {
		if fd.Listing == nil {
			continue
		}
		r := Running{
			Title:       fd.Listing.Title,
			Description: fd.Listing.Description,
			Badge:       fd.Listing.Badge,
			Href:        fd.Route,
		}
		if r.Title == "" {
			r.Title = fd.Title
		}
		if r.Description == "" {
			r.Description = fd.Description
		}
		out = append(out, r)
	}
	return out
}
