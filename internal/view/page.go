// internal/view/page.go
//
// Page is the single value every layout execution receives.  Handlers fill
// Data with whatever their content template needs; the layout reads the
// rest (head tags, navigation, the one-shot toast, and request info).

package view

import (
	"net/http"
	"time"

	"github.com/jkkniu-techhub/techhub/internal/head"
	"github.com/jkkniu-techhub/techhub/internal/requestinfo"
)

// SiteName appears in the header, footer, and every <title>.  Tagline is
// the default meta description.
const (
	SiteName = "JKKNIU EventHub"
	Tagline  = "Your gateway to amazing tech events, workshops, and competitions."
)

// NavItem is one entry of the top navigation.  Children render as a
// dropdown.
type NavItem struct {
	Label    string
	Href     string
	Children []NavItem
}

// DefaultNav is the navigation shown on every page.
var DefaultNav = []NavItem{
	{Label: "Home", Href: "/"},
	{Label: "Developers", Href: "/developers"},
	{Label: "Contact", Href: "/contact"},
	{Label: "Club Recruitment", Children: []NavItem{
		{Label: "Midday Recruit", Href: "/club-recruitment/midday"},
		{Label: "CSC Recruitment", Href: "/club-recruitment/csc"},
	}},
}

// Toast is a transient notification rendered once at the top of the page.
type Toast struct {
	Title       string
	Description string
	Variant     string // "default" or "destructive"
}

// Page carries layout-level state.
type Page struct {
	Head  *head.Builder
	Path  string
	Nav   []NavItem
	Toast *Toast
	Info  *requestinfo.RequestInfo
	Year  int
	Data  any
}

// NewPage prepares a Page for r with the given title and data.
func NewPage(r *http.Request, title string, data any) *Page {
	h := head.New()
	if title == "" {
		h.SetTitle(SiteName)
	} else {
		h.SetTitle(title + " | " + SiteName)
	}
	h.SetDescription(Tagline)
	h.OpenGraph("site_name", SiteName)
	h.OpenGraph("title", title)
	h.Stylesheet("/static/css/site.css")
	h.Script("/static/js/forms.js")

	return &Page{
		Head: h,
		Path: r.URL.Path,
		Nav:  DefaultNav,
		Info: requestinfo.FromContext(r.Context()),
		Year: time.Now().Year(),
		Data: data,
	}
}

// Active reports whether item (or one of its children) is the current page.
func (p *Page) Active(item NavItem) bool {
	if item.Href != "" && item.Href == p.Path {
		return true
	}
	for _, c := range item.Children {
		if c.Href == p.Path {
			return true
		}
	}
	return false
}
