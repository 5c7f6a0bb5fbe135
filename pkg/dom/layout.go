package dom

import "github.com/projectman/pmweb/pkg/vdom"

// DefaultBrand is the brand label shown before configuration is applied.
const DefaultBrand = "ProjectMan"

// NavLink is an entry in the secondary navigation list.
type NavLink struct {
	Label string
	Href  string
}

// DefaultLinks are the page links rendered next to the theme toggle.
var DefaultLinks = []NavLink{
	{Label: "Dashboard", Href: "/"},
	{Label: "Board", Href: "/board"},
	{Label: "Epics", Href: "/epics"},
	{Label: "Stories", Href: "/stories"},
	{Label: "Docs", Href: "/project-docs"},
	{Label: "Audit", Href: "/audit"},
}

// Layout returns the base page tree. The brand list (.pm-brand) is always
// the first list in the nav; content is placed inside main#content.
func Layout(brand string, links []NavLink, content ...any) *vdom.VNode {
	if brand == "" {
		brand = DefaultBrand
	}

	items := vdom.Range(links, func(l NavLink, _ int) *vdom.VNode {
		return vdom.Li(vdom.A(vdom.Href(l.Href), l.Label))
	})

	return vdom.Html(
		vdom.Lang("en"),
		vdom.Head(
			vdom.Meta(vdom.Charset("utf-8")),
			vdom.Meta(vdom.Name("viewport"), vdom.Content("width=device-width, initial-scale=1")),
			vdom.Title(brand),
			vdom.Link(vdom.Rel("stylesheet"), vdom.Href("/static/style.css")),
			vdom.Script(vdom.Src("/static/htmx.min.js")),
			vdom.Script(vdom.Src("/static/app.js")),
		),
		vdom.Body(
			vdom.Nav(
				vdom.Class("container-fluid"),
				vdom.Ul(
					vdom.Li(vdom.Class("pm-brand"), vdom.A(vdom.Href("/"), vdom.Strong(brand))),
				),
				vdom.Ul(
					items,
					vdom.Li(vdom.Button(
						vdom.ID("theme-toggle"),
						vdom.Type("button"),
						vdom.Class("outline"),
						vdom.AriaLabel("Toggle theme"),
					)),
				),
			),
			vdom.Main(append([]any{vdom.ID("content"), vdom.Class("container")}, content...)...),
		),
	)
}

// NewPage returns a Document over the base layout with the default links.
func NewPage(brand string) *Document {
	return New(Layout(brand, DefaultLinks))
}
