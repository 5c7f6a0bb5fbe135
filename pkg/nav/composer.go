package nav

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/eventloop"
	"github.com/projectman/pmweb/pkg/vdom"
)

const (
	// BrandSelector locates the brand label.
	BrandSelector = ".pm-brand strong"

	// ListSelector locates the nav list the project selector joins.
	ListSelector = "nav ul:first-child"

	// ProjectParam is the query parameter holding the selected project.
	ProjectParam = "project"

	// HubLabel is the label of the "no project" option.
	HubLabel = "Hub (all)"

	selectorStyle = "margin:0;padding:0.25rem;height:auto;min-width:120px;"
)

// Result describes what Compose did.
type Result struct {
	// Config is the fetched AppConfig; zero when the fetch failed.
	Config AppConfig

	// Applied reports whether the fetch succeeded and the config was
	// applied to the page.
	Applied bool

	// Selector is the project select element, or nil.
	Selector *vdom.VNode
}

// Composer applies the AppConfig to one page.
type Composer struct {
	doc      *dom.Document
	fetcher  Fetcher
	location Location
	loop     *eventloop.Loop

	once   sync.Once
	result Result
}

// NewComposer creates a composer. Page mutations run on loop.
func NewComposer(doc *dom.Document, fetcher Fetcher, location Location, loop *eventloop.Loop) *Composer {
	return &Composer{
		doc:      doc,
		fetcher:  fetcher,
		location: location,
		loop:     loop,
	}
}

// Compose fetches the AppConfig and applies it. Only the first call does
// any work; later calls return the first result. Failures leave the page
// untouched.
func (c *Composer) Compose(ctx context.Context) Result {
	c.once.Do(func() {
		cfg, err := c.fetcher.FetchConfig(ctx)
		if err != nil {
			return
		}
		c.result.Config = cfg

		// sel and applied are only read once Do has returned nil, after
		// the task ran.
		var (
			sel     *vdom.VNode
			applied bool
		)
		task := func() {
			if ctx.Err() != nil {
				return
			}
			sel = c.apply(cfg)
			applied = true
		}
		if c.loop == nil {
			task()
		} else if err := c.loop.Do(ctx, task); err != nil {
			return
		}
		if !applied {
			return
		}
		c.result.Selector = sel
		c.result.Applied = true
	})
	return c.result
}

// apply updates the brand and, for a hub, appends the project selector,
// which it returns.
func (c *Composer) apply(cfg AppConfig) *vdom.VNode {
	if brand := c.doc.QuerySelector(BrandSelector); brand != nil {
		name := cfg.Name
		if name == "" {
			name = dom.DefaultBrand
		}
		brand.SetText(name)
	}

	if !cfg.Hub || len(cfg.Projects) == 0 {
		return nil
	}
	list := c.doc.QuerySelector(ListSelector)
	if list == nil {
		return nil
	}

	sel := c.buildSelector(cfg.Projects)
	c.doc.AppendChild(list, vdom.Li(sel))
	return sel
}

func (c *Composer) buildSelector(projects []string) *vdom.VNode {
	options := append(
		[]*vdom.VNode{vdom.Option(vdom.Value(""), HubLabel)},
		vdom.Range(projects, func(p string, _ int) *vdom.VNode {
			return vdom.Option(vdom.Value(p), p)
		})...,
	)

	sel := vdom.Select(
		vdom.StyleAttr(selectorStyle),
		vdom.AriaLabel("Project"),
		vdom.OnChange(func(e vdom.Event) { c.selectProject(e.Value) }),
		options,
	)
	dom.SetSelectValue(sel, c.location.URL().Query().Get(ProjectParam))
	return sel
}

func (c *Composer) selectProject(project string) {
	u := c.location.URL()
	u.RawQuery = setQueryParam(u.RawQuery, ProjectParam, project)
	c.location.Navigate(u)
}

// setQueryParam sets key to value in a raw query, or removes it when value
// is empty. The first key pair is replaced in place and later duplicates
// are dropped; other pairs keep their order and encoding.
func setQueryParam(rawQuery, key, value string) string {
	pair := key + "=" + url.QueryEscape(value)
	var (
		out   []string
		found bool
	)
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		name, _, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(name); err != nil || k != key {
			out = append(out, part)
			continue
		}
		if !found && value != "" {
			out = append(out, pair)
		}
		found = true
	}
	if !found && value != "" {
		out = append(out, pair)
	}
	return strings.Join(out, "&")
}
