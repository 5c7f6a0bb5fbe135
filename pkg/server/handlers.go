package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/projectman/pmweb/internal/project"
	"github.com/projectman/pmweb/pkg/dom"
	"github.com/projectman/pmweb/pkg/theme"
	"github.com/projectman/pmweb/pkg/toast"
	"github.com/projectman/pmweb/pkg/vdom"
)

// brand returns the name the page and /api/config report.
func (s *Server) brand() string {
	if s.cfg.Name != "" {
		return s.cfg.Name
	}
	return s.project.Name
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	root := dom.Layout(s.brand(), dom.DefaultLinks, s.pageContent(r.URL.Query().Get("project")))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderDocument(w, root); err != nil {
		s.logger.Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// pageContent shows the selected hub sub-project, the hub's project list,
// or the project description.
func (s *Server) pageContent(selected string) *vdom.VNode {
	if selected != "" {
		sub := s.project.ProjectRoot(s.root, selected)
		if sub == "" {
			return vdom.P(vdom.Class("muted"), vdom.Textf("Unknown project %q", selected))
		}
		cfg, err := project.Load(sub)
		if err != nil {
			s.logger.Warn("sub-project load failed", "project", selected, "error", err)
			return vdom.P(vdom.Class("muted"), vdom.Textf("Project %q could not be loaded", selected))
		}
		return projectSummary(cfg)
	}

	if s.project.Hub {
		return vdom.Ul(
			vdom.Class("pm-projects"),
			vdom.Range(s.project.Projects, func(name string, _ int) *vdom.VNode {
				return vdom.Li(vdom.A(vdom.Href("/?"+url.Values{"project": {name}}.Encode()), name))
			}),
		)
	}
	return projectSummary(s.project)
}

func projectSummary(cfg *project.Config) *vdom.VNode {
	return vdom.Div(
		vdom.Class("pm-project"),
		vdom.P(vdom.Strong(cfg.Name), " ", vdom.Span(vdom.Class("muted"), cfg.Prefix)),
		vdom.If(cfg.Description != "", vdom.P(cfg.Description)),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := *s.project
	cfg.Name = s.brand()
	if cfg.Projects == nil {
		cfg.Projects = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		s.logger.Error("encode config failed", "error", err)
	}
}

// handleTheme acknowledges a theme change made in the page. The preference
// itself lives client-side; the response only carries a toast.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	state := theme.State(r.FormValue("theme"))
	if !state.Valid() {
		toast.Error(w, fmt.Sprintf("Unknown theme %q", r.FormValue("theme")))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	toast.Info(w, "Theme set to "+string(state))
	w.WriteHeader(http.StatusNoContent)
}

// handleNotify broadcasts a toast to every page connected to the trigger
// hub and confirms the delivery count to the sender.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	message := r.FormValue("message")
	if message == "" {
		toast.Warning(w, "Message is required")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n := s.hub.Broadcast(toast.Encode(toast.Kind(r.FormValue("type")), message))
	s.logger.Info("toast broadcast", "clients", n)

	toast.Success(w, fmt.Sprintf("Sent to %d clients", n))
	w.WriteHeader(http.StatusNoContent)
}
