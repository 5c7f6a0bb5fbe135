// Package render serialises vdom trees to HTML.
//
// The renderer handles text and attribute escaping, void elements and
// boolean attributes, and writes attributes in sorted order so output is
// deterministic. Event handlers are never rendered; an element with a
// handler gets a data-on-<event> marker instead.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// RenderDocument writes a complete page with its DOCTYPE:
//
//	err := renderer.RenderDocument(w, doc.Root())
package render
