// Package vdom provides the in-memory node tree pmweb pages are built from.
//
// A page is a tree of VNodes: elements, text, fragments and raw HTML.
// Props holds attributes and event handlers. The tree is mutable; package
// dom layers document operations (lookup, insertion, event dispatch) on top
// of it and package render serialises it to HTML.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Li(
//	    Select(Class("pm-project-switcher"),
//	        Option(Value(""), Text("Hub (all)")),
//	        OnChange(func(e Event) { ... }),
//	    ),
//	)
//
// Arguments may be Attr, []Attr, EventHandler, *VNode, []*VNode or a string
// (shorthand for a text child). nil arguments are ignored so conditional
// attributes can be written inline.
package vdom
