// Package dom provides the document a pmweb page runs against.
//
// A Document wraps a vdom tree with the operations page scripts need:
// element lookup by id and CSS selector, insertion and removal, attribute
// and text updates, select-control values and event dispatch. Documents
// are not safe for concurrent use; a page mutates its document only from
// its event loop.
//
// Supported selectors are compound selectors (tag, .class, #id and
// :first-child in any combination) joined by the descendant combinator:
//
//	doc.QuerySelector(".pm-brand strong")
//	doc.QuerySelector("nav ul:first-child")
package dom
