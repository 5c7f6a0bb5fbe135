package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <select>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindRaw                   // Raw HTML (server fragments)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node in a page tree.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Text     string   // For KindText and KindRaw
}

// Props holds attributes and event handlers.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// Attr returns an attribute rendered as a string. Boolean attributes that
// are set report "" with ok true; false booleans report ok false.
func (v *VNode) Attr(key string) (string, bool) {
	if v == nil || v.Props == nil {
		return "", false
	}
	value, ok := v.Props[key]
	if !ok || value == nil {
		return "", false
	}
	switch val := value.(type) {
	case string:
		return val, true
	case bool:
		return "", val
	case HandlerFunc, func(Event):
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

// SetAttr sets an attribute, allocating Props if needed.
func (v *VNode) SetAttr(key string, value any) {
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[key] = value
}

// RemoveAttr deletes an attribute.
func (v *VNode) RemoveAttr(key string) {
	delete(v.Props, key)
}

// ID returns the id attribute.
func (v *VNode) ID() string {
	id, _ := v.Attr("id")
	return id
}

// Classes returns the class list.
func (v *VNode) Classes() []string {
	class, _ := v.Attr("class")
	return strings.Fields(class)
}

// HasClass reports whether class is in the node's class list.
func (v *VNode) HasClass(class string) bool {
	for _, c := range v.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the node and its
// descendants. Raw HTML contributes its source text.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case KindText, KindRaw:
		return v.Text
	}
	var b strings.Builder
	for _, child := range v.Children {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// SetText replaces the node's children with a single text node.
func (v *VNode) SetText(text string) {
	v.Children = []*VNode{Text(text)}
}

// ElementChildren returns the element children, skipping text and raw
// nodes. Fragment children are flattened.
func (v *VNode) ElementChildren() []*VNode {
	var out []*VNode
	for _, child := range v.Children {
		switch child.Kind {
		case KindElement:
			out = append(out, child)
		case KindFragment:
			out = append(out, child.ElementChildren()...)
		}
	}
	return out
}

// Walk calls fn for v and every descendant in document order, passing each
// node's parent. Returning false from fn skips that node's subtree.
func Walk(v *VNode, fn func(node, parent *VNode) bool) {
	walk(v, nil, fn)
}

func walk(v, parent *VNode, fn func(node, parent *VNode) bool) {
	if v == nil {
		return
	}
	if !fn(v, parent) {
		return
	}
	for _, child := range v.Children {
		walk(child, v, fn)
	}
}
