package dom

import (
	"github.com/projectman/pmweb/pkg/vdom"
)

// Document is a mutable page tree.
type Document struct {
	root *vdom.VNode
}

// New wraps root in a Document.
func New(root *vdom.VNode) *Document {
	return &Document{root: root}
}

// Root returns the root node.
func (d *Document) Root() *vdom.VNode {
	return d.root
}

// DocumentElement returns the <html> element, or the root when the tree
// has no <html>.
func (d *Document) DocumentElement() *vdom.VNode {
	if html := d.firstByTag("html"); html != nil {
		return html
	}
	return d.root
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *vdom.VNode {
	return d.firstByTag("body")
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *vdom.VNode {
	return d.firstByTag("head")
}

func (d *Document) firstByTag(tag string) *vdom.VNode {
	var found *vdom.VNode
	vdom.Walk(d.root, func(node, _ *vdom.VNode) bool {
		if found != nil {
			return false
		}
		if node.Kind == vdom.KindElement && node.Tag == tag {
			found = node
			return false
		}
		return true
	})
	return found
}

// GetElementByID returns the first element with the given id, or nil.
func (d *Document) GetElementByID(id string) *vdom.VNode {
	var found *vdom.VNode
	vdom.Walk(d.root, func(node, _ *vdom.VNode) bool {
		if found != nil {
			return false
		}
		if node.Kind == vdom.KindElement && node.ID() == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// QuerySelector returns the first element in document order matching
// selector, or nil. An invalid selector matches nothing.
func (d *Document) QuerySelector(selector string) *vdom.VNode {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	matches := d.query(sel, true)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// QuerySelectorAll returns every element matching selector in document
// order.
func (d *Document) QuerySelectorAll(selector string) []*vdom.VNode {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil
	}
	return d.query(sel, false)
}

func (d *Document) query(sel *Selector, first bool) []*vdom.VNode {
	var matches []*vdom.VNode
	var visit func(node *vdom.VNode, path []*vdom.VNode) bool
	visit = func(node *vdom.VNode, path []*vdom.VNode) bool {
		if node.Kind == vdom.KindElement && sel.matches(node, path) {
			matches = append(matches, node)
			if first {
				return false
			}
		}
		if node.Kind == vdom.KindElement || node.Kind == vdom.KindFragment {
			childPath := path
			if node.Kind == vdom.KindElement {
				childPath = append(path[:len(path):len(path)], node)
			}
			for _, child := range node.Children {
				if !visit(child, childPath) {
					return false
				}
			}
		}
		return true
	}
	if d.root != nil {
		visit(d.root, nil)
	}
	return matches
}

// Parent returns the element or fragment containing node, or nil.
func (d *Document) Parent(node *vdom.VNode) *vdom.VNode {
	var found *vdom.VNode
	vdom.Walk(d.root, func(n, parent *vdom.VNode) bool {
		if found != nil {
			return false
		}
		if n == node {
			found = parent
			return false
		}
		return true
	})
	return found
}

// Contains reports whether node is part of the document.
func (d *Document) Contains(node *vdom.VNode) bool {
	return node == d.root || d.Parent(node) != nil
}

// AppendChild appends child to parent.
func (d *Document) AppendChild(parent, child *vdom.VNode) {
	if parent == nil || child == nil {
		return
	}
	parent.Children = append(parent.Children, child)
}

// Remove detaches node from its parent. It reports whether node was found.
func (d *Document) Remove(node *vdom.VNode) bool {
	parent := d.Parent(node)
	if parent == nil {
		return false
	}
	for i, child := range parent.Children {
		if child == node {
			parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceChildren swaps the children of target for nodes.
func (d *Document) ReplaceChildren(target *vdom.VNode, nodes ...*vdom.VNode) {
	if target == nil {
		return
	}
	target.Children = append([]*vdom.VNode(nil), nodes...)
}
