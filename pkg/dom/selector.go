package dom

import (
	"fmt"
	"strings"

	"github.com/projectman/pmweb/pkg/vdom"
)

// compound is one whitespace-separated part of a selector.
type compound struct {
	tag        string
	id         string
	classes    []string
	firstChild bool
}

// Selector is a parsed CSS selector.
type Selector struct {
	parts []compound
	src   string
}

// String returns the source text of the selector.
func (s *Selector) String() string {
	return s.src
}

// ParseSelector parses a descendant-combinator selector.
func ParseSelector(src string) (*Selector, error) {
	fields := strings.Fields(src)
	if len(fields) == 0 {
		return nil, fmt.Errorf("dom: empty selector")
	}

	sel := &Selector{src: src}
	for _, field := range fields {
		c, err := parseCompound(field)
		if err != nil {
			return nil, fmt.Errorf("dom: selector %q: %w", src, err)
		}
		sel.parts = append(sel.parts, c)
	}
	return sel, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(src string) *Selector {
	sel, err := ParseSelector(src)
	if err != nil {
		panic(err)
	}
	return sel
}

func parseCompound(field string) (compound, error) {
	var c compound

	end := strings.IndexAny(field, ".#:")
	if end == -1 {
		end = len(field)
	}
	c.tag = strings.ToLower(field[:end])
	if c.tag == "*" {
		c.tag = ""
	}

	rest := field[end:]
	for rest != "" {
		marker := rest[0]
		next := strings.IndexAny(rest[1:], ".#:")
		var token string
		if next == -1 {
			token, rest = rest[1:], ""
		} else {
			token, rest = rest[1:next+1], rest[next+1:]
		}
		if token == "" {
			return c, fmt.Errorf("empty token after %q", string(marker))
		}

		switch marker {
		case '.':
			c.classes = append(c.classes, token)
		case '#':
			c.id = token
		case ':':
			if token != "first-child" {
				return c, fmt.Errorf("unsupported pseudo-class :%s", token)
			}
			c.firstChild = true
		}
	}
	return c, nil
}

// matchCompound checks node against c. parent may be nil for the root.
func matchCompound(c compound, node, parent *vdom.VNode) bool {
	if node.Kind != vdom.KindElement {
		return false
	}
	if c.tag != "" && node.Tag != c.tag {
		return false
	}
	if c.id != "" && node.ID() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !node.HasClass(class) {
			return false
		}
	}
	if c.firstChild {
		if parent == nil {
			return false
		}
		siblings := parent.ElementChildren()
		if len(siblings) == 0 || siblings[0] != node {
			return false
		}
	}
	return true
}

// matches reports whether node, whose ancestors are listed nearest-last in
// path, matches the selector.
func (s *Selector) matches(node *vdom.VNode, path []*vdom.VNode) bool {
	last := len(s.parts) - 1
	if !matchCompound(s.parts[last], node, parentOf(path, len(path))) {
		return false
	}

	// Remaining parts must match ancestors in order, nearest first.
	part := last - 1
	for i := len(path) - 1; i >= 0 && part >= 0; i-- {
		if matchCompound(s.parts[part], path[i], parentOf(path, i)) {
			part--
		}
	}
	return part < 0
}

// parentOf returns the parent of path[i] (or of the node below the path
// when i == len(path)).
func parentOf(path []*vdom.VNode, i int) *vdom.VNode {
	if i == 0 {
		return nil
	}
	return path[i-1]
}
