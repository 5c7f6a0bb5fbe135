package dom

import "github.com/projectman/pmweb/pkg/vdom"

// Options returns the <option> elements of a select, in order.
func Options(sel *vdom.VNode) []*vdom.VNode {
	var out []*vdom.VNode
	vdom.Walk(sel, func(node, _ *vdom.VNode) bool {
		if node.Kind == vdom.KindElement && node.Tag == "option" {
			out = append(out, node)
			return false
		}
		return true
	})
	return out
}

// optionValue is the option's value attribute, falling back to its text.
func optionValue(opt *vdom.VNode) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return opt.TextContent()
}

// SelectValue returns the value of the selected option of sel. With no
// option marked selected the first option is current; with no options the
// value is "".
func SelectValue(sel *vdom.VNode) string {
	opts := Options(sel)
	for _, opt := range opts {
		if _, ok := opt.Attr("selected"); ok {
			return optionValue(opt)
		}
	}
	if len(opts) > 0 {
		return optionValue(opts[0])
	}
	return ""
}

// SetSelectValue marks the first option whose value equals value as
// selected and clears the others. It reports whether an option matched;
// when none does, no option stays marked.
func SetSelectValue(sel *vdom.VNode, value string) bool {
	matched := false
	for _, opt := range Options(sel) {
		if !matched && optionValue(opt) == value {
			opt.SetAttr("selected", true)
			matched = true
			continue
		}
		opt.RemoveAttr("selected")
	}
	return matched
}

// Dispatch delivers an event to target's handler for eventType. For
// "change" on a select, the select's value is set to value first. It
// reports whether a handler ran.
func (d *Document) Dispatch(target *vdom.VNode, eventType, value string) bool {
	if target == nil {
		return false
	}
	if eventType == "change" && target.Tag == "select" {
		SetSelectValue(target, value)
		value = SelectValue(target)
	}
	handler := target.HandlerFor(eventType)
	if handler == nil {
		return false
	}
	handler(vdom.Event{Type: eventType, Target: target, Value: value})
	return true
}
