package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateElement(t *testing.T) {
	var nilNode *VNode
	node := Div(
		ID("main"),
		Class("card", "wide"),
		nil,
		[]Attr{Data("theme", "dark"), {}},
		"hello",
		nilNode,
		[]*VNode{Span("a"), nil, Span("b")},
		OnClick(func(Event) {}),
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("node = %v %q", node.Kind, node.Tag)
	}
	if node.ID() != "main" {
		t.Errorf("ID() = %q", node.ID())
	}
	if !node.HasClass("card") || !node.HasClass("wide") || node.HasClass("car") {
		t.Errorf("Classes() = %v", node.Classes())
	}
	if v, _ := node.Attr("data-theme"); v != "dark" {
		t.Errorf("data-theme = %q", v)
	}
	if len(node.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(node.Children))
	}
	if node.TextContent() != "helloab" {
		t.Errorf("TextContent() = %q", node.TextContent())
	}
	if !node.IsInteractive() {
		t.Error("node with onclick should be interactive")
	}
	if node.HandlerFor("click") == nil {
		t.Error("HandlerFor(click) = nil")
	}
	if node.HandlerFor("change") != nil {
		t.Error("HandlerFor(change) should be nil")
	}
}

func TestAttr(t *testing.T) {
	node := Option(Value("alpha"), Selected(), Attribute("tabindex", 3), Attribute("hidden", false))

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"value", "alpha", true},
		{"selected", "", true},
		{"tabindex", "3", true},
		{"hidden", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := node.Attr(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Attr(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	node.SetAttr("value", "beta")
	node.RemoveAttr("selected")
	if v, _ := node.Attr("value"); v != "beta" {
		t.Errorf("value after SetAttr = %q", v)
	}
	if _, ok := node.Attr("selected"); ok {
		t.Error("selected should be removed")
	}

	var empty VNode
	empty.SetAttr("id", "x")
	if empty.ID() != "x" {
		t.Error("SetAttr should allocate Props")
	}
}

func TestSetTextAndElementChildren(t *testing.T) {
	ul := Ul(Li("one"), Text(" "), Fragment(Li("two"), Li("three")))
	if got := len(ul.ElementChildren()); got != 3 {
		t.Errorf("len(ElementChildren()) = %d, want 3", got)
	}

	strong := Strong("ProjectMan")
	strong.SetText("Acme")
	if strong.TextContent() != "Acme" || len(strong.Children) != 1 {
		t.Errorf("after SetText: %q (%d children)", strong.TextContent(), len(strong.Children))
	}
}

func TestWalk(t *testing.T) {
	tree := Div(ID("root"), Ul(Li("a"), Li("b")), P("c"))

	var tags []string
	Walk(tree, func(node, parent *VNode) bool {
		if node.Kind == KindElement {
			tags = append(tags, node.Tag)
		}
		return node.Tag != "ul"
	})

	want := []string{"div", "ul", "p"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags = %v, want %v", tags, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if If(false, Div()) != nil {
		t.Error("If(false) should be nil")
	}
	if If(true, Div()) == nil {
		t.Error("If(true) should return the node")
	}
	if Textf("%d items", 3).Text != "3 items" {
		t.Error("Textf formatting")
	}
	if Raw("<b>x</b>").Kind != KindRaw {
		t.Error("Raw kind")
	}

	nodes := Range([]string{"alpha", "beta"}, func(p string, i int) *VNode {
		return Option(Value(p), p)
	})
	if len(nodes) != 2 || nodes[1].TextContent() != "beta" {
		t.Errorf("Range = %v", nodes)
	}
	if !IsVoidElement("input") || IsVoidElement("select") {
		t.Error("IsVoidElement")
	}
}
