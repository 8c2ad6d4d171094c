package vdom

import "testing"

func TestGlobalAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attr  Attr
		key   string
		value any
	}{
		{"ID", ID("main"), "id", "main"},
		{"Class single", Class("card"), "class", "card"},
		{"Class multiple", Class("card", "active"), "class", "card active"},
		{"StyleAttr", StyleAttr("color: red"), "style", "color: red"},
		{"Data", Data("id", "7"), "data-id", "7"},
		{"Role", Role("button"), "role", "button"},
		{"AriaHidden", AriaHidden(true), "aria-hidden", true},
		{"Href", Href("/x"), "href", "/x"},
		{"Hidden", Hidden(), "hidden", true},
		{"RawAttr", RawAttr("x-custom", 3), "x-custom", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.attr.Key, tt.key)
			}
			if tt.attr.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.attr.Value, tt.value)
			}
		})
	}
}

func TestAttrIfEmpty(t *testing.T) {
	if !AttrIf(false, ID("x")).IsEmpty() {
		t.Error("AttrIf(false) should be empty")
	}
	if AttrIf(true, ID("x")).IsEmpty() {
		t.Error("AttrIf(true) should not be empty")
	}
}
