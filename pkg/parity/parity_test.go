package parity_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vdirective/pkg/parity"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		client string
		server string
		want   []parity.Diff
	}{
		{
			name:   "style formatting",
			client: `<div style="display: none;"></div>`,
			server: `<div style="display:none;"></div>`,
		},
		{
			name:   "class order",
			client: `<p class="b a"></p>`,
			server: `<p class="a b"></p>`,
		},
		{
			name:   "empty style is absent",
			client: `<div style=""></div>`,
			server: `<div></div>`,
		},
		{
			name:   "whitespace between elements",
			client: "<ul>\n  <li>x</li>\n</ul>",
			server: `<ul><li>x</li></ul>`,
		},
		{
			name:   "missing style",
			client: `<div style="display: none;"></div>`,
			server: `<div></div>`,
			want: []parity.Diff{
				{Path: "div[0]", Kind: parity.KindAttribute, Name: "style", Client: "display:none;", Server: "<absent>"},
			},
		},
		{
			name:   "text differs",
			client: `<span>a</span>`,
			server: `<span>b</span>`,
			want: []parity.Diff{
				{Path: "span[0]", Kind: parity.KindText, Client: "a", Server: "b"},
			},
		},
		{
			name:   "tag differs",
			client: `<div><b></b></div>`,
			server: `<div><i></i></div>`,
			want: []parity.Diff{
				{Path: "div[0]>b[0]", Kind: parity.KindTag, Client: "<b>", Server: "<i>"},
			},
		},
		{
			name:   "child count",
			client: `<div><b></b><b></b></div>`,
			server: `<div><b></b></div>`,
			want: []parity.Diff{
				{Path: "div[0]", Kind: parity.KindChildren, Client: "2", Server: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parity.Compare(tt.client, tt.server)
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if diff := cmp.Diff(tt.want, res.Diffs); diff != "" {
				t.Errorf("diffs mismatch (-want +got):\n%s", diff)
			}
			if res.Equal() != (len(tt.want) == 0) {
				t.Errorf("Equal() = %v", res.Equal())
			}
		})
	}
}

func TestCompareIgnore(t *testing.T) {
	res, err := parity.CompareWith(
		`<div data-v-app=""><p></p></div>`,
		`<div><p></p></div>`,
		parity.Options{Ignore: []string{"data-v-app"}},
	)
	if err != nil {
		t.Fatalf("CompareWith: %v", err)
	}
	if !res.Equal() {
		t.Errorf("expected equivalent, got:\n%s", res)
	}
}
