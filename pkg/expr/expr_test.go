package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEval(t *testing.T) {
	scope := map[string]any{
		"visible": false,
		"name":    "Ada",
		"user":    map[string]any{"profile": map[string]any{"age": 36}},
	}

	tests := []struct {
		src  string
		want any
	}{
		{"", nil},
		{"true", true},
		{"false", false},
		{"null", nil},
		{"undefined", nil},
		{"'text'", "text"},
		{`"text"`, "text"},
		{"42", 42},
		{"-7", -7},
		{"1.5", 1.5},
		{"visible", false},
		{"!visible", true},
		{"!!name", true},
		{" name ", "Ada"},
		{"user.profile.age", 36},
		{`{"a": 1}`, map[string]any{"a": float64(1)}},
		{"[1, 2]", []any{float64(1), float64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Default.Eval(tt.src, scope)
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.src, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	scope := map[string]any{"user": map[string]any{"name": "x"}, "n": 1}

	tests := []struct {
		src       string
		undefined bool
	}{
		{"missing", true},
		{"user.email", true},
		{"n.field", true},
		{"12abc", false},
		{"{broken", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Default.Eval(tt.src, scope)
			if err == nil {
				t.Fatalf("Eval(%q) should fail", tt.src)
			}
			if got := errors.Is(err, ErrUndefined); got != tt.undefined {
				t.Errorf("errors.Is(err, ErrUndefined) = %v, want %v (err %v)", got, tt.undefined, err)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"0", true},
		{0, false},
		{int64(2), true},
		{0.0, false},
		{math.NaN(), false},
		{map[string]any{}, true},
		{[]any{}, true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.want {
			t.Errorf("Truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{3, "3"},
		{2.5, "2.5"},
		{map[string]any{"a": 1}, `{"a":1}`},
		{[]any{1, "x"}, `[1,"x"]`},
		{int8(4), "4"},
	}

	for _, tt := range tests {
		if got := DisplayString(tt.v); got != tt.want {
			t.Errorf("DisplayString(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestEvaluatorFunc(t *testing.T) {
	ev := EvaluatorFunc(func(src string, scope map[string]any) (any, error) {
		return len(src), nil
	})
	got, err := ev.Eval("abc", nil)
	if err != nil || got != 3 {
		t.Errorf("Eval = %v, %v", got, err)
	}
}
