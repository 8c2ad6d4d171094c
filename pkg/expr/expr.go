// Package expr evaluates directive and attribute value expressions.
//
// Full expression evaluation belongs to the host template language; this
// package only defines the Evaluator boundary and a small default that
// understands literals, negation and dotted lookups into the render scope:
//
//	false            -> false
//	!visible         -> negated truthiness of scope["visible"]
//	user.name        -> scope["user"].(map[string]any)["name"]
//	'text', "text"   -> string
//	42, 1.5          -> int, float64
//	{"a": 1}, [1, 2] -> decoded JSON
package expr

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Evaluator turns an expression into a value for one render pass.
type Evaluator interface {
	Eval(expr string, scope map[string]any) (any, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(expr string, scope map[string]any) (any, error)

// Eval implements Evaluator.
func (f EvaluatorFunc) Eval(expr string, scope map[string]any) (any, error) {
	return f(expr, scope)
}

// ErrUndefined is wrapped by errors for identifiers missing from the scope.
var ErrUndefined = errors.New("undefined identifier")

// Default is the built-in evaluator.
var Default Evaluator = EvaluatorFunc(eval)

func eval(src string, scope map[string]any) (any, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	if strings.HasPrefix(src, "!") {
		v, err := eval(src[1:], scope)
		if err != nil {
			return nil, err
		}
		return !Truthy(v), nil
	}
	switch src {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "undefined", "nil":
		return nil, nil
	}
	if n := len(src); n >= 2 && (src[0] == '\'' || src[0] == '"') && src[n-1] == src[0] {
		return src[1 : n-1], nil
	}
	if src[0] == '{' || src[0] == '[' {
		var v any
		if err := json.Unmarshal([]byte(src), &v); err != nil {
			return nil, fmt.Errorf("expr: %q: %w", src, err)
		}
		return v, nil
	}
	if c := src[0]; c == '-' || (c >= '0' && c <= '9') {
		if i, err := strconv.Atoi(src); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(src, 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("expr: invalid number %q", src)
	}
	return lookup(src, scope)
}

func lookup(path string, scope map[string]any) (any, error) {
	var cur any = scope
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expr: %q: %w", path, ErrUndefined)
		}
		cur, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("expr: %q: %w", path, ErrUndefined)
		}
	}
	return cur, nil
}

// Truthy applies template truthiness: nil, false, 0, NaN and "" are falsy;
// everything else, including empty maps and slices, is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0
	}
	return true
}

// DisplayString converts a value to the text shown by v-text and
// interpolation. Nil renders as "", maps and slices as JSON.
func DisplayString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
