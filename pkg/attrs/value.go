package attrs

import (
	"fmt"
	"strconv"
	"strings"
)

// booleanAttrs are attributes whose presence alone means true.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nomodule":        true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttr reports whether name is an HTML boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[strings.ToLower(name)]
}

// enumerated reports whether a bool value for key must be spelled out as
// "true"/"false" rather than rendered as presence-only.
func enumerated(key string) bool {
	switch key {
	case "draggable", "contenteditable", "spellcheck":
		return true
	}
	return strings.HasPrefix(key, "aria-") || strings.HasPrefix(key, "data-")
}

// Stringify converts an attribute value to its serialized form. The second
// result is false when the attribute must be omitted entirely. A true
// boolean on a presence-only attribute yields ("", true).
//
// Both render paths go through Stringify so that a value produces the same
// attribute on the live DOM and in the server string.
func Stringify(key string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		if enumerated(key) && !IsBooleanAttr(key) {
			return strconv.FormatBool(v), true
		}
		return "", v
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
