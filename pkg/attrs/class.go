package attrs

import (
	"fmt"
	"strings"
)

// NormalizeClass flattens a class value into an ordered token list.
// Accepted: string, []string, []any, map[string]bool. Map keys are visited
// in sorted order.
func NormalizeClass(v any) ([]string, error) {
	var out []string
	switch c := v.(type) {
	case nil:
	case string:
		out = strings.Fields(c)
	case []string:
		for _, s := range c {
			out = append(out, strings.Fields(s)...)
		}
	case []any:
		for _, item := range c {
			tokens, err := NormalizeClass(item)
			if err != nil {
				return nil, err
			}
			out = append(out, tokens...)
		}
	case map[string]bool:
		for _, k := range sortedKeys(c) {
			if c[k] {
				out = append(out, strings.Fields(k)...)
			}
		}
	default:
		return nil, fmt.Errorf("attrs: unsupported class value %T", v)
	}
	return out, nil
}

// appendClass appends tokens to list, skipping duplicates.
func appendClass(list []string, tokens ...string) []string {
	for _, t := range tokens {
		if !containsToken(list, t) {
			list = append(list, t)
		}
	}
	return list
}

func containsToken(list []string, tok string) bool {
	for _, t := range list {
		if t == tok {
			return true
		}
	}
	return false
}
