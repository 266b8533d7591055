// Package stringlist decodes the list-valued text columns (skills, interests,
// required_skills). Rows written by different versions of the application hold
// either a JSON array, a comma-separated string or a bare scalar, so decoding
// accepts all three and falls back to an empty list instead of failing.
package stringlist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxNesting bounds how many times a JSON-encoded string is unwrapped
const maxNesting = 2

// Parse decodes a stored list value. It never returns nil.
func Parse(raw string) []string {
	return parse(raw, 0)
}

func parse(raw string, depth int) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []string{}
	}

	switch trimmed[0] {
	case '[':
		var elements []any
		if err := json.Unmarshal([]byte(trimmed), &elements); err != nil {
			return []string{}
		}
		result := make([]string, 0, len(elements))
		for _, e := range elements {
			if s := stringify(e); s != "" {
				result = append(result, s)
			}
		}
		return result
	case '"':
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return []string{}
		}
		if depth >= maxNesting {
			return splitCSV(inner)
		}
		return parse(inner, depth+1)
	}

	return splitCSV(trimmed)
}

// stringify converts a decoded JSON array element to its string form
func stringify(v any) string {
	switch e := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(e)
	case float64, bool:
		return fmt.Sprint(e)
	default:
		b, err := json.Marshal(e)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Encode renders a list in the canonical stored form (a JSON array)
func Encode(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	b, err := json.Marshal(cleaned)
	if err != nil {
		// Marshalling a []string cannot fail
		return "[]"
	}
	return string(b)
}
