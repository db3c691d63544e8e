// Package expander resolves {key} placeholders in node templates against the
// run variable store.
package expander

import (
	"regexp"
	"strings"
)

// Lookup returns the string form of a variable; ok is false when absent.
type Lookup func(key string) (string, bool)

var placeholderExpr = regexp.MustCompile(`\{([A-Za-z0-9_\-]+(?:\.[A-Za-z0-9_\-]+)*)\}`)

// Expand replaces every {key} placeholder with its looked-up value. A
// placeholder whose key is absent is left untouched.
func Expand(template string, lookup Lookup) string {
	if template == "" || !strings.Contains(template, "{") {
		return template
	}
	return placeholderExpr.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := lookup(key); ok {
			return value
		}
		return match
	})
}

// ExpandAll expands each template
func ExpandAll(templates []string, lookup Lookup) []string {
	result := make([]string, 0, len(templates))
	for _, template := range templates {
		result = append(result, Expand(template, lookup))
	}
	return result
}

// Placeholders returns the keys referenced by template in order of appearance
func Placeholders(template string) []string {
	matches := placeholderExpr.FindAllStringSubmatch(template, -1)
	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		keys = append(keys, match[1])
	}
	return keys
}

// Unresolved returns the referenced keys that lookup cannot resolve
func Unresolved(template string, lookup Lookup) []string {
	var missing []string
	for _, key := range Placeholders(template) {
		if _, ok := lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Key extracts a variable key from a reference written either as a single
// placeholder ("{2.matchScore}") or as a bare key ("2.matchScore").
func Key(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "{") && strings.HasSuffix(ref, "}") {
		return strings.TrimSpace(ref[1 : len(ref)-1])
	}
	return ref
}
