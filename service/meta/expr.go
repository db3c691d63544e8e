package meta

import (
	"os"
	"regexp"
)

var envExpr = regexp.MustCompile(`\$\{env\.([A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${env.KEY} with the value of environment variable KEY.
// ${env.KEY:-fallback} yields fallback when KEY is unset or empty.
// Malformed expressions are left untouched.
func ExpandEnv(value string) string {
	return envExpr.ReplaceAllStringFunc(value, func(match string) string {
		parts := envExpr.FindStringSubmatch(match)
		if v := os.Getenv(parts[1]); v != "" || parts[1] == "" {
			return v
		}
		return parts[2]
	})
}
