package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier; tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// WithPrefix returns prefix + "/" + New(), or New() when prefix is empty.
func WithPrefix(prefix string) string {
	if prefix == "" {
		return New()
	}
	return prefix + "/" + New()
}
