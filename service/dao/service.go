// Package dao defines the storage contract for run records.
package dao

import (
	"context"
)

// Service persists entities of type T keyed by K
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// List returns the entities matching all parameters
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
