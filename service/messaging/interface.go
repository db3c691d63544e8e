// Package messaging defines the queue contract used to hand submitted runs
// to workers.
package messaging

import (
	"context"
	"errors"
)

// ErrClosed is returned by a queue after Close
var ErrClosed = errors.New("queue closed")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume blocks until a message is available, ctx is done or the queue
	// is closed
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// ID returns the message id
	ID() string

	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message; the queue decides
	// whether to redeliver it
	Nack(err error) error
}
