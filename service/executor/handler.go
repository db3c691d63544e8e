package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/toolbox"
)

// Output is what a handler produced for a node.
type Output struct {
	// Value is recorded as the node result
	Value interface{}
	// Variables are published as "<nodeId>.<key>"
	Variables map[string]interface{}
	// Port names the branch taken by a multi-output node
	Port string
}

// Handler executes nodes of one or more card types. Recoverable failures are
// returned as *execution.NodeError together with a fallback output.
type Handler interface {
	CardTypes() []graph.CardType
	Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*Output, error)
}

// HandlerFunc adapts a function to a single card type Handler
type HandlerFunc struct {
	Type graph.CardType
	Fn   func(ctx context.Context, node *graph.Node, run *execution.Context) (*Output, error)
}

func (h *HandlerFunc) CardTypes() []graph.CardType { return []graph.CardType{h.Type} }

func (h *HandlerFunc) Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*Output, error) {
	return h.Fn(ctx, node, run)
}

// DefaultTimeout bounds a collaborator call made by a handler
const DefaultTimeout = 30 * time.Second

// Timeout returns the node level "timeoutMs" override or fallback
func Timeout(node *graph.Node, fallback time.Duration) time.Duration {
	if node != nil {
		if value, ok := node.Data["timeoutMs"]; ok {
			if ms, err := toolbox.ToInt(value); err == nil && ms > 0 {
				return time.Duration(ms) * time.Millisecond
			}
		}
	}
	if fallback <= 0 {
		return DefaultTimeout
	}
	return fallback
}

// Call runs fn with a context bounded by timeout and returns as soon as
// either fn returns or the bound expires. On expiry the error wraps
// context.DeadlineExceeded even when fn ignores its context; fn keeps running
// in the background and its late result is discarded.
func Call[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(callCtx)
		done <- outcome{value: value, err: err}
	}()
	select {
	case result := <-done:
		cancel()
		return result.value, result.err
	case <-callCtx.Done():
		cancel()
		var zero T
		err := callCtx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			return zero, fmt.Errorf("call exceeded %v: %w", timeout, err)
		}
		return zero, err
	}
}
