// Package event publishes run lifecycle events over a messaging queue so
// observers can follow screening runs without touching the engine.
package event

import (
	"time"

	"github.com/viant/hireflow/internal/clock"
)

// Type identifies a lifecycle event
type Type string

const (
	RunStarted    Type = "run.started"
	RunRejected   Type = "run.rejected"
	NodeCompleted Type = "node.completed"
	NodeFailed    Type = "node.failed"
	NodeSkipped   Type = "node.skipped"
	RunCompleted  Type = "run.completed"
)

// Context locates an event within a run
type Context struct {
	ExecutionID string `json:"executionId"`
	WorkflowID  string `json:"workflowId,omitempty"`
	NodeID      string `json:"nodeId,omitempty"`
	CardType    string `json:"cardType,omitempty"`
	EventType   Type   `json:"eventType"`
	TimeTakenMs int64  `json:"timeTakenMs,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data,omitempty"`
}

// Type returns the event type or empty when context is missing
func (e *Event[T]) Type() Type {
	if e == nil || e.Context == nil {
		return ""
	}
	return e.Context.EventType
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
