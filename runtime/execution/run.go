package execution

import (
	"sync"
	"time"

	"github.com/viant/hireflow/internal/clock"
	"github.com/viant/hireflow/model"
)

// RunState is the lifecycle state of a persisted run record
type RunState string

const (
	RunStatePending   RunState = "pending"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// IsDone returns true for completed and failed runs
func (s RunState) IsDone() bool {
	return s == RunStateCompleted || s == RunStateFailed
}

// Run is the record of a single workflow execution kept by the runtime
type Run struct {
	ID           string       `json:"id"`
	WorkflowID   string       `json:"workflowId,omitempty"`
	WorkflowName string       `json:"workflowName,omitempty"`
	State        RunState     `json:"state"`
	Seed         *model.Seed  `json:"seed,omitempty"`
	Result       *Result      `json:"result,omitempty"`
	Error        string       `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	StartedAt    *time.Time   `json:"startedAt,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	mux          sync.RWMutex
}

// NewRun creates a pending run record
func NewRun(id string, workflow *model.Workflow, seed *model.Seed) *Run {
	ret := &Run{
		ID:        id,
		State:     RunStatePending,
		Seed:      seed,
		CreatedAt: clock.Now(),
	}
	if workflow != nil {
		ret.WorkflowID = workflow.ID
		ret.WorkflowName = workflow.Name
	}
	return ret
}

// Start marks the run as running
func (r *Run) Start() {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.StartedAt = &now
	r.State = RunStateRunning
}

// Complete stores the result; the record state follows the result status
func (r *Run) Complete(result *Result) {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.CompletedAt = &now
	r.Result = result
	r.State = RunStateCompleted
	if result != nil && result.Status == StatusFailed {
		r.State = RunStateFailed
	}
}

// Fail marks the run as failed
func (r *Run) Fail(err error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.CompletedAt = &now
	if err != nil {
		r.Error = err.Error()
	}
	r.State = RunStateFailed
}

// GetState returns run state
func (r *Run) GetState() RunState {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.State
}

// Clone creates a copy safe to hand out of a store. Result and Seed are
// treated as immutable once the run completed and are shared.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	r.mux.RLock()
	defer r.mux.RUnlock()
	return &Run{
		ID:           r.ID,
		WorkflowID:   r.WorkflowID,
		WorkflowName: r.WorkflowName,
		State:        r.State,
		Seed:         r.Seed,
		Result:       r.Result,
		Error:        r.Error,
		CreatedAt:    r.CreatedAt,
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
	}
}
