package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/hireflow/internal/clock"
)

// Delta is a signed counter change
type Delta struct {
	Total     int
	Completed int
	Skipped   int
	Failed    int
	Running   int
	Pending   int
}

// Progress keeps node counters of one run. It is safe for concurrent use.
type Progress struct {
	ExecutionID string    `json:"executionId"`
	Workflow    string    `json:"workflow"`
	StartedAt   time.Time `json:"startedAt"`

	TotalNodes     int `json:"totalNodes"`
	CompletedNodes int `json:"completedNodes"`
	SkippedNodes   int `json:"skippedNodes"`
	FailedNodes    int `json:"failedNodes"`
	RunningNodes   int `json:"runningNodes"`
	PendingNodes   int `json:"pendingNodes"`

	mux      sync.Mutex
	onChange func(Progress)
}

// Update applies d. The onChange callback receives a copy, outside the lock.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mux.Lock()
	p.TotalNodes += d.Total
	p.CompletedNodes += d.Completed
	p.SkippedNodes += d.Skipped
	p.FailedNodes += d.Failed
	p.RunningNodes += d.Running
	p.PendingNodes += d.Pending
	snapshot := p.copy()
	cb := p.onChange
	p.mux.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Done returns true once no node is pending or running
func (p Progress) Done() bool {
	return p.PendingNodes == 0 && p.RunningNodes == 0
}

// Snapshot returns a copy of the counters
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.copy()
}

func (p *Progress) copy() Progress {
	return Progress{
		ExecutionID:    p.ExecutionID,
		Workflow:       p.Workflow,
		StartedAt:      p.StartedAt,
		TotalNodes:     p.TotalNodes,
		CompletedNodes: p.CompletedNodes,
		SkippedNodes:   p.SkippedNodes,
		FailedNodes:    p.FailedNodes,
		RunningNodes:   p.RunningNodes,
		PendingNodes:   p.PendingNodes,
	}
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker embeds a new tracker in a derived context
func WithNewTracker(ctx context.Context, executionID, workflow string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		ExecutionID: executionID,
		Workflow:    workflow,
		StartedAt:   clock.Now(),
		onChange:    onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext returns the tracker carried by ctx
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot returns the counters of the tracker carried by ctx
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx applies d to the tracker carried by ctx, if any
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
