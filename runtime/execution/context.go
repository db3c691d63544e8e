package execution

import (
	"fmt"
	"time"

	"github.com/viant/hireflow/internal/clock"
	"github.com/viant/hireflow/model"
)

// Context is the state of a single run: variables, skipped nodes, node
// results, error records and node states. A Context is created per run and
// never shared between runs.
type Context struct {
	ID         string
	WorkflowID string
	Seed       *model.Seed
	Variables  *Store

	skipped   map[string]bool
	results   map[string]interface{}
	errors    []*ErrorRecord
	states    map[string]NodeState
	order     []string
	StartedAt time.Time
}

// NewContext creates a run context seeded with seed variables
func NewContext(id string, seed *model.Seed) *Context {
	if seed == nil {
		seed = &model.Seed{}
	}
	ret := &Context{
		ID:        id,
		Seed:      seed,
		Variables: NewStore(),
		skipped:   make(map[string]bool),
		results:   make(map[string]interface{}),
		states:    make(map[string]NodeState),
		StartedAt: clock.Now(),
	}
	ret.Variables.Apply(seed.Variables())
	return ret
}

// Skip marks node as skipped; it returns false if the node already left pending.
func (c *Context) Skip(nodeID string) bool {
	if err := c.Transition(nodeID, NodeStateSkipped); err != nil {
		return false
	}
	c.skipped[nodeID] = true
	return true
}

// IsSkipped returns true if node was skipped
func (c *Context) IsSkipped(nodeID string) bool {
	return c.skipped[nodeID]
}

// SkippedCount returns number of skipped nodes
func (c *Context) SkippedCount() int {
	return len(c.skipped)
}

// SetResult records node output
func (c *Context) SetResult(nodeID string, value interface{}) {
	c.results[nodeID] = value
}

// Result returns node output
func (c *Context) Result(nodeID string) (interface{}, bool) {
	value, ok := c.results[nodeID]
	return value, ok
}

// Results returns a copy of all node outputs
func (c *Context) Results() map[string]interface{} {
	result := make(map[string]interface{}, len(c.results))
	for k, v := range c.results {
		result[k] = v
	}
	return result
}

// Record appends an error record
func (c *Context) Record(nodeID string, kind ErrorKind, severity Severity, message string) {
	c.errors = append(c.errors, &ErrorRecord{NodeID: nodeID, Kind: kind, Severity: severity, Message: message})
}

// RecordError appends a record classified from err
func (c *Context) RecordError(nodeID string, err error) *NodeError {
	nodeErr := AsNodeError(err)
	if nodeErr == nil {
		return nil
	}
	message := err.Error()
	if nodeErr.Err != nil {
		message = nodeErr.Err.Error()
	}
	c.Record(nodeID, nodeErr.Kind, nodeErr.Severity, message)
	return nodeErr
}

// Errors returns error records in the order they were recorded
func (c *Context) Errors() []*ErrorRecord {
	return append([]*ErrorRecord(nil), c.errors...)
}

// State returns node state, pending if the node has not been touched
func (c *Context) State(nodeID string) NodeState {
	if s, ok := c.states[nodeID]; ok {
		return s
	}
	return NodeStatePending
}

// Transition moves node to next state
func (c *Context) Transition(nodeID string, next NodeState) error {
	current := c.State(nodeID)
	if !current.CanTransition(next) {
		return fmt.Errorf("node %s: invalid transition %s -> %s", nodeID, current, next)
	}
	c.states[nodeID] = next
	if next == NodeStateExecuting {
		c.order = append(c.order, nodeID)
	}
	return nil
}

// Order returns ids of nodes that were dispatched, in dispatch order
func (c *Context) Order() []string {
	return append([]string(nil), c.order...)
}
