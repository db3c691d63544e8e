package execution

import (
	"github.com/viant/hireflow/internal/clock"
	"github.com/viant/hireflow/model/graph"
)

// Status is the overall outcome of a run
type Status string

const (
	// StatusCompleted means the run reached the end of its schedule, possibly
	// with per-node errors.
	StatusCompleted Status = "completed"
	// StatusFailed means the run was rejected before any node executed.
	StatusFailed Status = "failed"
)

type (
	// Result is the report of one run
	Result struct {
		Success         bool                   `json:"success" yaml:"success"`
		Status          Status                 `json:"status" yaml:"status"`
		Results         map[string]interface{} `json:"results" yaml:"results"`
		Errors          []*ErrorRecord         `json:"errors" yaml:"errors"`
		ExecutionTimeMs int64                  `json:"executionTimeMs" yaml:"executionTimeMs"`
		ExecutionID     string                 `json:"executionId,omitempty" yaml:"executionId,omitempty"`
		WorkflowID      string                 `json:"workflowId,omitempty" yaml:"workflowId,omitempty"`
		JobID           string                 `json:"jobId,omitempty" yaml:"jobId,omitempty"`
		Order           []string               `json:"order,omitempty" yaml:"order,omitempty"`
		Nodes           []*NodeReport          `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	}

	// NodeReport is the terminal state of one node
	NodeReport struct {
		NodeID   string    `json:"nodeId" yaml:"nodeId"`
		CardType string    `json:"cardType" yaml:"cardType"`
		State    NodeState `json:"state" yaml:"state"`
		Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
	}
)

// Node returns report for node id
func (r *Result) Node(nodeID string) *NodeReport {
	for _, node := range r.Nodes {
		if node.NodeID == nodeID {
			return node
		}
	}
	return nil
}

// Report builds the run result; nodes are reported in the supplied order.
func (c *Context) Report(nodes []*graph.Node) *Result {
	errs := c.Errors()
	ret := &Result{
		Success:         len(errs) == 0,
		Status:          StatusCompleted,
		Results:         c.Results(),
		Errors:          errs,
		ExecutionTimeMs: clock.SinceMs(c.StartedAt),
		ExecutionID:     c.ID,
		WorkflowID:      c.WorkflowID,
		Order:           c.Order(),
	}
	if c.Seed != nil {
		ret.JobID = c.Seed.JobID
	}
	if ret.Errors == nil {
		ret.Errors = []*ErrorRecord{}
	}
	failed := map[string]string{}
	for _, record := range errs {
		if record.NodeID != "" && record.Severity == SeverityError {
			failed[record.NodeID] = record.Message
		}
	}
	for _, node := range nodes {
		ret.Nodes = append(ret.Nodes, &NodeReport{
			NodeID:   node.ID,
			CardType: node.CardType.String(),
			State:    c.State(node.ID),
			Error:    failed[node.ID],
		})
	}
	return ret
}

// Failed builds the report of a run rejected before any node executed.
func (c *Context) Failed(kind ErrorKind, err error) *Result {
	c.Record("", kind, SeverityError, err.Error())
	return &Result{
		Success:         false,
		Status:          StatusFailed,
		Results:         map[string]interface{}{},
		Errors:          c.Errors(),
		ExecutionTimeMs: clock.SinceMs(c.StartedAt),
		ExecutionID:     c.ID,
		WorkflowID:      c.WorkflowID,
		JobID:           c.Seed.JobID,
	}
}
