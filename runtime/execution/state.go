package execution

// NodeState represents the lifecycle state of a node within one run.
//
//	pending -> skipped
//	pending -> executing -> completed | failed
type NodeState string

const (
	NodeStatePending   NodeState = "pending"
	NodeStateSkipped   NodeState = "skipped"
	NodeStateExecuting NodeState = "executing"
	NodeStateCompleted NodeState = "completed"
	NodeStateFailed    NodeState = "failed"
)

// IsTerminal returns true for skipped, completed and failed
func (s NodeState) IsTerminal() bool {
	switch s {
	case NodeStateSkipped, NodeStateCompleted, NodeStateFailed:
		return true
	}
	return false
}

// CanTransition reports whether a node may move from s to next.
func (s NodeState) CanTransition(next NodeState) bool {
	switch s {
	case NodeStatePending:
		return next == NodeStateSkipped || next == NodeStateExecuting
	case NodeStateExecuting:
		return next == NodeStateCompleted || next == NodeStateFailed
	}
	return false
}
