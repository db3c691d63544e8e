package execution

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error record
type ErrorKind string

const (
	KindInvalidGraph    ErrorKind = "InvalidGraph"
	KindCyclicGraph     ErrorKind = "CyclicGraph"
	KindAnalysisFailure ErrorKind = "AnalysisFailure"
	KindDeliveryFailure ErrorKind = "DeliveryFailure"
	KindUnknownNodeType ErrorKind = "UnknownNodeType"
	KindMissingVariable ErrorKind = "MissingVariable"
	KindNodeFailure     ErrorKind = "NodeFailure"
)

// Severity distinguishes warnings from errors in the report
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ErrorRecord is a per-node (or run level, when NodeID is empty) error entry.
type ErrorRecord struct {
	NodeID   string    `json:"nodeId,omitempty" yaml:"nodeId,omitempty"`
	Kind     ErrorKind `json:"kind" yaml:"kind"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Message  string    `json:"message" yaml:"message"`
}

// NodeError is returned by node handlers for recoverable failures.
type NodeError struct {
	Kind     ErrorKind
	Severity Severity
	Err      error
}

func (e *NodeError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// AnalysisFailure wraps an analysis collaborator failure
func AnalysisFailure(err error) error {
	return &NodeError{Kind: KindAnalysisFailure, Severity: SeverityError, Err: err}
}

// DeliveryFailure wraps a messaging collaborator failure
func DeliveryFailure(err error) error {
	return &NodeError{Kind: KindDeliveryFailure, Severity: SeverityError, Err: err}
}

// MissingVariable reports an absent variable; it is a warning
func MissingVariable(key string) error {
	return &NodeError{Kind: KindMissingVariable, Severity: SeverityWarning, Err: fmt.Errorf("variable %q is not set", key)}
}

// UnknownNodeType reports a card type without a registered handler
func UnknownNodeType(cardType string) error {
	return &NodeError{Kind: KindUnknownNodeType, Severity: SeverityWarning, Err: fmt.Errorf("no handler for card type %q", cardType)}
}

// AsNodeError classifies err; unclassified errors become NodeFailure errors.
func AsNodeError(err error) *NodeError {
	if err == nil {
		return nil
	}
	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		return nodeErr
	}
	return &NodeError{Kind: KindNodeFailure, Severity: SeverityError, Err: err}
}
