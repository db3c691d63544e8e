package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph reports a dangling edge, a duplicate or empty node id.
	ErrInvalidGraph = errors.New("invalid workflow graph")
	// ErrCyclicGraph reports a graph that cannot be topologically ordered.
	ErrCyclicGraph = errors.New("cyclic workflow graph")
)

// Error wraps a structural graph failure with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Invalidf returns an ErrInvalidGraph error
func Invalidf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

// CycleError returns an ErrCyclicGraph error naming the unordered nodes
func CycleError(nodeIDs []string) error {
	msg := "nodes left unordered"
	if len(nodeIDs) > 0 {
		msg += ": " + strings.Join(nodeIDs, ", ")
	}
	return &Error{Kind: ErrCyclicGraph, Msg: msg}
}
