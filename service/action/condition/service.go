// Package condition implements the condition card: a variable is compared
// with a literal and the node selects its "true" or "false" port.
package condition

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/evaluator"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/runtime/expander"
	"github.com/viant/hireflow/service/executor"
)

// Config is the node configuration
type Config struct {
	// Variable references the operand, e.g. "{2.matchScore}"
	Variable string      `json:"variable"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Service handles condition cards
type Service struct{}

// CardTypes returns the handled card types
func (s *Service) CardTypes() []graph.CardType {
	return []graph.CardType{graph.CardCondition}
}

// Handle evaluates the condition, publishes "<nodeId>.result" and selects
// the port. An absent operand evaluates to false and is reported as a
// MissingVariable warning.
func (s *Service) Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*executor.Output, error) {
	config := &Config{}
	if err := executor.Decode(node, config); err != nil {
		return result(false), err
	}
	if config.Operator == "" {
		config.Operator = string(evaluator.Eq)
	}
	key := expander.Key(config.Variable)
	if key == "" {
		return result(false), fmt.Errorf("condition node %s: variable is not configured", node.ID)
	}
	operand, ok := s.operand(config.Variable, key, run)
	if !ok {
		return result(false), execution.MissingVariable(key)
	}
	expected := config.Value
	if text, ok := expected.(string); ok {
		expected = expander.Expand(text, run.Variables.Lookup)
	}
	matched, err := evaluator.Compare(operand, config.Operator, expected)
	if err != nil {
		return result(false), fmt.Errorf("condition node %s: %w", node.ID, err)
	}
	return result(matched), nil
}

// operand resolves a single reference to its typed value and falls back to
// template expansion for composite references such as "{a}-{b}".
func (s *Service) operand(variable, key string, run *execution.Context) (interface{}, bool) {
	if !strings.Contains(key, "{") {
		if value, ok := run.Variables.Get(key); ok {
			return value.Interface(), true
		}
		return nil, false
	}
	if missing := expander.Unresolved(variable, run.Variables.Lookup); len(missing) > 0 {
		return nil, false
	}
	return expander.Expand(variable, run.Variables.Lookup), true
}

func result(matched bool) *executor.Output {
	port := graph.PortFalse
	if matched {
		port = graph.PortTrue
	}
	return &executor.Output{Value: matched, Variables: map[string]interface{}{"result": matched}, Port: port}
}

// New creates a condition handler
func New() *Service {
	return &Service{}
}
