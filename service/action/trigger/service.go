// Package trigger implements the new-submission card: it starts a run by
// publishing the submission payload without calling any collaborator.
package trigger

import (
	"context"

	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/executor"
)

// Result is the trigger node result: the seed payload and correlation ids.
type Result struct {
	Candidate   model.Candidate        `json:"candidate"`
	Document    model.Document         `json:"document"`
	JobID       string                 `json:"jobId,omitempty"`
	WorkflowID  string                 `json:"workflowId,omitempty"`
	ExecutionID string                 `json:"executionId,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Service handles trigger cards
type Service struct{}

// CardTypes returns the handled card types
func (s *Service) CardTypes() []graph.CardType {
	return []graph.CardType{graph.CardNewSubmission}
}

// Handle publishes the seed as the node result and its non-empty fields as
// "<nodeId>.<field>" variables
func (s *Service) Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*executor.Output, error) {
	seed := run.Seed.Clone()
	if seed == nil {
		seed = &model.Seed{}
	}
	result := &Result{
		Candidate:   seed.Candidate,
		Document:    seed.Document,
		JobID:       seed.JobID,
		WorkflowID:  seed.WorkflowID,
		ExecutionID: seed.ExecutionID,
		Data:        seed.Data,
	}
	variables := seed.Fields()
	for key, value := range seed.Correlation() {
		variables[key] = value
	}
	for key, value := range seed.Data {
		variables[key] = value
	}
	return &executor.Output{Value: result, Variables: variables}, nil
}

// New creates a trigger handler
func New() *Service {
	return &Service{}
}
