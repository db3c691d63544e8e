package hireflow_test

import (
	"context"

	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/executor"
)

type handlerFunc struct {
	cardType graph.CardType
	visited  *[]string
}

func (h *handlerFunc) CardTypes() []graph.CardType {
	return []graph.CardType{h.cardType}
}

func (h *handlerFunc) Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*executor.Output, error) {
	*h.visited = append(*h.visited, "handler:"+node.ID)
	return &executor.Output{Value: "booked"}, nil
}
