// Package scheduler orders workflow nodes for sequential execution and
// prunes the branches a condition node did not take.
package scheduler

import (
	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
)

// Plan is a validated workflow with its adjacency and execution order.
type Plan struct {
	Workflow  *model.Workflow
	Adjacency map[string][]*graph.Node
	// Order lists nodes in topological order
	Order []*graph.Node

	nodes    map[string]*graph.Node
	outgoing map[string][]*graph.Edge
	incoming map[string]int
}

// New validates the workflow and computes its execution order. Structural
// defects are reported as graph.ErrInvalidGraph, cycles as
// graph.ErrCyclicGraph; in both cases no plan is returned.
func New(workflow *model.Workflow) (*Plan, error) {
	if issues := workflow.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	ret := &Plan{
		Workflow:  workflow,
		Adjacency: Adjacency(workflow),
		nodes:     make(map[string]*graph.Node, len(workflow.Nodes)),
		outgoing:  make(map[string][]*graph.Edge, len(workflow.Nodes)),
		incoming:  make(map[string]int, len(workflow.Nodes)),
	}
	for _, node := range workflow.Nodes {
		ret.nodes[node.ID] = node
	}
	for _, edge := range workflow.Edges {
		ret.outgoing[edge.Source] = append(ret.outgoing[edge.Source], edge)
		ret.incoming[edge.Target]++
	}
	order, err := ret.sort()
	if err != nil {
		return nil, err
	}
	ret.Order = order
	return ret, nil
}

// Adjacency maps every node id to its direct successors in edge declaration
// order. Nodes without outgoing edges map to an empty list. Parallel edges
// yield repeated successors.
func Adjacency(workflow *model.Workflow) map[string][]*graph.Node {
	nodes := make(map[string]*graph.Node, len(workflow.Nodes))
	ret := make(map[string][]*graph.Node, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		if node == nil {
			continue
		}
		nodes[node.ID] = node
		ret[node.ID] = []*graph.Node{}
	}
	for _, edge := range workflow.Edges {
		if edge == nil {
			continue
		}
		target, ok := nodes[edge.Target]
		if !ok {
			continue
		}
		if _, ok := nodes[edge.Source]; !ok {
			continue
		}
		ret[edge.Source] = append(ret[edge.Source], target)
	}
	return ret
}

// sort runs Kahn's algorithm with a FIFO ready queue seeded in node
// declaration order, so equal graphs always produce equal orders.
func (p *Plan) sort() ([]*graph.Node, error) {
	inDegree := make(map[string]int, len(p.nodes))
	for id, count := range p.incoming {
		inDegree[id] = count
	}
	var queue []*graph.Node
	for _, node := range p.Workflow.Nodes {
		if inDegree[node.ID] == 0 {
			queue = append(queue, node)
		}
	}
	order := make([]*graph.Node, 0, len(p.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, successor := range p.Adjacency[node.ID] {
			inDegree[successor.ID]--
			if inDegree[successor.ID] == 0 {
				queue = append(queue, successor)
			}
		}
	}
	if len(order) != len(p.nodes) {
		var unordered []string
		for _, node := range p.Workflow.Nodes {
			if inDegree[node.ID] > 0 {
				unordered = append(unordered, node.ID)
			}
		}
		return nil, graph.CycleError(unordered)
	}
	return order, nil
}

// Node returns node by id
func (p *Plan) Node(id string) *graph.Node {
	return p.nodes[id]
}

// Outgoing returns the edges leaving node in declaration order
func (p *Plan) Outgoing(id string) []*graph.Edge {
	return p.outgoing[id]
}

// Position returns the index of node in the execution order, or -1
func (p *Plan) Position(id string) int {
	for i, node := range p.Order {
		if node.ID == id {
			return i
		}
	}
	return -1
}
