package scheduler

import (
	"github.com/viant/hireflow/model/graph"
)

// Skipper marks a pending node as skipped, returning false when the node
// has already left the pending state.
type Skipper interface {
	Skip(nodeID string) bool
}

// Pruner tracks, per node, how many incoming edges are still live. A node
// is skipped once its last live incoming edge dies; its own outgoing edges
// then die in turn. Traversal uses an explicit worklist.
type Pruner struct {
	plan *Plan
	live map[string]int
	dead map[*graph.Edge]bool
}

// NewPruner creates a pruner for one run of plan
func NewPruner(plan *Plan) *Pruner {
	live := make(map[string]int, len(plan.incoming))
	for id, count := range plan.incoming {
		live[id] = count
	}
	return &Pruner{plan: plan, live: live, dead: map[*graph.Edge]bool{}}
}

// Live returns the number of live incoming edges of node
func (p *Pruner) Live(nodeID string) int {
	return p.live[nodeID]
}

// IsDead returns true if the edge was pruned
func (p *Pruner) IsDead(edge *graph.Edge) bool {
	return p.dead[edge]
}

// KillPort prunes the outgoing edges of a condition node that were not
// taken. When taken is "true" only edges on the "false" port die; when it is
// "false" every edge except the "false" port dies. It returns the ids of
// nodes skipped as a consequence, in the order they were skipped.
func (p *Pruner) KillPort(nodeID string, taken string, skipper Skipper) []string {
	var edges []*graph.Edge
	for _, edge := range p.plan.Outgoing(nodeID) {
		if taken == graph.PortTrue {
			if edge.IsPort(graph.PortFalse) {
				edges = append(edges, edge)
			}
			continue
		}
		if !edge.IsPort(graph.PortFalse) {
			edges = append(edges, edge)
		}
	}
	return p.Kill(edges, skipper)
}

// Kill marks edges dead and skips every node left without a live path.
func (p *Pruner) Kill(edges []*graph.Edge, skipper Skipper) []string {
	var skipped []string
	worklist := append([]*graph.Edge(nil), edges...)
	for len(worklist) > 0 {
		edge := worklist[0]
		worklist = worklist[1:]
		if p.IsDead(edge) {
			continue
		}
		p.dead[edge] = true
		p.live[edge.Target]--
		if p.live[edge.Target] > 0 {
			continue
		}
		if !skipper.Skip(edge.Target) {
			continue
		}
		skipped = append(skipped, edge.Target)
		worklist = append(worklist, p.plan.Outgoing(edge.Target)...)
	}
	return skipped
}
