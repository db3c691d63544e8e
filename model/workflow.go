package model

import (
	"fmt"

	"github.com/viant/hireflow/model/graph"
)

// Workflow is a screening automation graph: nodes connected by directed edges.
type Workflow struct {
	// Source provides information about the origin of the workflow
	Source *Source `json:"source,omitempty" yaml:"source,omitempty"`
	// ID identifies the workflow definition, copied into run reports
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// Name is a human-readable workflow name
	Name string `json:"name" yaml:"name"`
	// Description provides a human-readable description of the workflow
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Version specifies the workflow version
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	Nodes []*graph.Node `json:"nodes" yaml:"nodes"`
	Edges []*graph.Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Source describes where a workflow was loaded from
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Validate checks the structural invariants of the graph: every node has a
// unique non-empty id and every edge references existing nodes. The returned
// slice is empty when the workflow is sound. Cycles are detected by the
// scheduler, not here.
func (w *Workflow) Validate() []error {
	var issues []error
	if w == nil {
		return []error{graph.Invalidf("workflow is nil")}
	}
	seen := make(map[string]bool, len(w.Nodes))
	for i, node := range w.Nodes {
		if node == nil {
			issues = append(issues, graph.Invalidf("node #%d is nil", i))
			continue
		}
		if node.ID == "" {
			issues = append(issues, graph.Invalidf("node #%d has empty id", i))
			continue
		}
		if seen[node.ID] {
			issues = append(issues, graph.Invalidf("duplicate node id %q", node.ID))
		}
		seen[node.ID] = true
	}
	for i, edge := range w.Edges {
		if edge == nil {
			issues = append(issues, graph.Invalidf("edge #%d is nil", i))
			continue
		}
		name := edge.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if !seen[edge.Source] {
			issues = append(issues, graph.Invalidf("edge %s references unknown source node %q", name, edge.Source))
		}
		if !seen[edge.Target] {
			issues = append(issues, graph.Invalidf("edge %s references unknown target node %q", name, edge.Target))
		}
	}
	return issues
}

// NewWorkflow creates a new workflow with the given name
func NewWorkflow(name string) *Workflow {
	return &Workflow{Name: name}
}

// WithID sets workflow id
func (w *Workflow) WithID(id string) *Workflow {
	w.ID = id
	return w
}

// WithDescription sets the description of the workflow
func (w *Workflow) WithDescription(description string) *Workflow {
	w.Description = description
	return w
}

// WithVersion sets the version of the workflow
func (w *Workflow) WithVersion(version string) *Workflow {
	w.Version = version
	return w
}

// AddNode appends a node with the given id and card type and returns it
func (w *Workflow) AddNode(id string, cardType graph.CardType) *graph.Node {
	node := graph.NewNode(id, cardType)
	w.Nodes = append(w.Nodes, node)
	return node
}

// Connect adds an edge from source to target
func (w *Workflow) Connect(source, target string) *Workflow {
	return w.ConnectHandle(source, target, "")
}

// ConnectHandle adds an edge leaving source through the given handle
func (w *Workflow) ConnectHandle(source, target, handle string) *Workflow {
	w.Edges = append(w.Edges, &graph.Edge{
		ID:           fmt.Sprintf("e%d-%s-%s", len(w.Edges)+1, source, target),
		Source:       source,
		Target:       target,
		SourceHandle: handle,
	})
	return w
}

// Lookup returns a node by id
func (w *Workflow) Lookup(id string) *graph.Node {
	for _, node := range w.Nodes {
		if node != nil && node.ID == id {
			return node
		}
	}
	return nil
}

// Clone creates a deep copy of the workflow
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	clone := &Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Version:     w.Version,
	}
	if w.Source != nil {
		source := *w.Source
		clone.Source = &source
	}
	if w.Nodes != nil {
		clone.Nodes = make([]*graph.Node, len(w.Nodes))
		for i, node := range w.Nodes {
			clone.Nodes[i] = node.Clone()
		}
	}
	if w.Edges != nil {
		clone.Edges = make([]*graph.Edge, len(w.Edges))
		for i, edge := range w.Edges {
			clone.Edges[i] = edge.Clone()
		}
	}
	return clone
}
