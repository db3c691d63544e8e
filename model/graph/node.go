package graph

type (
	// Node is a unit of work in a workflow graph.
	Node struct {
		ID       string                 `json:"id" yaml:"id"`
		CardType CardType               `json:"cardType" yaml:"cardType"`
		Label    string                 `json:"label,omitempty" yaml:"label,omitempty"`
		Data     map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	}

	// Edge is a directed link between two nodes. SourceHandle names the
	// output port of the source node, e.g. "true"/"false" for conditions.
	Edge struct {
		ID           string `json:"id,omitempty" yaml:"id,omitempty"`
		Source       string `json:"source" yaml:"source"`
		Target       string `json:"target" yaml:"target"`
		SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	}
)

// NewNode creates a node
func NewNode(id string, cardType CardType) *Node {
	return &Node{ID: id, CardType: cardType, Data: map[string]interface{}{}}
}

// WithData sets a data (configuration) entry
func (n *Node) WithData(key string, value interface{}) *Node {
	if n.Data == nil {
		n.Data = make(map[string]interface{})
	}
	n.Data[key] = value
	return n
}

// WithLabel sets node label
func (n *Node) WithLabel(label string) *Node {
	n.Label = label
	return n
}

// Clone creates a copy of the node; Data is copied one level deep.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{ID: n.ID, CardType: n.CardType, Label: n.Label}
	if n.Data != nil {
		clone.Data = make(map[string]interface{}, len(n.Data))
		for k, v := range n.Data {
			clone.Data[k] = v
		}
	}
	return clone
}

// IsPort returns true if the edge leaves through the given handle.
func (e *Edge) IsPort(handle string) bool {
	return e.SourceHandle == handle
}

// Clone creates a copy of the edge
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
