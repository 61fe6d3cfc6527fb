package diagram

import (
	"encoding/json"
	"fmt"
)

// Diagram is a named graph of nodes and edges drawn with one modeling language.
type Diagram struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is the top-left corner of a node in flow coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node represents a shape on the canvas.
// Width and Height are nil until the editor has measured the node.
// Ref is a temporary key used only during CreateDiagram for edge wiring; it is never persisted.
type Node struct {
	ID       string   `json:"id,omitempty"`
	Ref      string   `json:"ref,omitempty"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Data     NodeData `json:"data"`
}

// Edge represents a typed, directed connection between two nodes.
// SourceRef / TargetRef are temporary keys used only during CreateDiagram and are never persisted.
type Edge struct {
	ID        string          `json:"id,omitempty"`
	Source    string          `json:"source,omitempty"`
	Target    string          `json:"target,omitempty"`
	SourceRef string          `json:"sourceRef,omitempty"`
	TargetRef string          `json:"targetRef,omitempty"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Connection is a proposed edge between two node ids.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// WithSize returns a copy of n with measured dimensions.
func (n Node) WithSize(width, height float64) Node {
	n.Width = &width
	n.Height = &height
	return n
}

// Size reports the measured dimensions of n. ok is false when either
// dimension is unknown or not positive.
func (n Node) Size() (width, height float64, ok bool) {
	if n.Width == nil || n.Height == nil || *n.Width <= 0 || *n.Height <= 0 {
		return 0, 0, false
	}
	return *n.Width, *n.Height, true
}

// Custom returns the custom-shape payload of n, or nil for built-in kinds.
func (n *Node) Custom() *CustomPayload {
	p, _ := n.Data.Payload.(*CustomPayload)
	return p
}

// ParticipantID returns the BPMN participant the node belongs to, if any.
func (n *Node) ParticipantID() string {
	if p, ok := n.Data.Payload.(*BPMNPayload); ok {
		return p.ParticipantID
	}
	return ""
}

// UnmarshalJSON decodes a node, choosing the data payload from its type.
func (n *Node) UnmarshalJSON(b []byte) error {
	type plain Node
	var aux struct {
		plain
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data, err := DecodeNodeData(aux.Type, aux.Data)
	if err != nil {
		return fmt.Errorf("node %s: %w", aux.ID, err)
	}
	*n = Node(aux.plain)
	n.Data = data
	return nil
}

// FindNode returns the node with the given id, or nil.
func FindNode(nodes []Node, id string) *Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}
