package diagram

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when a gesture event does not apply to the current state.
var ErrInvalidTransition = errors.New("diagram: invalid gesture transition")

// GestureState is the phase of a connect gesture.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureConnected
	GestureCancelled
)

// String returns the state name.
func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureConnected:
		return "connected"
	case GestureCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Snapshot is the read-only view of a diagram a gesture validates against.
type Snapshot struct {
	Model   string
	Nodes   []Node
	Catalog *Catalog
}

// Gesture tracks one drag-to-connect interaction:
//
//	idle → dragging(source) → connected(edge) | cancelled
//
// A finished gesture may begin again. Gesture is not safe for concurrent use.
type Gesture struct {
	rules  Rules
	state  GestureState
	source string
	edgeID string
}

// NewGesture returns an idle gesture validating with rules.
func NewGesture(rules Rules) *Gesture {
	if rules == nil {
		rules = KAOSRules{}
	}
	return &Gesture{rules: rules}
}

// State returns the current phase.
func (g *Gesture) State() GestureState { return g.state }

// Source returns the node the current drag started from.
func (g *Gesture) Source() string { return g.source }

// EdgeID returns the id of the edge created by the last successful drop.
func (g *Gesture) EdgeID() string { return g.edgeID }

// Begin starts dragging from sourceID.
func (g *Gesture) Begin(sourceID string) error {
	if g.state == GestureDragging {
		return fmt.Errorf("%w: begin while %s", ErrInvalidTransition, g.state)
	}
	g.state = GestureDragging
	g.source = sourceID
	g.edgeID = ""
	return nil
}

// Drop ends the drag on targetID. A valid connection yields the new edge
// and moves to connected; otherwise the gesture is cancelled and the
// verdict explains why. The snapshot is never modified.
func (g *Gesture) Drop(targetID, edgeType string, snap Snapshot) (Edge, Result, error) {
	if g.state != GestureDragging {
		return Edge{}, Result{}, fmt.Errorf("%w: drop while %s", ErrInvalidTransition, g.state)
	}
	conn := Connection{Source: g.source, Target: targetID}
	res := g.rules.Validate(conn, snap.Nodes, edgeType, snap.Catalog)
	if !res.Valid {
		g.state = GestureCancelled
		return Edge{}, res, nil
	}
	g.state = GestureConnected
	g.edgeID = uuid.NewString()
	edge := Edge{ID: g.edgeID, Source: conn.Source, Target: conn.Target, Type: edgeType, Data: snap.Catalog.EdgeData(edgeType)}
	return edge, res, nil
}

// Cancel abandons the drag.
func (g *Gesture) Cancel() error {
	if g.state != GestureDragging {
		return fmt.Errorf("%w: cancel while %s", ErrInvalidTransition, g.state)
	}
	g.state = GestureCancelled
	return nil
}
