package diagram

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDiagramNotFound   = errors.New("diagram: diagram not found")
	ErrNodeNotFound      = errors.New("diagram: node not found")
	ErrEdgeNotFound      = errors.New("diagram: edge not found")
	ErrInvalidConnection = errors.New("diagram: invalid connection")
)

// ConnectionError is returned when a store refuses an edge. It wraps
// ErrInvalidConnection and carries the verdict.
type ConnectionError struct {
	EdgeID string
	Result Result
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("diagram: invalid connection %s: %s", e.EdgeID, e.Result.Message)
}

// Unwrap makes errors.Is(err, ErrInvalidConnection) hold.
func (e *ConnectionError) Unwrap() error { return ErrInvalidConnection }

// Store defines the contract for persisting and retrieving diagrams and the
// catalog of user extensions.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Diagram (bulk operations)
	CreateDiagram(ctx context.Context, d *Diagram) (*Diagram, error)
	GetDiagram(ctx context.Context, diagramID string) (*Diagram, error)
	GetModel(ctx context.Context, diagramID string) (string, error)
	DeleteDiagram(ctx context.Context, diagramID string) error

	// Nodes
	AddNode(ctx context.Context, diagramID string, node *Node) (string, error)
	GetNode(ctx context.Context, nodeID string) (*Node, error)
	UpdateNode(ctx context.Context, node *Node) error
	DeleteNode(ctx context.Context, nodeID string) error
	ListNodes(ctx context.Context, diagramID string) ([]Node, error)

	// Edges
	AddEdge(ctx context.Context, diagramID string, edge *Edge) (string, error)
	GetEdge(ctx context.Context, edgeID string) (*Edge, error)
	UpdateEdge(ctx context.Context, edge *Edge) error
	DeleteEdge(ctx context.Context, edgeID string) error
	ListEdges(ctx context.Context, diagramID string) ([]Edge, error)

	// Catalog
	LoadCatalog(ctx context.Context) (*Catalog, error)
	SaveCatalog(ctx context.Context, c *Catalog) error
}

// SnapshotSource is the read side of a Store needed to validate an edge.
type SnapshotSource interface {
	GetModel(ctx context.Context, diagramID string) (string, error)
	ListNodes(ctx context.Context, diagramID string) ([]Node, error)
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// LoadSnapshot reads the model, nodes and catalog of a diagram concurrently.
func LoadSnapshot(ctx context.Context, src SnapshotSource, diagramID string) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := src.GetModel(ctx, diagramID)
		snap.Model = m
		return err
	})
	g.Go(func() error {
		nodes, err := src.ListNodes(ctx, diagramID)
		snap.Nodes = nodes
		return err
	})
	g.Go(func() error {
		cat, err := src.LoadCatalog(ctx)
		snap.Catalog = cat
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CheckEdge validates e against the snapshot with the rules of its model.
// It returns a *ConnectionError when the edge is refused.
func CheckEdge(snap *Snapshot, e Edge) error {
	res := RulesFor(snap.Model).Validate(Connection{Source: e.Source, Target: e.Target}, snap.Nodes, e.Type, snap.Catalog)
	if !res.Valid {
		return &ConnectionError{EdgeID: e.ID, Result: res}
	}
	return nil
}

// PrepareDiagram gets d ready for a bulk insert.
// Nodes/edges without IDs get auto-generated UUIDs.
// Edge refs (SourceRef/TargetRef) are resolved to real node IDs.
// Every edge is validated with the rules of the diagram's model.
func PrepareDiagram(d *Diagram, cat *Catalog) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Model == "" {
		d.Model = ModelKAOS
	}

	refMap := make(map[string]string)
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.Ref != "" {
			refMap[n.Ref] = n.ID
		}
	}

	for i := range d.Edges {
		e := &d.Edges[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.SourceRef != "" {
			id, ok := refMap[e.SourceRef]
			if !ok {
				return fmt.Errorf("diagram: unknown sourceRef %q", e.SourceRef)
			}
			e.Source = id
		}
		if e.TargetRef != "" {
			id, ok := refMap[e.TargetRef]
			if !ok {
				return fmt.Errorf("diagram: unknown targetRef %q", e.TargetRef)
			}
			e.Target = id
		}
	}

	snap := &Snapshot{Model: d.Model, Nodes: d.Nodes, Catalog: cat}
	for _, e := range d.Edges {
		if err := CheckEdge(snap, e); err != nil {
			return err
		}
	}
	return nil
}

// ClearRefs removes the temporary ref fields after a bulk insert.
func ClearRefs(d *Diagram) {
	for i := range d.Nodes {
		d.Nodes[i].Ref = ""
	}
	for i := range d.Edges {
		d.Edges[i].SourceRef = ""
		d.Edges[i].TargetRef = ""
	}
}
