package diagram

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Editor is the graph owner: it validates connections before they reach
// the Store and answers geometry questions about stored edges.
type Editor struct {
	store  Store
	logger *log.Logger
}

// NewEditor returns an Editor over store. A nil logger uses log.Default().
func NewEditor(store Store, logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.Default()
	}
	return &Editor{store: store, logger: logger}
}

// Check validates a proposed connection without storing anything.
func (e *Editor) Check(ctx context.Context, diagramID string, conn Connection, edgeType string) (Result, error) {
	snap, err := LoadSnapshot(ctx, e.store, diagramID)
	if err != nil {
		return Result{}, err
	}
	return RulesFor(snap.Model).Validate(conn, snap.Nodes, edgeType, snap.Catalog), nil
}

// Connect appends an edge of edgeType when the connection is valid.
// A refused connection is reported through the Result with an empty edge id
// and a nil error; the diagram is left unchanged.
// Edges of a custom connection type carry its drawing style in their data.
func (e *Editor) Connect(ctx context.Context, diagramID string, conn Connection, edgeType string) (string, Result, error) {
	cat, err := e.store.LoadCatalog(ctx)
	if err != nil {
		return "", Result{}, err
	}
	edge := &Edge{Source: conn.Source, Target: conn.Target, Type: edgeType, Data: cat.EdgeData(edgeType)}
	id, err := e.store.AddEdge(ctx, diagramID, edge)

	var ce *ConnectionError
	if errors.As(err, &ce) {
		e.logger.Debug("connection refused", "diagram", diagramID, "source", conn.Source, "target", conn.Target,
			"type", edgeType, "code", ce.Result.Code)
		return "", ce.Result, nil
	}
	if err != nil {
		return "", Result{}, err
	}
	e.logger.Debug("connection created", "diagram", diagramID, "edge", id, "type", edgeType)
	return id, Result{Valid: true}, nil
}

// EdgeGeometry resolves the attachment points of a stored edge.
func (e *Editor) EdgeGeometry(ctx context.Context, edgeID string) (Params, error) {
	edge, err := e.store.GetEdge(ctx, edgeID)
	if err != nil {
		return Params{}, err
	}
	if edge == nil {
		return Params{}, ErrEdgeNotFound
	}
	source, err := e.store.GetNode(ctx, edge.Source)
	if err != nil {
		return Params{}, err
	}
	target, err := e.store.GetNode(ctx, edge.Target)
	if err != nil {
		return Params{}, err
	}
	if source == nil || target == nil {
		return Params{}, fmt.Errorf("edge %s: %w", edgeID, ErrNodeNotFound)
	}
	return EdgeParams(*source, *target), nil
}

// CheckProcess runs the whole-process checks on a stored diagram.
func (e *Editor) CheckProcess(ctx context.Context, diagramID string) ([]Result, error) {
	d, err := e.store.GetDiagram(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDiagramNotFound
	}
	return ValidateProcess(d.Nodes, d.Edges), nil
}

// Export packages a stored diagram with the current catalog.
func (e *Editor) Export(ctx context.Context, diagramID string) (*Document, error) {
	d, err := e.store.GetDiagram(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDiagramNotFound
	}
	cat, err := e.store.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return Export(d, cat), nil
}

// Import stores an exported document as a new diagram. Custom definitions
// from the document are merged into the catalog, and the diagram is checked
// against the merged catalog before anything is written. A document without
// a model gets the one inferred from its nodes.
func (e *Editor) Import(ctx context.Context, diagramID string, doc *Document) (*Diagram, error) {
	prev, err := e.store.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	cat := prev.Clone()
	for _, def := range doc.CustomNodes {
		cat.AddNode(def)
	}
	for _, def := range doc.CustomConnections {
		cat.AddConnection(def)
	}

	d := doc.Diagram(diagramID)
	if err := PrepareDiagram(d, cat); err != nil {
		return nil, err
	}
	if err := e.store.SaveCatalog(ctx, cat); err != nil {
		return nil, err
	}

	created, err := e.store.CreateDiagram(ctx, d)
	if err != nil {
		if rerr := e.store.SaveCatalog(ctx, prev); rerr != nil {
			e.logger.Error("restore catalog", "err", rerr)
		}
		return nil, err
	}
	e.logger.Info("diagram imported", "diagram", created.ID, "model", created.Model,
		"nodes", len(created.Nodes), "edges", len(created.Edges))
	return created, nil
}
