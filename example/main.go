package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/diagram"
	"github.com/meikuraledutech/diagram/postgres"
	"github.com/meikuraledutech/diagram/sqlite"
)

func main() {
	ctx := context.Background()

	// Postgres when DATABASE_URL is set, an in-memory SQLite database otherwise.
	var store diagram.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
	} else {
		s, err := sqlite.Open(":memory:")
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		defer s.Close()
		store = s
	}

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── Catalog: a custom shape and a connection restricted to it ─────
	cat := &diagram.Catalog{}
	sensor := cat.AddNode(diagram.NewCustomNode("Sensor", `<svg><circle r="8"/></svg>`, "#0ea5e9", "Goal Diagram"))
	monitors := cat.AddConnection(diagram.CustomConnectionDefinition{
		Name:                "monitors",
		PossibleSourceTypes: []string{diagram.CustomNodeToken(sensor.ID)},
		PossibleTargetTypes: []string{diagram.KindGoal},
	})
	if err := store.SaveCatalog(ctx, cat); err != nil {
		log.Fatalf("save catalog: %v", err)
	}
	fmt.Printf("catalog saved: node %s, connection %s\n", sensor.ID, monitors.ID)

	// ── Bulk insert using refs ────────────────────────────────────────
	sensorNode := sensor.Instantiate(diagram.Position{X: 0, Y: 200})
	sensorNode.Ref = "sensor"
	goals := &diagram.Diagram{
		ID:    "safety-goals",
		Model: diagram.ModelKAOS,
		Nodes: []diagram.Node{
			diagram.Node{Ref: "g1", Type: diagram.KindGoal, Position: diagram.Position{X: 0, Y: 0},
				Data: diagram.NodeData{Label: "Doors closed while moving"}}.WithSize(100, 50),
			diagram.Node{Ref: "g2", Type: diagram.KindGoal, Position: diagram.Position{X: 300, Y: 0},
				Data: diagram.NodeData{Label: "Fast boarding"}}.WithSize(100, 50),
			sensorNode.WithSize(100, 50),
		},
		Edges: []diagram.Edge{
			{SourceRef: "g1", TargetRef: "g2", Type: "conflict"},
			{SourceRef: "sensor", TargetRef: "g1", Type: monitors.ID},
		},
	}

	created, err := store.CreateDiagram(ctx, goals)
	if err != nil {
		log.Fatalf("create diagram: %v", err)
	}
	fmt.Println("diagram created (bulk with refs)")
	printJSON(created)

	editor := diagram.NewEditor(store, nil)

	// ── Refused connection: conflict needs two goals ──────────────────
	g1 := created.Nodes[0].ID
	sensorID := created.Nodes[2].ID
	_, res, err := editor.Connect(ctx, "safety-goals", diagram.Connection{Source: sensorID, Target: g1}, "conflict")
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	fmt.Printf("\nconflict sensor → goal: valid=%v %q\n", res.Valid, res.Message)

	// ── Geometry of a stored edge ─────────────────────────────────────
	p, err := editor.EdgeGeometry(ctx, created.Edges[0].ID)
	if err != nil {
		log.Fatalf("geometry: %v", err)
	}
	fmt.Printf("conflict edge: (%g,%g) %s → (%g,%g) %s\n", p.SX, p.SY, p.SourcePos, p.TX, p.TY, p.TargetPos)

	// ── Export ────────────────────────────────────────────────────────
	doc, err := editor.Export(ctx, "safety-goals")
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Println("\nexported:")
	if err := diagram.WriteDocument(os.Stdout, doc); err != nil {
		log.Fatalf("write: %v", err)
	}

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteDiagram(ctx, "safety-goals"); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("\ndiagram deleted")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
