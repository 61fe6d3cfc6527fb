package diagram_test

import (
	"fmt"

	"github.com/meikuraledutech/diagram"
)

func ExampleValidate() {
	nodes := []diagram.Node{
		{ID: "g1", Type: diagram.KindGoal},
		{ID: "g2", Type: diagram.KindGoal},
		{ID: "r1", Type: diagram.KindRequirement},
	}

	ok := diagram.Validate(diagram.Connection{Source: "g1", Target: "g2"}, nodes, "conflict", nil, nil)
	fmt.Println(ok.Valid)

	bad := diagram.Validate(diagram.Connection{Source: "g1", Target: "r1"}, nodes, "conflict", nil, nil)
	fmt.Println(bad.Valid, bad.Message)
	// Output:
	// true
	// false Conflict connections can only be created between Goal nodes
}

func ExampleValidate_customConnection() {
	sensor := diagram.CustomNodeDefinition{ID: "sensor", Name: "Sensor"}
	monitors := diagram.CustomConnectionDefinition{
		ID:                  "monitors",
		PossibleSourceTypes: []string{"custom-sensor"},
		PossibleTargetTypes: []string{diagram.KindGoal},
	}
	nodes := []diagram.Node{
		sensor.Instantiate(diagram.Position{}),
		{ID: "g1", Type: diagram.KindGoal},
		{ID: "a1", Type: diagram.KindAgent},
	}
	customs := []diagram.CustomConnectionDefinition{monitors}
	defs := []diagram.CustomNodeDefinition{sensor}

	fmt.Println(diagram.Validate(diagram.Connection{Source: nodes[0].ID, Target: "g1"}, nodes, "monitors", customs, defs).Valid)
	fmt.Println(diagram.Validate(diagram.Connection{Source: "a1", Target: "g1"}, nodes, "monitors", customs, defs).Message)
	// Output:
	// true
	// This connection can only start from: Custom: Sensor
}

func ExampleResolveConnectionPoints() {
	source := diagram.Node{ID: "a", Position: diagram.Position{X: 0, Y: 0}}.WithSize(100, 50)
	target := diagram.Node{ID: "b", Position: diagram.Position{X: 300, Y: 0}}.WithSize(100, 50)

	r := diagram.ResolveConnectionPoints(source, target)
	fmt.Println(r.SourcePos, r.TargetPos)
	fmt.Println(r.SourcePoint.X, r.TargetPoint.X)
	// Output:
	// right left
	// 100 300
}

func ExampleEdgeParams() {
	// Unmeasured nodes fall back to a 150x80 box.
	source := diagram.Node{ID: "a", Position: diagram.Position{X: 0, Y: 0}}
	target := diagram.Node{ID: "b", Position: diagram.Position{X: 0, Y: 300}}

	p := diagram.EdgeParams(source, target)
	fmt.Printf("(%g,%g) %s -> (%g,%g) %s\n", p.SX, p.SY, p.SourcePos, p.TX, p.TY, p.TargetPos)
	// Output:
	// (75,80) bottom -> (75,300) top
}

func ExampleGesture() {
	snap := diagram.Snapshot{
		Model: diagram.ModelBPMN,
		Nodes: []diagram.Node{
			{ID: "start", Type: diagram.KindStartEvent},
			{ID: "end", Type: diagram.KindEndEvent},
		},
	}
	g := diagram.NewGesture(diagram.RulesFor(snap.Model))

	_ = g.Begin("end")
	_, res, _ := g.Drop("start", diagram.EdgeSequenceFlow, snap)
	fmt.Println(g.State(), res.Message)

	_ = g.Begin("start")
	_, res, _ = g.Drop("end", diagram.EdgeSequenceFlow, snap)
	fmt.Println(g.State(), res.Severity)
	// Output:
	// cancelled Sequence flow cannot start from endEvent
	// connected info
}
