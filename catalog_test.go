package diagram

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeCustomNodeID(t *testing.T) {
	tests := map[string]string{
		"abc":               "abc",
		"custom-abc":        "abc",
		"custom-custom-abc": "abc",
		"custom-":           "",
		"my-custom-abc":     "my-custom-abc",
	}
	for in, want := range tests {
		if got := NormalizeCustomNodeID(in); got != want {
			t.Errorf("NormalizeCustomNodeID(%q) = %q, want %q", in, got, want)
		}
	}
	if got := CustomNodeToken("custom-custom-x"); got != "custom-x" {
		t.Errorf("CustomNodeToken = %q, want custom-x", got)
	}
}

func TestCatalogAddNode(t *testing.T) {
	cat := &Catalog{}
	a := cat.AddNode(CustomNodeDefinition{ID: "custom-custom-valve", Name: "Valve"})
	if a.ID != "valve" {
		t.Errorf("ID = %q, want valve", a.ID)
	}
	if a.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}

	cat.AddNode(CustomNodeDefinition{ID: "valve", Name: "Valve v2"})
	if len(cat.CustomNodes) != 1 || cat.CustomNodes[0].Name != "Valve v2" {
		t.Errorf("replace failed: %+v", cat.CustomNodes)
	}

	b := cat.AddNode(CustomNodeDefinition{Name: "Pump"})
	if b.ID == "" || strings.HasPrefix(b.ID, CustomPrefix) {
		t.Errorf("generated ID = %q", b.ID)
	}
	if len(cat.CustomNodes) != 2 {
		t.Errorf("len = %d, want 2", len(cat.CustomNodes))
	}
}

func TestCatalogAddConnection(t *testing.T) {
	cat := &Catalog{}
	def := cat.AddConnection(CustomConnectionDefinition{
		Name:                "drives",
		PossibleSourceTypes: []string{"custom-custom-valve", KindGoal},
	})
	if def.ID == "" {
		t.Error("ID not generated")
	}
	if def.LineStyle != LineSolid {
		t.Errorf("LineStyle = %q, want solid", def.LineStyle)
	}
	if got := def.PossibleSourceTypes; got[0] != "custom-valve" || got[1] != KindGoal {
		t.Errorf("PossibleSourceTypes = %v", got)
	}
	if def.PossibleTargetTypes != nil {
		t.Errorf("PossibleTargetTypes = %v, want nil", def.PossibleTargetTypes)
	}

	def.Label = "drives"
	cat.AddConnection(def)
	if len(cat.CustomConnections) != 1 || cat.Connection(def.ID).Label != "drives" {
		t.Errorf("replace failed: %+v", cat.CustomConnections)
	}

	var nilCat *Catalog
	if nilCat.Connection(def.ID) != nil {
		t.Error("nil catalog returned a connection")
	}
}

func TestCatalogNodesFor(t *testing.T) {
	cat := &Catalog{CustomNodes: []CustomNodeDefinition{
		{ID: "a", DiagramTypes: []string{"Goal Diagram"}},
		{ID: "b"},
		{ID: "c", DiagramTypes: []string{"Process Diagram", "Goal Diagram"}},
		{ID: "d", DiagramTypes: []string{"Process Diagram"}},
	}}
	var ids []string
	for _, def := range cat.NodesFor("Goal Diagram") {
		ids = append(ids, def.ID)
	}
	if strings.Join(ids, ",") != "a,b,c" {
		t.Errorf("NodesFor = %v, want [a b c]", ids)
	}
}

func TestInstantiate(t *testing.T) {
	def := CustomNodeDefinition{ID: "custom-valve", Name: "Valve", SVGCode: "<svg/>", Color: "#0af", DiagramTypes: []string{"goal"}}
	n := def.Instantiate(Position{X: 10, Y: 20})

	if n.Type != KindCustom || n.Position != (Position{10, 20}) || n.Data.Label != "Valve" {
		t.Errorf("node = %+v", n)
	}
	if !strings.HasPrefix(n.ID, "custom-valve-") || len(n.ID) != len("custom-valve-")+8 {
		t.Errorf("ID = %q", n.ID)
	}
	p := n.Custom()
	if p == nil || p.CustomNodeID != "valve" || p.SVGCode != "<svg/>" || p.NodeColor != "#0af" || len(p.DiagramTypes) != 1 {
		t.Errorf("payload = %+v", p)
	}
	if !MatchesType(&n, CustomNodeToken(def.ID), nil) {
		t.Error("instance does not match its own token")
	}
}

func TestCatalogNil(t *testing.T) {
	var c *Catalog
	if c.NodesFor("goal") != nil || c.Connection("x") != nil || c.EdgeData("x") != nil {
		t.Error("nil catalog returned definitions")
	}
	if clone := c.Clone(); clone == nil || len(clone.CustomNodes) != 0 {
		t.Errorf("Clone = %+v", clone)
	}
}

func TestCatalogClone(t *testing.T) {
	c := &Catalog{}
	c.AddNode(CustomNodeDefinition{ID: "a", Name: "A"})
	clone := c.Clone()
	clone.AddNode(CustomNodeDefinition{ID: "b", Name: "B"})
	clone.CustomNodes[0].Name = "changed"
	if len(c.CustomNodes) != 1 || c.CustomNodes[0].Name != "A" {
		t.Errorf("original changed: %+v", c.CustomNodes)
	}
}

func TestCatalogEdgeData(t *testing.T) {
	c := &Catalog{}
	c.AddConnection(CustomConnectionDefinition{ID: "uses", Label: "uses", Color: "#f00", LineSVGCode: "<path/>"})

	if c.EdgeData("conflict") != nil {
		t.Error("built-in type got edge data")
	}
	var style EdgeStyle
	if err := json.Unmarshal(c.EdgeData("uses"), &style); err != nil {
		t.Fatal(err)
	}
	want := EdgeStyle{LineSVGCode: "<path/>", Color: "#f00", LineStyle: LineSolid, Label: "uses"}
	if style != want {
		t.Errorf("style = %+v, want %+v", style, want)
	}
}
