package diagram

import (
	"strings"
	"testing"
)

func goalNodes(targetType string) []Node {
	return []Node{
		{ID: "g1", Type: KindGoal},
		{ID: "g2", Type: targetType},
	}
}

func customNode(id, customID, svg string) Node {
	return Node{
		ID:   id,
		Type: KindCustom,
		Data: NodeData{Payload: &CustomPayload{CustomNodeID: customID, SVGCode: svg}},
	}
}

func TestValidateConflict(t *testing.T) {
	tests := []struct {
		name       string
		targetType string
		wantValid  bool
	}{
		{"GoalToGoal", KindGoal, true},
		{"GoalToRequirement", KindRequirement, false},
		{"GoalToObstacle", KindObstacle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(Connection{Source: "g1", Target: "g2"}, goalNodes(tt.targetType), "conflict", nil, nil)
			if res.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (%q)", res.Valid, tt.wantValid, res.Message)
			}
			if !tt.wantValid {
				if !strings.Contains(res.Message, "Goal") {
					t.Errorf("Message = %q, want it to mention Goal", res.Message)
				}
				if res.Code != CodeInvalidTypePair {
					t.Errorf("Code = %q, want %q", res.Code, CodeInvalidTypePair)
				}
			}
		})
	}
}

func TestValidateUnconstrainedKinds(t *testing.T) {
	kinds := []string{KindGoal, KindRequirement, KindAgent, KindEntity, KindCustom, "anything"}
	for _, edgeType := range []string{"refinement", "responsibility", "link", "aggregation", "operationalization", "unknown"} {
		for _, src := range kinds {
			for _, dst := range kinds {
				nodes := []Node{{ID: "a", Type: src}, {ID: "b", Type: dst}}
				if res := Validate(Connection{Source: "a", Target: "b"}, nodes, edgeType, nil, nil); !res.Valid {
					t.Errorf("%s %s→%s: got invalid %q", edgeType, src, dst, res.Message)
				}
			}
		}
	}
}

func TestValidateMissingNode(t *testing.T) {
	nodes := []Node{{ID: "a", Type: KindGoal}}
	for _, conn := range []Connection{{Source: "a", Target: "x"}, {Source: "x", Target: "a"}, {}} {
		res := Validate(conn, nodes, "link", nil, nil)
		if res.Valid || res.Code != CodeNodeNotFound {
			t.Errorf("%+v: got %+v, want NodeNotFound", conn, res)
		}
	}
}

func TestValidateCustomConnectionSource(t *testing.T) {
	conns := []CustomConnectionDefinition{{
		ID:                  "supports",
		Name:                "Supports",
		PossibleSourceTypes: []string{KindGoal},
	}}

	for _, srcType := range []string{KindRequirement, KindAgent, KindCustom, KindTask} {
		nodes := []Node{{ID: "a", Type: srcType}, {ID: "b", Type: KindGoal}}
		res := Validate(Connection{Source: "a", Target: "b"}, nodes, "supports", conns, nil)
		if res.Valid {
			t.Errorf("%s: got valid, want refused", srcType)
			continue
		}
		if res.Message != "This connection can only start from: Goal" {
			t.Errorf("%s: Message = %q", srcType, res.Message)
		}
		if res.Code != CodeSourceTypeNotAllowed {
			t.Errorf("%s: Code = %q", srcType, res.Code)
		}
	}

	nodes := []Node{{ID: "a", Type: KindGoal}, {ID: "b", Type: KindAgent}}
	if res := Validate(Connection{Source: "a", Target: "b"}, nodes, "supports", conns, nil); !res.Valid {
		t.Errorf("goal source refused: %q", res.Message)
	}
}

func TestValidateCustomConnectionTarget(t *testing.T) {
	conns := []CustomConnectionDefinition{{
		ID:                  "feeds",
		PossibleTargetTypes: []string{KindRequirement, "custom-sensor"},
	}}
	defs := []CustomNodeDefinition{{ID: "sensor", Name: "Sensor"}}

	nodes := []Node{{ID: "a", Type: KindGoal}, {ID: "b", Type: KindAgent}}
	res := Validate(Connection{Source: "a", Target: "b"}, nodes, "feeds", conns, defs)
	if res.Valid {
		t.Fatal("agent target accepted")
	}
	want := "This connection can only connect to: Requirement, Custom: Sensor"
	if res.Message != want {
		t.Errorf("Message = %q, want %q", res.Message, want)
	}
	if res.Code != CodeTargetTypeNotAllowed {
		t.Errorf("Code = %q, want %q", res.Code, CodeTargetTypeNotAllowed)
	}
}

func TestValidateCustomConnectionSourceCheckedFirst(t *testing.T) {
	conns := []CustomConnectionDefinition{{
		ID:                  "strict",
		PossibleSourceTypes: []string{KindAgent},
		PossibleTargetTypes: []string{KindAgent},
	}}
	nodes := goalNodes(KindGoal)
	res := Validate(Connection{Source: "g1", Target: "g2"}, nodes, "strict", conns, nil)
	if res.Code != CodeSourceTypeNotAllowed {
		t.Errorf("Code = %q, want source check first", res.Code)
	}
}

func TestValidateIdempotent(t *testing.T) {
	conns := []CustomConnectionDefinition{{ID: "c", PossibleSourceTypes: []string{"custom-x"}}}
	defs := []CustomNodeDefinition{{ID: "x", Name: "X", SVGCode: "<svg/>"}}
	nodes := []Node{customNode("n1", "x", "<svg/>"), {ID: "n2", Type: KindGoal}}

	first := Validate(Connection{Source: "n1", Target: "n2"}, nodes, "c", conns, defs)
	second := Validate(Connection{Source: "n1", Target: "n2"}, nodes, "c", conns, defs)
	if first != second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if nodes[0].ID != "n1" || nodes[0].Custom().CustomNodeID != "x" || len(defs) != 1 || len(conns) != 1 {
		t.Error("inputs were modified")
	}
}

func TestMatchesType(t *testing.T) {
	defs := []CustomNodeDefinition{
		{ID: "sensor", Name: "Sensor", SVGCode: "<svg>s</svg>"},
		{ID: "custom-legacy", Name: "Legacy", SVGCode: "<svg>l</svg>"},
	}

	tests := []struct {
		name  string
		node  Node
		token string
		want  bool
	}{
		{"BuiltinExact", Node{ID: "g", Type: KindGoal}, KindGoal, true},
		{"BuiltinMismatch", Node{ID: "g", Type: KindGoal}, KindRequirement, false},
		{"CustomIDEqual", customNode("n1", "sensor", ""), "custom-sensor", true},
		{"CustomIDEqualPrefixedNodeID", customNode("custom-abc-1", "sensor", ""), "custom-sensor", true},
		{"NodeIDContains", customNode("custom-sensor-1a2b3c4d", "", ""), "custom-sensor", true},
		{"SVGEqual", customNode("n1", "other", "<svg>s</svg>"), "custom-sensor", true},
		{"SVGEmptyNeverMatches", customNode("n1", "other", ""), "custom-sensor", false},
		{"LegacyPrefixedDefinition", customNode("n1", "legacy", ""), "custom-legacy", true},
		{"DoublePrefixToken", customNode("n1", "sensor", ""), "custom-custom-sensor", true},
		{"UnknownDefinition", customNode("n1", "other", "<svg>s</svg>"), "custom-ghost", false},
		{"BuiltinNodeNeverMatchesCustomToken", Node{ID: "custom-sensor-x", Type: KindGoal}, "custom-sensor", false},
		{"EmptyID", customNode("n1", "", ""), "custom-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesType(&tt.node, tt.token, defs); got != tt.want {
				t.Errorf("MatchesType(%s, %q) = %v, want %v", tt.node.ID, tt.token, got, tt.want)
			}
		})
	}
}

func TestMatchesTypeReflexiveUnderPrefixes(t *testing.T) {
	for _, nodeID := range []string{"X-1", "custom-X-1", "abc"} {
		n := customNode(nodeID, "X", "")
		if !MatchesType(&n, "custom-X", nil) {
			t.Errorf("node %q with customNodeId X does not match custom-X", nodeID)
		}
	}
}

func TestDisplayName(t *testing.T) {
	defs := []CustomNodeDefinition{{ID: "sensor", Name: "Sensor"}}
	tests := map[string]string{
		KindGoal:           "Goal",
		KindDomainProperty: "Domain Property",
		KindStartEvent:     "Start Event",
		"custom-sensor":    "Custom: Sensor",
		"custom-ghost":     "custom-ghost",
		"mystery":          "mystery",
	}
	for token, want := range tests {
		if got := DisplayName(token, defs); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", token, got, want)
		}
	}
}

func TestPermissiveRules(t *testing.T) {
	nodes := goalNodes(KindAgent)
	if res := (PermissiveRules{}).Validate(Connection{Source: "g1", Target: "g2"}, nodes, "conflict", nil); !res.Valid {
		t.Errorf("got %+v, want valid", res)
	}
	if res := (PermissiveRules{}).Validate(Connection{Source: "g1", Target: "zz"}, nodes, "conflict", nil); res.Code != CodeNodeNotFound {
		t.Errorf("Code = %q, want NodeNotFound", res.Code)
	}
}

func TestKAOSRulesPairOverride(t *testing.T) {
	rules := KAOSRules{Pairs: map[string]PairRule{
		"responsibility": func(source, target *Node) Result {
			if source.Type != KindAgent {
				return deny(CodeInvalidTypePair, "Only agents can be responsible")
			}
			return allow()
		},
	}}
	nodes := goalNodes(KindGoal)
	if res := rules.Validate(Connection{Source: "g1", Target: "g2"}, nodes, "responsibility", nil); res.Valid {
		t.Error("override rule not applied")
	}
	if res := rules.Validate(Connection{Source: "g1", Target: "g2"}, goalNodes(KindRequirement), "conflict", nil); !res.Valid {
		t.Error("default conflict rule applied despite override")
	}
}
