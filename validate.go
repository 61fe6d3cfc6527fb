package diagram

import (
	"strings"
)

// ResultCode says why a connection was refused.
type ResultCode string

const (
	CodeNodeNotFound         ResultCode = "NodeNotFound"
	CodeSourceTypeNotAllowed ResultCode = "SourceTypeNotAllowed"
	CodeTargetTypeNotAllowed ResultCode = "TargetTypeNotAllowed"
	CodeInvalidTypePair      ResultCode = "InvalidTypePair"
	CodeSelfConnection       ResultCode = "SelfConnection"
	CodeInvalidFlow          ResultCode = "InvalidFlow"
)

// Severity grades a verdict for display.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is the verdict on a proposed connection.
// A valid result may still carry an informational Message.
type Result struct {
	Valid    bool       `json:"valid"`
	Message  string     `json:"message,omitempty"`
	Code     ResultCode `json:"code,omitempty"`
	Severity Severity   `json:"severity,omitempty"`
}

func allow() Result { return Result{Valid: true} }

func deny(code ResultCode, msg string) Result {
	return Result{Valid: false, Message: msg, Code: code, Severity: SeverityError}
}

// Rules decides whether a connection may be created in a diagram.
// Implementations are pure: they read the snapshot and never modify it.
type Rules interface {
	Validate(conn Connection, nodes []Node, edgeType string, cat *Catalog) Result
}

// Validate checks conn against the KAOS rules.
func Validate(conn Connection, nodes []Node, edgeType string, customConnections []CustomConnectionDefinition, customNodes []CustomNodeDefinition) Result {
	return KAOSRules{}.Validate(conn, nodes, edgeType, &Catalog{
		CustomNodes:       customNodes,
		CustomConnections: customConnections,
	})
}

// PairRule checks a built-in connection kind between two resolved nodes.
type PairRule func(source, target *Node) Result

// DefaultPairRules holds the built-in KAOS connection rules.
var DefaultPairRules = map[string]PairRule{
	"conflict": func(source, target *Node) Result {
		if source.Type != KindGoal || target.Type != KindGoal {
			return deny(CodeInvalidTypePair, "Conflict connections can only be created between Goal nodes")
		}
		return allow()
	},
}

// KAOSRules validates goal-model connections: custom connection constraints
// first, then the built-in rule for the edge type, if any.
// Kinds without a rule are allowed.
type KAOSRules struct {
	// Pairs overrides DefaultPairRules when non-nil.
	Pairs map[string]PairRule
}

// Validate implements Rules.
func (r KAOSRules) Validate(conn Connection, nodes []Node, edgeType string, cat *Catalog) Result {
	source := FindNode(nodes, conn.Source)
	target := FindNode(nodes, conn.Target)
	if source == nil || target == nil {
		return deny(CodeNodeNotFound, "Source or target node not found")
	}

	if def := cat.Connection(edgeType); def != nil {
		if res := checkCustomConnection(def, source, target, cat); !res.Valid {
			return res
		}
	}

	pairs := r.Pairs
	if pairs == nil {
		pairs = DefaultPairRules
	}
	if rule, ok := pairs[edgeType]; ok {
		return rule(source, target)
	}
	return allow()
}

// PermissiveRules allows every connection between existing nodes.
type PermissiveRules struct{}

// Validate implements Rules.
func (PermissiveRules) Validate(conn Connection, nodes []Node, _ string, _ *Catalog) Result {
	if FindNode(nodes, conn.Source) == nil || FindNode(nodes, conn.Target) == nil {
		return deny(CodeNodeNotFound, "Source or target node not found")
	}
	return allow()
}

func checkCustomConnection(def *CustomConnectionDefinition, source, target *Node, cat *Catalog) Result {
	if len(def.PossibleSourceTypes) > 0 && !matchesAny(source, def.PossibleSourceTypes, cat) {
		return deny(CodeSourceTypeNotAllowed,
			"This connection can only start from: "+readableList(def.PossibleSourceTypes, cat))
	}
	if len(def.PossibleTargetTypes) > 0 && !matchesAny(target, def.PossibleTargetTypes, cat) {
		return deny(CodeTargetTypeNotAllowed,
			"This connection can only connect to: "+readableList(def.PossibleTargetTypes, cat))
	}
	return allow()
}

func matchesAny(n *Node, tokens []string, cat *Catalog) bool {
	var defs []CustomNodeDefinition
	if cat != nil {
		defs = cat.CustomNodes
	}
	for _, t := range tokens {
		if MatchesType(n, t, defs) {
			return true
		}
	}
	return false
}

// constraintTarget strips the custom prefix from a type token, treating a
// doubled prefix as a single one.
func constraintTarget(token string) string {
	if strings.HasPrefix(token, CustomPrefix+CustomPrefix) {
		return token[2*len(CustomPrefix):]
	}
	return token[len(CustomPrefix):]
}

// MatchesType reports whether n satisfies the type token.
//
// Built-in tokens match the node type exactly. A "custom-<id>" token matches a
// custom node when, in order: its customNodeId equals id; its node id contains
// id; or the catalog entry for id has the same SVG code or the same
// normalized id as the node's customNodeId.
func MatchesType(n *Node, token string, customNodes []CustomNodeDefinition) bool {
	if n.Type == token {
		return true
	}
	if !strings.HasPrefix(token, CustomPrefix) || n.Type != KindCustom {
		return false
	}
	id := constraintTarget(token)
	if id == "" {
		return false
	}

	var customID, svg string
	if p := n.Custom(); p != nil {
		customID, svg = p.CustomNodeID, p.SVGCode
	}
	if customID == id {
		return true
	}
	if strings.Contains(n.ID, id) {
		return true
	}

	def := findCustomNode(customNodes, id)
	if def == nil {
		return false
	}
	if svg != "" && def.SVGCode == svg {
		return true
	}
	return customID != "" && strings.TrimPrefix(def.ID, CustomPrefix) == customID
}

func findCustomNode(defs []CustomNodeDefinition, id string) *CustomNodeDefinition {
	for i := range defs {
		if defs[i].ID == id || defs[i].ID == CustomPrefix+id {
			return &defs[i]
		}
	}
	return nil
}

var displayNames = map[string]string{
	KindGoal:           "Goal",
	KindRequirement:    "Requirement",
	KindExpectation:    "Expectation",
	KindDomainProperty: "Domain Property",
	KindObstacle:       "Obstacle",
	KindAgent:          "Agent",
	KindEntity:         "Entity",
	KindOperation:      "Operation",
	KindStartEvent:     "Start Event",
	KindEndEvent:       "End Event",
	KindTask:           "Task",
	KindSubprocess:     "Subprocess",
	KindGateway:        "Gateway",
	KindPool:           "Pool",
	KindLane:           "Lane",
	KindDataObject:     "Data Object",
	KindCustom:         "Custom Node",
}

// DisplayName returns the human-readable name of a type token.
// Unknown tokens are returned unchanged.
func DisplayName(token string, customNodes []CustomNodeDefinition) string {
	if strings.HasPrefix(token, CustomPrefix) {
		if def := findCustomNode(customNodes, constraintTarget(token)); def != nil {
			return "Custom: " + def.Name
		}
	}
	if name, ok := displayNames[token]; ok {
		return name
	}
	return token
}

func readableList(tokens []string, cat *Catalog) string {
	var defs []CustomNodeDefinition
	if cat != nil {
		defs = cat.CustomNodes
	}
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = DisplayName(t, defs)
	}
	return strings.Join(names, ", ")
}
