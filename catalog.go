package diagram

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CustomPrefix marks a type token that refers to a custom node definition.
const CustomPrefix = "custom-"

// CustomNodeDefinition is a user-authored shape.
// ID may carry the "custom-" prefix when it was created by older editors.
type CustomNodeDefinition struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SVGCode      string   `json:"svgCode"`
	Color        string   `json:"color,omitempty"`
	DiagramTypes []string `json:"diagramTypes,omitempty"`
	CreatedAt    int64    `json:"createdAt,omitempty"`
}

// Line styles of a custom connection.
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
	LineDotted = "dotted"
)

// CustomConnectionDefinition is a user-authored connection kind.
// Empty PossibleSourceTypes / PossibleTargetTypes mean any node is allowed.
type CustomConnectionDefinition struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	Label               string   `json:"label,omitempty"`
	LineSVGCode         string   `json:"lineSvgCode,omitempty"`
	MarkerSVGCode       string   `json:"markerSvgCode,omitempty"`
	Color               string   `json:"color,omitempty"`
	LineStyle           string   `json:"lineStyle,omitempty"`
	CreatedAt           int64    `json:"createdAt,omitempty"`
	PossibleSourceTypes []string `json:"possibleSourceTypes,omitempty"`
	PossibleTargetTypes []string `json:"possibleTargetTypes,omitempty"`
}

// Catalog is the set of user extensions available to every diagram.
type Catalog struct {
	CustomNodes       []CustomNodeDefinition       `json:"customNodes"`
	CustomConnections []CustomConnectionDefinition `json:"customConnections"`
}

// NormalizeCustomNodeID strips every leading "custom-" from id.
func NormalizeCustomNodeID(id string) string {
	for strings.HasPrefix(id, CustomPrefix) {
		id = id[len(CustomPrefix):]
	}
	return id
}

// CustomNodeToken returns the type token that constrains a connection end to
// the custom definition with the given id.
func CustomNodeToken(id string) string {
	return CustomPrefix + NormalizeCustomNodeID(id)
}

// NewCustomNode creates a definition with a fresh canonical id.
func NewCustomNode(name, svgCode, color string, diagramTypes ...string) CustomNodeDefinition {
	return CustomNodeDefinition{
		ID:           uuid.NewString(),
		Name:         name,
		SVGCode:      svgCode,
		Color:        color,
		DiagramTypes: diagramTypes,
		CreatedAt:    time.Now().UnixMilli(),
	}
}

// Instantiate returns a node drawing def at pos. The node id embeds the
// definition id so legacy matching by id still works.
func (def CustomNodeDefinition) Instantiate(pos Position) Node {
	id := NormalizeCustomNodeID(def.ID)
	return Node{
		ID:       CustomPrefix + id + "-" + uuid.NewString()[:8],
		Type:     KindCustom,
		Position: pos,
		Data: NodeData{
			Label:   def.Name,
			IsNew:   true,
			Payload: &CustomPayload{
				CustomNodeID: id,
				SVGCode:      def.SVGCode,
				NodeColor:    def.Color,
				DiagramTypes: def.DiagramTypes,
			},
		},
	}
}

// AddNode appends def to the catalog, assigning an id when empty and storing
// it in canonical form. An existing definition with the same id is replaced.
func (c *Catalog) AddNode(def CustomNodeDefinition) CustomNodeDefinition {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	def.ID = NormalizeCustomNodeID(def.ID)
	if def.CreatedAt == 0 {
		def.CreatedAt = time.Now().UnixMilli()
	}
	for i := range c.CustomNodes {
		if NormalizeCustomNodeID(c.CustomNodes[i].ID) == def.ID {
			c.CustomNodes[i] = def
			return def
		}
	}
	c.CustomNodes = append(c.CustomNodes, def)
	return def
}

// AddConnection appends def to the catalog, assigning an id when empty.
// Custom-node tokens in the type constraints are rewritten to canonical form.
// An existing definition with the same id is replaced.
func (c *Catalog) AddConnection(def CustomConnectionDefinition) CustomConnectionDefinition {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	if def.LineStyle == "" {
		def.LineStyle = LineSolid
	}
	if def.CreatedAt == 0 {
		def.CreatedAt = time.Now().UnixMilli()
	}
	def.PossibleSourceTypes = canonicalTokens(def.PossibleSourceTypes)
	def.PossibleTargetTypes = canonicalTokens(def.PossibleTargetTypes)
	for i := range c.CustomConnections {
		if c.CustomConnections[i].ID == def.ID {
			c.CustomConnections[i] = def
			return def
		}
	}
	c.CustomConnections = append(c.CustomConnections, def)
	return def
}

// Clone returns a copy of c whose definition slices can be changed without
// affecting c.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return &Catalog{}
	}
	return &Catalog{
		CustomNodes:       append([]CustomNodeDefinition(nil), c.CustomNodes...),
		CustomConnections: append([]CustomConnectionDefinition(nil), c.CustomConnections...),
	}
}

// EdgeStyle is the drawing data copied onto an edge of a custom connection.
type EdgeStyle struct {
	LineSVGCode   string `json:"lineSvgCode,omitempty"`
	MarkerSVGCode string `json:"markerSvgCode,omitempty"`
	Color         string `json:"color,omitempty"`
	LineStyle     string `json:"lineStyle,omitempty"`
	Label         string `json:"label,omitempty"`
}

// EdgeData returns the edge data for a new edge of the given type: the style
// of the matching custom connection, or nil for built-in types.
func (c *Catalog) EdgeData(edgeType string) json.RawMessage {
	def := c.Connection(edgeType)
	if def == nil {
		return nil
	}
	raw, err := json.Marshal(EdgeStyle{
		LineSVGCode:   def.LineSVGCode,
		MarkerSVGCode: def.MarkerSVGCode,
		Color:         def.Color,
		LineStyle:     def.LineStyle,
		Label:         def.Label,
	})
	if err != nil {
		return nil
	}
	return raw
}

// Connection returns the custom connection with the given id, or nil.
func (c *Catalog) Connection(id string) *CustomConnectionDefinition {
	if c == nil {
		return nil
	}
	for i := range c.CustomConnections {
		if c.CustomConnections[i].ID == id {
			return &c.CustomConnections[i]
		}
	}
	return nil
}

// NodesFor returns the custom definitions offered in the named diagram type.
// Definitions without diagram types are offered everywhere.
func (c *Catalog) NodesFor(diagramType string) []CustomNodeDefinition {
	if c == nil {
		return nil
	}
	var out []CustomNodeDefinition
	for _, def := range c.CustomNodes {
		if len(def.DiagramTypes) == 0 {
			out = append(out, def)
			continue
		}
		for _, dt := range def.DiagramTypes {
			if dt == diagramType {
				out = append(out, def)
				break
			}
		}
	}
	return out
}

func canonicalTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if strings.HasPrefix(t, CustomPrefix) {
			t = CustomNodeToken(t)
		}
		out[i] = t
	}
	return out
}
