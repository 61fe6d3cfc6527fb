package diagram

// NodeType is a palette entry of a model.
type NodeType struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Category    string `json:"category"`
	DiagramType string `json:"diagramType,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// ConnectionType is a built-in connection kind of a model.
// Empty PossibleSourceTypes / PossibleTargetTypes mean any node is allowed.
type ConnectionType struct {
	Type                string   `json:"type"`
	Label               string   `json:"label"`
	Color               string   `json:"color,omitempty"`
	Description         string   `json:"description,omitempty"`
	PossibleSourceTypes []string `json:"possibleSourceTypes,omitempty"`
	PossibleTargetTypes []string `json:"possibleTargetTypes,omitempty"`
}

// DiagramType is a named subset of node kinds that are drawn together.
type DiagramType struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	NodeTypes   []string `json:"nodeTypes"`
}

// Model is a modeling language: its palette, connection kinds, diagram
// types and the rules that validate connections.
type Model struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	NodeTypes       []NodeType       `json:"nodeTypes"`
	ConnectionTypes []ConnectionType `json:"connectionTypes"`
	DiagramTypes    []DiagramType    `json:"diagramTypes"`
	Rules           Rules            `json:"-"`
}

// Model ids.
const (
	ModelKAOS   = "kaos"
	ModelBPMN   = "bpmn"
	ModelCustom = "custom"
	ModelIStar  = "istar"
)

// DiagramType returns the diagram type with the given id or name, or nil.
func (m *Model) DiagramType(idOrName string) *DiagramType {
	for i := range m.DiagramTypes {
		if m.DiagramTypes[i].ID == idOrName || m.DiagramTypes[i].Name == idOrName {
			return &m.DiagramTypes[i]
		}
	}
	return nil
}

// AllowsNode reports whether nodes of kind may be placed in the diagram type.
// Custom nodes are always allowed; their own definitions restrict placement.
func (m *Model) AllowsNode(diagramType, kind string) bool {
	if kind == KindCustom {
		return true
	}
	dt := m.DiagramType(diagramType)
	if dt == nil {
		return false
	}
	for _, k := range dt.NodeTypes {
		if k == kind {
			return true
		}
	}
	return false
}

// ConnectionType returns the built-in connection kind, or nil.
func (m *Model) ConnectionType(kind string) *ConnectionType {
	for i := range m.ConnectionTypes {
		if m.ConnectionTypes[i].Type == kind {
			return &m.ConnectionTypes[i]
		}
	}
	return nil
}

// Models returns the built-in models.
func Models() []Model {
	return []Model{kaosModel(), bpmnModel(), customModel(), istarModel()}
}

// ModelByID returns the built-in model with the given id. Unknown and empty
// ids resolve to the KAOS model.
func ModelByID(id string) Model {
	for _, m := range Models() {
		if m.ID == id {
			return m
		}
	}
	return kaosModel()
}

// InferModel guesses the model of a diagram that does not name one.
// Any BPMN node kind makes it a process diagram; everything else is KAOS.
func InferModel(nodes []Node) string {
	for _, n := range nodes {
		switch n.Type {
		case KindStartEvent, KindEndEvent, KindTask, KindSubprocess,
			KindGateway, KindPool, KindLane, KindDataObject:
			return ModelBPMN
		}
	}
	return ModelKAOS
}

// RulesFor returns the connection rules of the model with the given id.
func RulesFor(modelID string) Rules {
	return ModelByID(modelID).Rules
}

func kaosModel() Model {
	return Model{
		ID:          ModelKAOS,
		Name:        "KAOS",
		Description: "Goal-oriented requirements engineering",
		NodeTypes: []NodeType{
			{Type: KindGoal, Label: "Goal", Category: "Goal Diagram", DiagramType: "Goal Diagram", Color: "#3b82f6", Description: "A prescriptive statement of intent the system should satisfy"},
			{Type: KindRequirement, Label: "Requirement", Category: "Goal Diagram", DiagramType: "Goal Diagram", Color: "#22c55e", Description: "A goal under the responsibility of a single software agent"},
			{Type: KindExpectation, Label: "Expectation", Category: "Goal Diagram", DiagramType: "Goal Diagram", Color: "#eab308", Description: "A goal under the responsibility of a single environment agent"},
			{Type: KindDomainProperty, Label: "Domain Property", Category: "Goal Diagram", DiagramType: "Goal Diagram", Color: "#a855f7", Description: "A descriptive statement about the environment"},
			{Type: KindObstacle, Label: "Obstacle", Category: "Goal Diagram", DiagramType: "Goal Diagram", Color: "#ef4444", Description: "A condition that prevents a goal from being achieved"},
			{Type: KindAgent, Label: "Agent", Category: "Responsibility Diagram", DiagramType: "Responsibility Diagram", Color: "#eab308", Description: "An active system component"},
			{Type: KindExpectation, Label: "Expectation", Category: "Responsibility Diagram", DiagramType: "Responsibility Diagram", Color: "#eab308"},
			{Type: KindRequirement, Label: "Requirement", Category: "Responsibility Diagram", DiagramType: "Responsibility Diagram", Color: "#22c55e"},
			{Type: KindEntity, Label: "Entity", Category: "Object Diagram", DiagramType: "Object Diagram", Color: "#6b7280", Description: "A passive object of the domain"},
			{Type: KindOperation, Label: "Operation", Category: "Operation Diagram", DiagramType: "Operation Diagram", Color: "#3b82f6", Description: "A state transition performed by an agent"},
			{Type: KindEntity, Label: "Entity", Category: "Operation Diagram", DiagramType: "Operation Diagram", Color: "#6b7280"},
			{Type: KindRequirement, Label: "Requirement", Category: "Operation Diagram", DiagramType: "Operation Diagram", Color: "#22c55e"},
			{Type: KindAgent, Label: "Agent", Category: "Operation Diagram", DiagramType: "Operation Diagram", Color: "#eab308", Description: "An active system component that carries out operations"},
		},
		ConnectionTypes: []ConnectionType{
			{Type: "conflict", Label: "Conflict", Color: "#ef4444", Description: "Indicates conflicting goals",
				PossibleSourceTypes: []string{KindGoal}, PossibleTargetTypes: []string{KindGoal}},
			{Type: "refinement", Label: "Refinement", Color: "#eab308", Description: "Decomposes goals into subgoals"},
			{Type: "responsibility", Label: "Responsibility", Color: "#ef4444", Description: "Shows agent responsibility for goals/requirements"},
			{Type: "operationalization", Label: "Operationalization", Color: "#3b82f6", Description: "Shows how operations implement requirements"},
			{Type: "link", Label: "Link", Color: "#22c55e", Description: "General relationship"},
			{Type: "aggregation", Label: "Aggregation", Color: "#a855f7", Description: "Groups related elements"},
		},
		DiagramTypes: []DiagramType{
			{ID: "goal-diagram", Name: "Goal Diagram", Description: "Model system goals, requirements, and obstacles",
				NodeTypes: []string{KindGoal, KindRequirement, KindExpectation, KindDomainProperty, KindObstacle}},
			{ID: "responsibility-diagram", Name: "Responsibility Diagram", Description: "Show agent responsibilities for requirements",
				NodeTypes: []string{KindAgent, KindExpectation, KindRequirement}},
			{ID: "object-diagram", Name: "Object Diagram", Description: "Model entities and their relationships",
				NodeTypes: []string{KindEntity}},
			{ID: "operation-diagram", Name: "Operation Diagram", Description: "Show operations that implement requirements",
				NodeTypes: []string{KindOperation, KindEntity, KindRequirement, KindAgent}},
		},
		Rules: KAOSRules{},
	}
}

func bpmnModel() Model {
	activities := []string{KindTask, KindSubprocess, KindGateway}
	return Model{
		ID:          ModelBPMN,
		Name:        "BPMN",
		Description: "Business Process Model and Notation - Standard for business process modeling",
		NodeTypes: []NodeType{
			{Type: KindStartEvent, Label: "Start Event", Category: "Events", DiagramType: "Process Diagram", Color: "#22c55e", Description: "The beginning of a process"},
			{Type: KindEndEvent, Label: "End Event", Category: "Events", DiagramType: "Process Diagram", Color: "#ef4444", Description: "The end of a process"},
			{Type: KindTask, Label: "Task", Category: "Activities", DiagramType: "Process Diagram", Color: "#3b82f6", Description: "A unit of work in a process"},
			{Type: KindSubprocess, Label: "Subprocess", Category: "Activities", DiagramType: "Process Diagram", Color: "#a855f7", Description: "A compound activity that contains other activities"},
			{Type: KindGateway, Label: "Gateway", Category: "Gateways", DiagramType: "Process Diagram", Color: "#f97316", Description: "Controls the flow of the process"},
			{Type: KindDataObject, Label: "Data Object", Category: "Data", DiagramType: "Process Diagram", Color: "#6b7280", Description: "Represents data used in the process"},
			{Type: KindPool, Label: "Pool", Category: "Collaboration", DiagramType: "Collaboration Diagram", Color: "#2563eb", Description: "Represents a participant in a collaboration"},
			{Type: KindLane, Label: "Lane", Category: "Collaboration", DiagramType: "Collaboration Diagram", Color: "#60a5fa", Description: "Represents a role or responsibility within a pool"},
		},
		ConnectionTypes: []ConnectionType{
			{Type: EdgeSequenceFlow, Label: "Sequence Flow", Color: "#3b82f6", Description: "Shows the order of activities in a process",
				PossibleSourceTypes: append([]string{KindStartEvent}, activities...),
				PossibleTargetTypes: append([]string{KindEndEvent}, activities...)},
			{Type: EdgeMessageFlow, Label: "Message Flow", Color: "#22c55e", Description: "Shows communication between participants",
				PossibleSourceTypes: append([]string{KindStartEvent}, append(activities, KindPool, KindLane)...),
				PossibleTargetTypes: append([]string{KindEndEvent}, append(activities, KindPool, KindLane)...)},
			{Type: EdgeAssociation, Label: "Association", Color: "#6b7280", Description: "Links data objects to activities",
				PossibleSourceTypes: []string{KindDataObject, KindTask, KindSubprocess},
				PossibleTargetTypes: []string{KindDataObject, KindTask, KindSubprocess}},
		},
		DiagramTypes: []DiagramType{
			{ID: "process-diagram", Name: "Process Diagram", Description: "Model business processes and workflows",
				NodeTypes: []string{KindStartEvent, KindEndEvent, KindTask, KindSubprocess, KindGateway, KindDataObject}},
			{ID: "collaboration-diagram", Name: "Collaboration Diagram", Description: "Model interactions between multiple participants",
				NodeTypes: []string{KindPool, KindLane, KindStartEvent, KindEndEvent, KindTask, KindSubprocess, KindGateway}},
			{ID: "choreography-diagram", Name: "Choreography Diagram", Description: "Model message exchanges between participants",
				NodeTypes: []string{KindStartEvent, KindEndEvent, KindTask, KindGateway}},
		},
		Rules: BPMNRules{},
	}
}

func customModel() Model {
	return Model{
		ID:          ModelCustom,
		Name:        "Custom Model",
		Description: "Create your own modeling framework from scratch",
		Rules:       KAOSRules{},
	}
}

func istarModel() Model {
	return Model{
		ID:          ModelIStar,
		Name:        "i* Framework",
		Description: "A goal-oriented modeling framework for early requirements engineering",
		DiagramTypes: []DiagramType{
			{ID: "sd", Name: "Strategic Dependency Diagram", Description: "Shows dependencies between actors", NodeTypes: []string{}},
			{ID: "sr", Name: "Strategic Rationale Diagram", Description: "Shows internal rationale of actors", NodeTypes: []string{}},
		},
		Rules: PermissiveRules{},
	}
}
