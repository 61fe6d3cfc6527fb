package diagram

import (
	"encoding/json"
	"fmt"
)

// Built-in node kinds.
const (
	KindGoal           = "goal"
	KindRequirement    = "requirement"
	KindExpectation    = "expectation"
	KindDomainProperty = "domainProperty"
	KindObstacle       = "obstacle"
	KindAgent          = "agent"
	KindEntity         = "entity"
	KindOperation      = "operation"

	KindStartEvent = "startEvent"
	KindEndEvent   = "endEvent"
	KindTask       = "task"
	KindSubprocess = "subprocess"
	KindGateway    = "gateway"
	KindPool       = "pool"
	KindLane       = "lane"
	KindDataObject = "dataObject"

	KindCustom = "custom"
)

// TaggedValue is a free-form key/value annotation on a node.
type TaggedValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attribute is a typed field of an entity.
type Attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// NodeData holds the fields every node carries plus a kind-specific payload.
// On the wire the payload fields sit next to the common ones in a flat object.
type NodeData struct {
	Label        string        `json:"label"`
	Description  string        `json:"description,omitempty"`
	Stereotype   string        `json:"stereotype,omitempty"`
	TaggedValues []TaggedValue `json:"taggedValues,omitempty"`
	DiagramType  string        `json:"diagramType,omitempty"`
	IsNew        bool          `json:"isNew,omitempty"`

	Payload Payload `json:"-"`
}

// Payload is the kind-specific part of a node's data.
type Payload interface {
	nodePayload()
}

// GoalPayload is carried by goals, expectations and domain properties.
type GoalPayload struct {
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
}

// RequirementPayload is carried by requirements.
type RequirementPayload struct {
	Priority           string `json:"priority,omitempty"`
	Status             string `json:"status,omitempty"`
	VerificationMethod string `json:"verificationMethod,omitempty"`
}

// ObstaclePayload is carried by obstacles.
type ObstaclePayload struct {
	Severity   string `json:"severity,omitempty"`
	Likelihood string `json:"likelihood,omitempty"`
}

// AgentPayload is carried by agents.
type AgentPayload struct {
	AgentType string `json:"agentType,omitempty"`
}

// EntityPayload is carried by entities and operations.
type EntityPayload struct {
	Attributes []Attribute `json:"attributes,omitempty"`
}

// BPMNPayload is carried by every BPMN kind.
type BPMNPayload struct {
	ProcessID      string `json:"processId,omitempty"`
	ParticipantID  string `json:"participantId,omitempty"`
	LaneID         string `json:"laneId,omitempty"`
	GatewayType    string `json:"gatewayType,omitempty"`
	EventType      string `json:"eventType,omitempty"`
	TaskType       string `json:"taskType,omitempty"`
	SubprocessType string `json:"subprocessType,omitempty"`
	DataObjectType string `json:"dataObjectType,omitempty"`
	PoolType       string `json:"poolType,omitempty"`
}

// CustomPayload is carried by user-defined shapes.
type CustomPayload struct {
	CustomNodeID string   `json:"customNodeId,omitempty"`
	SVGCode      string   `json:"svgCode,omitempty"`
	NodeColor    string   `json:"nodeColor,omitempty"`
	DiagramTypes []string `json:"diagramTypes,omitempty"`
}

func (*GoalPayload) nodePayload()        {}
func (*RequirementPayload) nodePayload() {}
func (*ObstaclePayload) nodePayload()    {}
func (*AgentPayload) nodePayload()       {}
func (*EntityPayload) nodePayload()      {}
func (*BPMNPayload) nodePayload()        {}
func (*CustomPayload) nodePayload()      {}

// newPayload returns an empty payload for kind, or nil if the kind carries none.
func newPayload(kind string) Payload {
	switch kind {
	case KindGoal, KindExpectation, KindDomainProperty:
		return &GoalPayload{}
	case KindRequirement:
		return &RequirementPayload{}
	case KindObstacle:
		return &ObstaclePayload{}
	case KindAgent:
		return &AgentPayload{}
	case KindEntity, KindOperation:
		return &EntityPayload{}
	case KindStartEvent, KindEndEvent, KindTask, KindSubprocess,
		KindGateway, KindPool, KindLane, KindDataObject:
		return &BPMNPayload{}
	case KindCustom:
		return &CustomPayload{}
	}
	return nil
}

// DecodeNodeData decodes the flat data object of a node of the given kind.
// Empty input yields zero data.
func DecodeNodeData(kind string, raw []byte) (NodeData, error) {
	type common NodeData
	var d common
	if len(raw) == 0 || string(raw) == "null" {
		return NodeData{Payload: newPayload(kind)}, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return NodeData{}, fmt.Errorf("decode data: %w", err)
	}
	out := NodeData(d)
	if p := newPayload(kind); p != nil {
		if err := json.Unmarshal(raw, p); err != nil {
			return NodeData{}, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		out.Payload = p
	}
	return out, nil
}

// MarshalJSON flattens the payload fields into the common object.
func (d NodeData) MarshalJSON() ([]byte, error) {
	type common NodeData
	base, err := json.Marshal(common(d))
	if err != nil {
		return nil, err
	}
	if d.Payload == nil {
		return base, nil
	}
	extra, err := json.Marshal(d.Payload)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	var payloadFields map[string]json.RawMessage
	if err := json.Unmarshal(extra, &payloadFields); err != nil {
		return nil, err
	}
	for k, v := range payloadFields {
		fields[k] = v
	}
	return json.Marshal(fields)
}
