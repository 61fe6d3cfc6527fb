package diagram

import "fmt"

// BPMN connection kinds.
const (
	EdgeSequenceFlow = "sequenceFlow"
	EdgeMessageFlow  = "messageFlow"
	EdgeAssociation  = "association"
)

var (
	sequenceSources = kinds(KindStartEvent, KindTask, KindSubprocess, KindGateway)
	sequenceTargets = kinds(KindEndEvent, KindTask, KindSubprocess, KindGateway)
	messageEnds     = kinds(KindStartEvent, KindTask, KindSubprocess, KindGateway, KindPool, KindLane)
	associationEnds = kinds(KindDataObject, KindTask, KindSubprocess)
)

func kinds(ks ...string) map[string]bool {
	m := make(map[string]bool, len(ks))
	for _, k := range ks {
		m[k] = true
	}
	return m
}

// BPMNRules validates process-diagram connections.
type BPMNRules struct{}

// Validate implements Rules.
func (BPMNRules) Validate(conn Connection, nodes []Node, edgeType string, cat *Catalog) Result {
	source := FindNode(nodes, conn.Source)
	target := FindNode(nodes, conn.Target)
	if source == nil || target == nil {
		return deny(CodeNodeNotFound, "Source or target node not found")
	}
	if conn.Source == conn.Target {
		return deny(CodeSelfConnection, "Cannot connect a node to itself")
	}

	switch edgeType {
	case EdgeSequenceFlow:
		return sequenceFlow(source, target)
	case EdgeMessageFlow:
		return messageFlow(source, target)
	case EdgeAssociation:
		return association(source, target)
	}
	if def := cat.Connection(edgeType); def != nil {
		return checkCustomConnection(def, source, target, cat)
	}
	return allow()
}

func sequenceFlow(source, target *Node) Result {
	if !sequenceSources[source.Type] {
		return deny(CodeInvalidFlow, fmt.Sprintf("Sequence flow cannot start from %s", source.Type))
	}
	if !sequenceTargets[target.Type] {
		return deny(CodeInvalidFlow, fmt.Sprintf("Sequence flow cannot end at %s", target.Type))
	}
	switch {
	case source.Type == KindStartEvent:
		return Result{Valid: true, Message: "Start event can have only one outgoing sequence flow", Severity: SeverityInfo}
	case target.Type == KindEndEvent:
		return Result{Valid: true, Message: "End event can have only one incoming sequence flow", Severity: SeverityInfo}
	}
	return allow()
}

func messageFlow(source, target *Node) Result {
	if !messageEnds[source.Type] {
		return deny(CodeInvalidFlow, fmt.Sprintf("Message flow cannot start from %s", source.Type))
	}
	if !messageEnds[target.Type] {
		return deny(CodeInvalidFlow, fmt.Sprintf("Message flow cannot end at %s", target.Type))
	}
	sp, tp := source.ParticipantID(), target.ParticipantID()
	if sp != "" && sp == tp {
		return Result{
			Valid:    false,
			Message:  "Message flow should connect different participants",
			Code:     CodeInvalidFlow,
			Severity: SeverityWarning,
		}
	}
	return allow()
}

func association(source, target *Node) Result {
	if !associationEnds[source.Type] && !associationEnds[target.Type] {
		return deny(CodeInvalidFlow, "Association must connect a data object to an activity")
	}
	if source.Type != KindDataObject && target.Type != KindDataObject {
		return deny(CodeInvalidFlow, "Association must have at least one data object")
	}
	return allow()
}

// ValidateProcess checks a whole process diagram: it needs a start event and
// an end event, and every node other than data objects should be connected.
func ValidateProcess(nodes []Node, edges []Edge) []Result {
	var results []Result

	var starts, ends int
	for _, n := range nodes {
		switch n.Type {
		case KindStartEvent:
			starts++
		case KindEndEvent:
			ends++
		}
	}
	if starts == 0 {
		results = append(results, deny(CodeInvalidFlow, "Process must have at least one start event"))
	}
	if ends == 0 {
		results = append(results, deny(CodeInvalidFlow, "Process must have at least one end event"))
	}

	connected := make(map[string]bool, len(edges)*2)
	for _, e := range edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}
	for _, n := range nodes {
		if connected[n.ID] || n.Type == KindDataObject {
			continue
		}
		name := n.Data.Label
		if name == "" {
			name = n.ID
		}
		results = append(results, Result{
			Valid:    false,
			Message:  fmt.Sprintf("Node %q is not connected to the process flow", name),
			Code:     CodeInvalidFlow,
			Severity: SeverityWarning,
		})
	}
	return results
}
