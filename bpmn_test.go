package diagram

import (
	"strings"
	"testing"
)

func bpmnNode(id, kind, participant string) Node {
	return Node{ID: id, Type: kind, Data: NodeData{Label: id, Payload: &BPMNPayload{ParticipantID: participant}}}
}

func TestBPMNRules(t *testing.T) {
	nodes := []Node{
		bpmnNode("start", KindStartEvent, "p1"),
		bpmnNode("end", KindEndEvent, "p1"),
		bpmnNode("task", KindTask, "p1"),
		bpmnNode("sub", KindSubprocess, "p1"),
		bpmnNode("gw", KindGateway, "p1"),
		bpmnNode("data", KindDataObject, ""),
		bpmnNode("pool2", KindPool, "p2"),
		bpmnNode("task2", KindTask, "p2"),
	}

	tests := []struct {
		name         string
		source       string
		target       string
		edgeType     string
		wantValid    bool
		wantSeverity Severity
		wantMessage  string
	}{
		{"SequenceTaskToTask", "task", "sub", EdgeSequenceFlow, true, "", ""},
		{"SequenceFromStart", "start", "task", EdgeSequenceFlow, true, SeverityInfo, "Start event can have only one outgoing sequence flow"},
		{"SequenceToEnd", "gw", "end", EdgeSequenceFlow, true, SeverityInfo, "End event can have only one incoming sequence flow"},
		{"SequenceFromEnd", "end", "task", EdgeSequenceFlow, false, SeverityError, "Sequence flow cannot start from endEvent"},
		{"SequenceIntoStart", "task", "start", EdgeSequenceFlow, false, SeverityError, "Sequence flow cannot end at startEvent"},
		{"SequenceFromData", "data", "task", EdgeSequenceFlow, false, SeverityError, "Sequence flow cannot start from dataObject"},
		{"SelfConnection", "task", "task", EdgeSequenceFlow, false, SeverityError, "Cannot connect a node to itself"},
		{"MessageAcrossParticipants", "task", "task2", EdgeMessageFlow, true, "", ""},
		{"MessageToPool", "gw", "pool2", EdgeMessageFlow, true, "", ""},
		{"MessageSameParticipant", "task", "sub", EdgeMessageFlow, false, SeverityWarning, "Message flow should connect different participants"},
		{"MessageToEnd", "task2", "end", EdgeMessageFlow, false, SeverityError, "Message flow cannot end at endEvent"},
		{"MessageFromData", "data", "task2", EdgeMessageFlow, false, SeverityError, "Message flow cannot start from dataObject"},
		{"AssociationDataToTask", "data", "task", EdgeAssociation, true, "", ""},
		{"AssociationTaskToData", "sub", "data", EdgeAssociation, true, "", ""},
		{"AssociationTaskToTask", "task", "sub", EdgeAssociation, false, SeverityError, "Association must have at least one data object"},
		{"AssociationEvents", "start", "end", EdgeAssociation, false, SeverityError, "Association must connect a data object to an activity"},
		{"UnknownKind", "start", "end", "annotation", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := BPMNRules{}.Validate(Connection{Source: tt.source, Target: tt.target}, nodes, tt.edgeType, nil)
			if res.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (%q)", res.Valid, tt.wantValid, res.Message)
			}
			if res.Severity != tt.wantSeverity {
				t.Errorf("Severity = %q, want %q", res.Severity, tt.wantSeverity)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", res.Message, tt.wantMessage)
			}
		})
	}
}

func TestBPMNRulesCustomConnection(t *testing.T) {
	nodes := []Node{bpmnNode("task", KindTask, ""), bpmnNode("gw", KindGateway, "")}
	cat := &Catalog{}
	def := cat.AddConnection(CustomConnectionDefinition{Name: "escalates", PossibleTargetTypes: []string{KindTask}})

	res := BPMNRules{}.Validate(Connection{Source: "task", Target: "gw"}, nodes, def.ID, cat)
	if res.Valid || res.Code != CodeTargetTypeNotAllowed {
		t.Errorf("got %+v, want target refused", res)
	}
	res = BPMNRules{}.Validate(Connection{Source: "gw", Target: "task"}, nodes, def.ID, cat)
	if !res.Valid {
		t.Errorf("got %+v, want valid", res)
	}
}

func TestValidateProcess(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		nodes := []Node{
			bpmnNode("s", KindStartEvent, ""),
			bpmnNode("t", KindTask, ""),
			bpmnNode("e", KindEndEvent, ""),
			bpmnNode("d", KindDataObject, ""),
		}
		edges := []Edge{{Source: "s", Target: "t"}, {Source: "t", Target: "e"}}
		if got := ValidateProcess(nodes, edges); len(got) != 0 {
			t.Errorf("got %d findings, want none: %+v", len(got), got)
		}
	})

	t.Run("MissingEventsAndOrphan", func(t *testing.T) {
		nodes := []Node{bpmnNode("t1", KindTask, ""), bpmnNode("t2", KindTask, ""), bpmnNode("lost", KindGateway, "")}
		edges := []Edge{{Source: "t1", Target: "t2"}}

		got := ValidateProcess(nodes, edges)
		if len(got) != 3 {
			t.Fatalf("got %d findings, want 3: %+v", len(got), got)
		}
		if got[0].Message != "Process must have at least one start event" || got[0].Severity != SeverityError {
			t.Errorf("first = %+v", got[0])
		}
		if got[1].Message != "Process must have at least one end event" {
			t.Errorf("second = %+v", got[1])
		}
		if got[2].Severity != SeverityWarning || !strings.Contains(got[2].Message, `"lost"`) {
			t.Errorf("third = %+v", got[2])
		}
	})
}
