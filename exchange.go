package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FormatVersion is written into every exported document.
const FormatVersion = "1.0.0"

// Document is the portable JSON form of a diagram with the extensions it uses.
type Document struct {
	Model             string                       `json:"model,omitempty"`
	Nodes             []Node                       `json:"nodes"`
	Edges             []Edge                       `json:"edges"`
	CustomNodes       []CustomNodeDefinition       `json:"customNodes"`
	CustomConnections []CustomConnectionDefinition `json:"customConnections"`
	Version           string                       `json:"version"`
}

// ErrorCode classifies exchange failures.
type ErrorCode string

const (
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidJSON   ErrorCode = "INVALID_JSON"
	ErrCodeIO            ErrorCode = "IO_ERROR"
)

// Error is a coded exchange error.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Export packages d and the catalog for download.
func Export(d *Diagram, cat *Catalog) *Document {
	doc := &Document{
		Model:             d.Model,
		Nodes:             d.Nodes,
		Edges:             d.Edges,
		CustomNodes:       []CustomNodeDefinition{},
		CustomConnections: []CustomConnectionDefinition{},
		Version:           FormatVersion,
	}
	if doc.Nodes == nil {
		doc.Nodes = []Node{}
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	if cat != nil {
		doc.CustomNodes = append(doc.CustomNodes, cat.CustomNodes...)
		doc.CustomConnections = append(doc.CustomConnections, cat.CustomConnections...)
	}
	return doc
}

// ModelID returns the model named by the document, or the one inferred from
// its nodes when the document predates the model field.
func (doc *Document) ModelID() string {
	if doc.Model != "" {
		return doc.Model
	}
	return InferModel(doc.Nodes)
}

// Diagram returns the document's diagram under the given id.
func (doc *Document) Diagram(id string) *Diagram {
	return &Diagram{ID: id, Model: doc.ModelID(), Nodes: doc.Nodes, Edges: doc.Edges}
}

// Catalog returns the extensions carried by the document.
func (doc *Document) Catalog() *Catalog {
	return &Catalog{CustomNodes: doc.CustomNodes, CustomConnections: doc.CustomConnections}
}

// WriteDocument writes doc as indented JSON.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return &Error{Code: ErrCodeIO, Message: "write document", Cause: err}
	}
	return nil
}

// ReadDocument parses and checks an exported document. Nodes and edges
// must be arrays and a version must be present. SVG code that is not a
// string is converted to one.
func ReadDocument(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Code: ErrCodeIO, Message: "read document", Cause: err}
	}

	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, &Error{Code: ErrCodeInvalidJSON, Message: "Invalid JSON format", Cause: err}
	}
	if _, ok := top["nodes"].([]any); !ok {
		return nil, &Error{Code: ErrCodeInvalidFormat, Message: "Missing nodes or edges data"}
	}
	if _, ok := top["edges"].([]any); !ok {
		return nil, &Error{Code: ErrCodeInvalidFormat, Message: "Missing nodes or edges data"}
	}
	if v, ok := top["version"].(string); !ok || v == "" {
		return nil, &Error{Code: ErrCodeInvalidFormat, Message: "Missing version information"}
	}

	if defs, ok := top["customNodes"].([]any); ok {
		for _, d := range defs {
			def, ok := d.(map[string]any)
			if !ok {
				continue
			}
			if svg, present := def["svgCode"]; present && svg != nil {
				if _, isString := svg.(string); !isString {
					def["svgCode"] = fmt.Sprint(svg)
				}
			}
		}
		if raw, err = json.Marshal(top); err != nil {
			return nil, &Error{Code: ErrCodeInvalidFormat, Message: "re-encode document", Cause: err}
		}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Code: ErrCodeInvalidFormat, Message: "Invalid diagram data", Cause: err}
	}
	return &doc, nil
}
