package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/goccy/go-json"

	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormats validates format names, accepting the file extension without
// the dot as an alias ("ttl", "nt").
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		found := false
		for f, info := range FormatRegistry {
			if name == string(f) || "."+name == info.Extension {
				formats = append(formats, f)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unsupported format: %s", name)
		}
	}
	return formats, nil
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes []Prefix
	sb       strings.Builder
	subject  string
}

// NewTurtleWriter creates a new Turtle writer.
func NewTurtleWriter(prefixes []Prefix) *TurtleWriter {
	return &TurtleWriter{prefixes: prefixes}
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	for _, p := range w.prefixes {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", p.Name, p.IRI))
	}
}

// WriteQuad appends one statement, grouping consecutive statements about the
// same subject into a single block.
func (w *TurtleWriter) WriteQuad(q quad.Quad) {
	subject := w.term(q.Subject)
	if subject != w.subject {
		w.endSubject()
		w.sb.WriteString("\n" + subject + "\n")
		w.subject = subject
	} else {
		w.sb.WriteString(" ;\n")
	}

	predicate := w.term(q.Predicate)
	if iri, ok := q.Predicate.(quad.IRI); ok && string(iri) == schemaorg.RDFType {
		predicate = "a"
	}
	w.sb.WriteString(fmt.Sprintf("    %s %s", predicate, w.term(q.Object)))
}

func (w *TurtleWriter) endSubject() {
	if w.subject != "" {
		w.sb.WriteString(" .\n")
	}
}

func (w *TurtleWriter) term(v quad.Value) string {
	switch t := v.(type) {
	case quad.IRI:
		if compact, ok := compactIRI(w.prefixes, string(t)); ok {
			return compact
		}
		return "<" + string(t) + ">"
	case quad.String:
		return `"` + escapeString(string(t)) + `"`
	default:
		return v.String()
	}
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	w.endSubject()
	w.subject = ""
	return w.sb.String()
}

func writeTurtle(out io.Writer, prefixes []Prefix, quads []quad.Quad) error {
	w := NewTurtleWriter(prefixes)
	w.WritePrefixes()
	for _, q := range quads {
		w.WriteQuad(q)
	}
	_, err := io.WriteString(out, w.String())
	return err
}

func writeNTriples(out io.Writer, quads []quad.Quad) error {
	w := nquads.NewWriter(out)
	for _, q := range quads {
		if err := w.WriteQuad(q); err != nil {
			return fmt.Errorf("write n-triples: %w", err)
		}
	}
	return w.Close()
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	for k, v := range n.Properties {
		m[k] = v
	}
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	return json.Marshal(m)
}

// JSONLDWriter writes RDF in JSON-LD format.
type JSONLDWriter struct {
	prefixes []Prefix
	doc      JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer whose @context declares
// prefixes.
func NewJSONLDWriter(prefixes []Prefix) *JSONLDWriter {
	ctx := make(map[string]any, len(prefixes))
	for _, p := range prefixes {
		ctx[p.Name] = p.IRI
	}
	return &JSONLDWriter{
		prefixes: prefixes,
		doc: JSONLDDocument{
			Context: ctx,
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// WriteQuad adds one statement. Statements about the same subject must be
// contiguous.
func (w *JSONLDWriter) WriteQuad(q quad.Quad) {
	id := w.compact(q.Subject)
	if len(w.doc.Graph) == 0 || w.doc.Graph[len(w.doc.Graph)-1].ID != id {
		w.doc.Graph = append(w.doc.Graph, JSONLDNode{ID: id, Properties: make(map[string]any)})
	}
	node := &w.doc.Graph[len(w.doc.Graph)-1]

	if iri, ok := q.Predicate.(quad.IRI); ok && string(iri) == schemaorg.RDFType {
		node.Type = append(node.Type, w.compact(q.Object))
		return
	}

	key := w.compact(q.Predicate)
	var value any
	switch o := q.Object.(type) {
	case quad.IRI:
		value = map[string]string{"@id": w.compact(o)}
	case quad.String:
		value = string(o)
	default:
		value = o.String()
	}

	switch existing := node.Properties[key].(type) {
	case nil:
		node.Properties[key] = value
	case []any:
		node.Properties[key] = append(existing, value)
	default:
		node.Properties[key] = []any{existing, value}
	}
}

func (w *JSONLDWriter) compact(v quad.Value) string {
	if iri, ok := v.(quad.IRI); ok {
		if compact, ok := compactIRI(w.prefixes, string(iri)); ok {
			return compact
		}
		return string(iri)
	}
	return v.String()
}

// Bytes returns the indented JSON-LD document.
func (w *JSONLDWriter) Bytes() ([]byte, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json-ld: %w", err)
	}
	return append(data, '\n'), nil
}

func writeJSONLD(out io.Writer, prefixes []Prefix, quads []quad.Quad) error {
	w := NewJSONLDWriter(prefixes)
	for _, q := range quads {
		w.WriteQuad(q)
	}
	data, err := w.Bytes()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
