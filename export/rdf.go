// Package export serializes resolved models as RDF: Turtle, N-Triples and
// JSON-LD.
package export

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/output"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Options configures an exporter.
type Options struct {
	// Profile selects the statements to include.
	Profile Profile

	// BaseIRI prefixes class and property labels. Defaults to the schema.org
	// namespace.
	BaseIRI string

	// Descriptions maps labels to markdown comments, used by profiles that
	// include comments.
	Descriptions map[string]string
}

// Prefix is a namespace prefix used by Turtle and JSON-LD output.
type Prefix struct {
	Name string
	IRI  string
}

// RDFExporter exports resolved models to RDF.
type RDFExporter struct {
	profile      ProfileConfig
	baseIRI      string
	descriptions map[string]string
	prefixes     []Prefix
}

// NewRDFExporter creates a new RDF exporter.
func NewRDFExporter(opts Options) *RDFExporter {
	base := opts.BaseIRI
	if base == "" {
		base = schemaorg.Namespace
	}
	return &RDFExporter{
		profile:      GetProfileConfig(opts.Profile),
		baseIRI:      base,
		descriptions: opts.Descriptions,
		prefixes:     defaultPrefixes(base),
	}
}

// defaultPrefixes returns the namespace prefixes in declaration order.
func defaultPrefixes(base string) []Prefix {
	prefixes := []Prefix{
		{Name: "rdf", IRI: schemaorg.RDFNamespace},
		{Name: "rdfs", IRI: schemaorg.RDFSNamespace},
		{Name: "schema", IRI: schemaorg.Namespace},
	}
	if base != schemaorg.Namespace {
		prefixes = append(prefixes, Prefix{Name: "vocab", IRI: base})
	}
	return prefixes
}

// Prefixes returns the prefixes used for compact output.
func (e *RDFExporter) Prefixes() []Prefix {
	return e.prefixes
}

// IRI returns the IRI of a class or property label.
func (e *RDFExporter) IRI(label string) quad.IRI {
	return quad.IRI(e.baseIRI + label)
}

// Statements returns the model as triples: classes in label order, then
// properties in label order when the profile includes them. Each resource's
// statements are contiguous.
func (e *RDFExporter) Statements(m *hierarchy.Model) []quad.Quad {
	var quads []quad.Quad
	add := func(s, p quad.IRI, o quad.Value) {
		quads = append(quads, quad.Quad{Subject: s, Predicate: p, Object: o})
	}

	for _, label := range m.Labels() {
		s := e.IRI(label)
		add(s, schemaorg.RDFType, quad.IRI(schemaorg.RDFSClass))
		add(s, schemaorg.RDFSLabel, quad.String(label))
		for _, parent := range m.Schemas[label].Parents {
			add(s, schemaorg.RDFSSubClassOf, e.IRI(parent))
		}
		e.addComment(add, s, label)
	}

	if !e.profile.IncludeProperties {
		return quads
	}
	for _, label := range m.PropertyLabels() {
		entry := m.Properties[label]
		s := e.IRI(label)
		add(s, schemaorg.RDFType, quad.IRI(schemaorg.RDFProperty))
		add(s, schemaorg.RDFSLabel, quad.String(label))
		for _, class := range entry.UsedIn {
			add(s, schemaorg.DomainIncludes, e.IRI(class))
		}
		for _, class := range entry.ValueTypes {
			add(s, schemaorg.RangeIncludes, e.IRI(class))
		}
		e.addComment(add, s, label)
	}
	return quads
}

func (e *RDFExporter) addComment(add func(s, p quad.IRI, o quad.Value), s quad.IRI, label string) {
	if !e.profile.IncludeComments {
		return
	}
	if comment, ok := e.descriptions[label]; ok && comment != "" {
		add(s, schemaorg.RDFSComment, quad.String(comment))
	}
}

// Export writes m to w in the given format.
func (e *RDFExporter) Export(w io.Writer, format Format, m *hierarchy.Model) error {
	quads := e.Statements(m)
	switch format {
	case FormatTurtle:
		return writeTurtle(w, e.prefixes, quads)
	case FormatNTriples:
		return writeNTriples(w, quads)
	case FormatJSONLD:
		return writeJSONLD(w, e.prefixes, quads)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFiles writes m once per format to dir/<name><extension> and returns
// the written paths.
func (e *RDFExporter) WriteFiles(dir, name string, formats []Format, m *hierarchy.Model) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		info, ok := GetFormatInfo(format)
		if !ok {
			return paths, fmt.Errorf("unsupported format: %s", format)
		}
		var buf bytes.Buffer
		if err := e.Export(&buf, format, m); err != nil {
			return paths, fmt.Errorf("export %s: %w", format, err)
		}
		path := filepath.Join(dir, name+info.Extension)
		if err := output.WriteFileAtomic(path, buf.Bytes()); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// compactIRI returns prefix:local for IRIs under a known prefix whose local
// part is a plain name, otherwise <iri>.
func compactIRI(prefixes []Prefix, iri string) (string, bool) {
	best := Prefix{}
	for _, p := range prefixes {
		if strings.HasPrefix(iri, p.IRI) && len(p.IRI) > len(best.IRI) {
			best = p
		}
	}
	if best.Name == "" {
		return "", false
	}
	local := iri[len(best.IRI):]
	if !isPlainName(local) {
		return "", false
	}
	return best.Name + ":" + local, true
}

func isPlainName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
