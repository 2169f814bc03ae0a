// Package graph publishes resolved schema.org classes and properties to the
// knowledge graph as entities with triples.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/goccy/go-json"

	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// Subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// SourceName is recorded on every published triple.
const SourceName = "semschema.resolve"

// StreamPublisher is the part of natsclient.Client the publisher uses.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Publisher turns a resolved model into entity messages.
type Publisher struct {
	client StreamPublisher
	now    func() time.Time
	logger *slog.Logger
}

// NewPublisher creates a publisher. A nil client makes every publish a no-op,
// so pass an untyped nil rather than a nil *natsclient.Client.
func NewPublisher(client StreamPublisher, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, now: time.Now, logger: logger}
}

// PublishModel publishes one entity per class and per property of m. It
// returns the number of entities published.
func (p *Publisher) PublishModel(ctx context.Context, version string, m *hierarchy.Model) (int, error) {
	if p.client == nil {
		return 0, nil // Skip publishing if no NATS client (graceful degradation)
	}

	entities, err := Entities(version, m, p.now())
	if err != nil {
		return 0, err
	}
	for i, e := range entities {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := p.publish(ctx, e); err != nil {
			return i, err
		}
	}
	p.logger.Info("Published vocabulary entities",
		"version", version,
		"entities", len(entities))
	return len(entities), nil
}

func (p *Publisher) publish(ctx context.Context, e *EntityPayload) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid entity %s: %w", e.EntityID_, err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entity %s: %w", e.EntityID_, err)
	}
	if err := p.client.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", e.EntityID_, err)
	}
	return nil
}

// Entities builds the class and property entities of m, classes first, each
// group in label order. Specificity paths are recomputed from the model's
// parent lists with every root seeded.
func Entities(version string, m *hierarchy.Model, now time.Time) ([]*EntityPayload, error) {
	g := m.Graph()
	if _, err := hierarchy.ComputeSpecificityPaths(g, hierarchy.RootPolicyAll); err != nil {
		return nil, fmt.Errorf("compute specificity paths: %w", err)
	}

	entities := make([]*EntityPayload, 0, len(m.Schemas)+len(m.Properties))
	for _, label := range m.Labels() {
		node, _ := g.Node(label)
		entities = append(entities, classEntity(version, label, m.Schemas[label], node, now))
	}
	for _, label := range m.PropertyLabels() {
		entities = append(entities, propertyEntity(version, label, m.Properties[label], now))
	}
	return entities, nil
}

func classEntity(version, label string, s *hierarchy.ResolvedSchema, node *hierarchy.Node, now time.Time) *EntityPayload {
	id := ClassEntityID(version, label)
	t := tripleBuilder{subject: id, now: now}

	t.add(schemaorg.ClassLabelPredicate, label)
	t.add(schemaorg.ClassVersion, version)
	for _, parent := range s.Parents {
		t.add(schemaorg.ClassParent, ClassEntityID(version, parent))
	}
	for _, child := range s.Children {
		t.add(schemaorg.ClassChild, ClassEntityID(version, child))
	}
	for _, prop := range s.Properties.Own {
		t.add(schemaorg.ClassOwnProperty, prop)
	}
	if node != nil {
		for _, path := range node.SpecificityPaths {
			t.add(schemaorg.ClassSpecificityPath, path)
		}
	}
	return &EntityPayload{EntityID_: id, TripleData: t.triples, UpdatedAt: now}
}

func propertyEntity(version, label string, e hierarchy.PropertyEntry, now time.Time) *EntityPayload {
	id := PropertyEntityID(version, label)
	t := tripleBuilder{subject: id, now: now}

	t.add(schemaorg.PropertyLabelPredicate, label)
	for _, class := range e.UsedIn {
		t.add(schemaorg.PropertyUsedIn, ClassEntityID(version, class))
	}
	for _, class := range e.ValueTypes {
		t.add(schemaorg.PropertyValueType, ClassEntityID(version, class))
	}
	return &EntityPayload{EntityID_: id, TripleData: t.triples, UpdatedAt: now}
}

type tripleBuilder struct {
	subject string
	now     time.Time
	triples []message.Triple
}

func (b *tripleBuilder) add(predicate string, object any) {
	b.triples = append(b.triples, message.Triple{
		Subject:    b.subject,
		Predicate:  predicate,
		Object:     object,
		Source:     SourceName,
		Timestamp:  b.now,
		Confidence: 1.0,
	})
}

// ClassEntityID generates a consistent entity ID for a class.
// Format: schemaorg.<version>.vocabulary.schema.class.<label>
func ClassEntityID(version, label string) string {
	return fmt.Sprintf("schemaorg.%s.vocabulary.schema.class.%s", versionToken(version), label)
}

// PropertyEntityID generates a consistent entity ID for a property.
// Format: schemaorg.<version>.vocabulary.schema.property.<label>
func PropertyEntityID(version, label string) string {
	return fmt.Sprintf("schemaorg.%s.vocabulary.schema.property.%s", versionToken(version), label)
}

// versionToken keeps the version a single dotted-ID segment.
func versionToken(version string) string {
	if version == "" {
		return "unversioned"
	}
	return strings.ReplaceAll(version, ".", "-")
}
