package graph

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/goccy/go-json"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "graph",
		Category:    "entity",
		Version:     "v1",
		Description: "Entity payload for graph ingestion with triples",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// EntityType is the message type for graph entity payloads.
var EntityType = message.Type{Domain: "graph", Category: "entity", Version: "v1"}

// EntityPayload is one entity with its triples, as published on
// GraphIngestSubject.
type EntityPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (e *EntityPayload) EntityID() string          { return e.EntityID_ }
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }
func (e *EntityPayload) Schema() message.Type      { return EntityType }

// ErrInvalidEntity is returned by Validate.
var ErrInvalidEntity = errors.New("invalid vocabulary entity")

const entityIDPrefix = "schemaorg."

// Validate checks that the payload describes a single vocabulary entity: a
// schemaorg ID, at least one triple, and every triple about that ID.
func (e *EntityPayload) Validate() error {
	if e.EntityID_ == "" {
		return fmt.Errorf("%w: entity ID is required", ErrInvalidEntity)
	}
	if !strings.HasPrefix(e.EntityID_, entityIDPrefix) {
		return fmt.Errorf("%w: %s is not a schemaorg entity ID", ErrInvalidEntity, e.EntityID_)
	}
	if len(e.TripleData) == 0 {
		return fmt.Errorf("%w: %s has no triples", ErrInvalidEntity, e.EntityID_)
	}
	for _, t := range e.TripleData {
		if t.Subject != e.EntityID_ {
			return fmt.Errorf("%w: triple %s has subject %s, want %s", ErrInvalidEntity, t.Predicate, t.Subject, e.EntityID_)
		}
	}
	return nil
}

func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
