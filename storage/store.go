// Package storage persists resolved models per vocabulary version in a NATS
// JetStream KV bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/source"
)

// DefaultBucket is the KV bucket holding models.
const DefaultBucket = "SEMSCHEMA_MODELS"

// Record is one stored model. Records are compressed with zstd since a full
// schema.org model exceeds the default NATS payload limit as plain JSON.
type Record struct {
	ID         string           `json:"id"`
	Version    string           `json:"version"`
	RunID      string           `json:"run_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	Schemas    int              `json:"schemas"`
	Properties int              `json:"properties"`
	Model      *hierarchy.Model `json:"model"`
}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	decoder, _ = zstd.NewReader(nil)
)

// Store provides model storage operations backed by NATS KV.
type Store struct {
	models jetstream.KeyValue
	now    func() time.Time
}

// NewStore creates a Store on the named bucket, creating the bucket if it
// doesn't exist.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create models bucket: %w", err)
	}
	return New(kv), nil
}

// New wraps an existing KV bucket.
func New(kv jetstream.KeyValue) *Store {
	return &Store{models: kv, now: time.Now}
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Semschema %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions
	})
}

// Put stores rec under its version, assigning ID and CreatedAt. It returns
// the new revision.
func (s *Store) Put(ctx context.Context, rec *Record) (uint64, error) {
	if rec.Version == "" {
		return 0, fmt.Errorf("%w: empty version", ErrInvalidKey)
	}
	if rec.Model == nil {
		return 0, errors.New("store model: nil model")
	}
	rec.ID = uuid.New().String()
	rec.CreatedAt = s.now().UTC()
	rec.Schemas = len(rec.Model.Schemas)
	rec.Properties = len(rec.Model.Properties)

	data, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}

	rev, err := s.models.Put(ctx, Key(rec.Version), encoder.EncodeAll(data, nil))
	if err != nil {
		return 0, fmt.Errorf("store model %s: %w", rec.Version, err)
	}
	return rev, nil
}

// Get retrieves the current record for version.
func (s *Store) Get(ctx context.Context, version string) (*Record, error) {
	entry, err := s.models.Get(ctx, Key(version))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get model %s: %w", version, err)
	}
	return decodeRecord(entry.Value())
}

// History returns the retained revisions of version, oldest first. Delete
// markers are skipped.
func (s *Store) History(ctx context.Context, version string) ([]*Record, error) {
	entries, err := s.models.History(ctx, Key(version))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("model history %s: %w", version, err)
	}

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		if entry.Operation() != jetstream.KeyValuePut {
			continue
		}
		rec, err := decodeRecord(entry.Value())
		if err != nil {
			return nil, fmt.Errorf("revision %d: %w", entry.Revision(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Versions returns the stored versions, lowest first.
func (s *Store) Versions(ctx context.Context) ([]string, error) {
	keys, err := s.models.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list model keys: %w", err)
	}

	versions := make([]string, 0, len(keys))
	for _, key := range keys {
		version, err := VersionFromKey(key)
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	slices.SortFunc(versions, source.CompareVersions)
	return versions, nil
}

// Latest retrieves the record with the highest version.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	versions, err := s.Versions(ctx)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, versions[len(versions)-1])
}

// Delete removes the model stored for version.
func (s *Store) Delete(ctx context.Context, version string) error {
	if err := s.models.Delete(ctx, Key(version)); err != nil {
		return fmt.Errorf("delete model %s: %w", version, err)
	}
	return nil
}

func decodeRecord(value []byte) (*Record, error) {
	data, err := decoder.DecodeAll(value, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) || (err != nil && strings.Contains(err.Error(), "key not found"))
}
