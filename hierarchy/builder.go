package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360studio/semschema/jsonld"
)

// VersionSource resolves the schema.org release to build.
type VersionSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// DataSource returns the raw @graph items of a release.
type DataSource interface {
	Fetch(ctx context.Context, version string) ([]jsonld.Item, error)
}

// Stats counts items at each stage of a build.
type Stats struct {
	Raw               int
	Active            int
	Schemas           int
	Properties        int
	DroppedProperties int
	Placeholders      int
}

// Builder runs the resolution stages in order and keeps every intermediate
// result. Each stage fails with ErrPrecondition when its input is missing.
// A Builder is used for a single build.
type Builder struct {
	versions VersionSource
	data     DataSource
	filter   jsonld.ArchiveFilter
	policy   RootPolicy
	logger   *slog.Logger

	parseProperties func([]jsonld.Item) (*PropertyMap, int, error)
	parseSchemas    func([]jsonld.Item) (*Graph, error)

	Version          string
	SchemasRaw       []jsonld.Item
	PropertiesRaw    []jsonld.Item
	ParsedProperties *PropertyMap
	ParsedSchemas    *Graph
	Paths            PathReport
	Model            *Model
	Stats            Stats
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithArchiveFilter replaces the default archive filter.
func WithArchiveFilter(f jsonld.ArchiveFilter) Option {
	return func(b *Builder) { b.filter = f }
}

// WithRootPolicy selects which roots seed specificity paths.
func WithRootPolicy(p RootPolicy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithPropertiesParser replaces ParseProperties.
func WithPropertiesParser(fn func([]jsonld.Item) (*PropertyMap, int, error)) Option {
	return func(b *Builder) { b.parseProperties = fn }
}

// WithSchemasParser replaces ParseSchemas.
func WithSchemasParser(fn func([]jsonld.Item) (*Graph, error)) Option {
	return func(b *Builder) { b.parseSchemas = fn }
}

// NewBuilder creates a builder reading from the given sources.
func NewBuilder(versions VersionSource, data DataSource, opts ...Option) *Builder {
	b := &Builder{
		versions:        versions,
		data:            data,
		policy:          RootPolicyFirst,
		parseProperties: ParseProperties,
		parseSchemas:    ParseSchemas,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// FetchVersion resolves the release version.
func (b *Builder) FetchVersion(ctx context.Context) error {
	if b.versions == nil {
		return fmt.Errorf("%w: no version source configured", ErrPrecondition)
	}
	version, err := b.versions.LatestVersion(ctx)
	if err != nil {
		return fmt.Errorf("fetch schema version: %w", err)
	}
	if version == "" {
		return fmt.Errorf("%w: version source returned an empty version", ErrPrecondition)
	}
	b.Version = version
	b.logger.Info("Resolved schema.org version", "version", version)
	return nil
}

// FetchData downloads the release, drops archived items and splits the rest
// into schemas and properties.
func (b *Builder) FetchData(ctx context.Context) error {
	if b.Version == "" {
		return fmt.Errorf("%w: fetch schema version first, it is needed for downloading schema data for that version", ErrPrecondition)
	}
	if b.data == nil {
		return fmt.Errorf("%w: no data source configured", ErrPrecondition)
	}

	items, err := b.data.Fetch(ctx, b.Version)
	if err != nil {
		return fmt.Errorf("fetch schema data %s: %w", b.Version, err)
	}
	active := b.filter.Apply(items)
	schemas, properties := jsonld.Split(active)

	b.SchemasRaw = nonNilItems(schemas)
	b.PropertiesRaw = nonNilItems(properties)
	b.Stats.Raw = len(items)
	b.Stats.Active = len(active)

	b.logger.Info("Fetched schema data",
		"version", b.Version,
		"items", len(items),
		"archived", len(items)-len(active),
		"schemas", len(b.SchemasRaw),
		"properties", len(b.PropertiesRaw))
	return nil
}

// Parse resolves properties and the schema graph, then computes specificity
// paths.
func (b *Builder) Parse() error {
	if b.PropertiesRaw == nil {
		return fmt.Errorf("%w: `propertiesRaw` are required to be set before parsing can be done", ErrPrecondition)
	}
	if b.SchemasRaw == nil {
		return fmt.Errorf("%w: `schemasRaw` are required to be set before parsing can be done", ErrPrecondition)
	}

	props, dropped, err := b.parseProperties(b.PropertiesRaw)
	if err != nil {
		return fmt.Errorf("parse properties: %w", err)
	}
	g, err := b.parseSchemas(b.SchemasRaw)
	if err != nil {
		return fmt.Errorf("parse schemas: %w", err)
	}
	report, err := ComputeSpecificityPaths(g, b.policy)
	if err != nil {
		return fmt.Errorf("compute specificity paths: %w", err)
	}

	b.ParsedProperties = props
	b.ParsedSchemas = g
	b.Paths = report
	b.Stats.Properties = props.Len()
	b.Stats.DroppedProperties = dropped
	b.Stats.Schemas = g.Len()
	b.Stats.Placeholders = len(g.Placeholders())

	if dropped > 0 {
		b.logger.Debug("Dropped properties without domain or range", "count", dropped)
	}
	if placeholders := g.Placeholders(); len(placeholders) > 0 {
		b.logger.Debug("Seeded undeclared parent classes", "labels", placeholders)
	}
	if len(report.Uncovered) > 0 {
		b.logger.Warn("Roots not seeding specificity paths",
			"policy", b.policy,
			"seeded", report.Seeded,
			"uncovered", report.Uncovered)
	}
	b.logger.Info("Parsed schema data",
		"properties", props.Len(),
		"schemas", g.Len(),
		"paths", report.Paths)
	return nil
}

// Combine produces the resolved model from the parsed results.
func (b *Builder) Combine() error {
	if b.ParsedProperties == nil {
		return fmt.Errorf("%w: `parsedProperties` are required for data to be combined", ErrPrecondition)
	}
	if b.ParsedSchemas == nil {
		return fmt.Errorf("%w: `parsedSchemas` are required for data to be combined", ErrPrecondition)
	}
	if b.ParsedProperties.Len() == 0 {
		return fmt.Errorf("%w: `parsedProperties` are required for data to be combined and can't be empty", ErrEmptyResult)
	}
	if b.ParsedSchemas.Len() == 0 {
		return fmt.Errorf("%w: `parsedSchemas` are required for data to be combined and can't be empty", ErrEmptyResult)
	}

	m, err := Combine(b.ParsedProperties, b.ParsedSchemas)
	if err != nil {
		return err
	}
	b.Model = m
	return nil
}

// Run executes every stage and returns the model.
func (b *Builder) Run(ctx context.Context) (*Model, error) {
	if err := b.FetchVersion(ctx); err != nil {
		return nil, err
	}
	if err := b.FetchData(ctx); err != nil {
		return nil, err
	}
	if err := b.Parse(); err != nil {
		return nil, err
	}
	if err := b.Combine(); err != nil {
		return nil, err
	}
	return b.Model, nil
}

func nonNilItems(items []jsonld.Item) []jsonld.Item {
	if items == nil {
		return []jsonld.Item{}
	}
	return items
}
