package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/jsonld"
)

type stubVersions struct {
	version string
	err     error
}

func (s stubVersions) LatestVersion(context.Context) (string, error) {
	return s.version, s.err
}

type stubData struct {
	items []jsonld.Item
	err   error
	got   string
}

func (s *stubData) Fetch(_ context.Context, version string) ([]jsonld.Item, error) {
	s.got = version
	return s.items, s.err
}

func fixtureRelease() []jsonld.Item {
	items := append(fixtureSchemas(), fixtureProperties()...)
	retired := class("Retired", "Thing")
	retired[ns+"isPartOf"] = map[string]any{"@id": "http://attic.schema.org"}
	legacy := property("legacyCode", []string{"Thing"}, []string{"Text"})
	legacy[ns+"isPartOf"] = map[string]any{"@id": "https://attic.schema.org"}
	return append(items, retired, legacy)
}

func labelsOfItems(t *testing.T, items []jsonld.Item) []string {
	t.Helper()
	out := make([]string, 0, len(items))
	for _, it := range items {
		label, err := jsonld.ExtractLabel(it)
		require.NoError(t, err)
		out = append(out, label)
	}
	return out
}

func TestBuilderRun(t *testing.T) {
	data := &stubData{items: fixtureRelease()}
	b := NewBuilder(stubVersions{version: "29.0"}, data)

	m, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "29.0", data.got)
	assert.Equal(t, "29.0", b.Version)
	assert.NotContains(t, m.Schemas, "Retired")
	assert.NotContains(t, labelsOfItems(t, b.SchemasRaw), "Retired")
	assert.NotContains(t, m.Properties, "legacyCode")
	assert.NotContains(t, labelsOfItems(t, b.PropertiesRaw), "legacyCode")
	assert.Contains(t, labelsOfItems(t, b.PropertiesRaw), "headline")
	assert.Contains(t, m.Schemas, "VideoGame")
	assert.Equal(t, []string{"Class"}, b.Paths.Uncovered)
	assert.Equal(t, Stats{
		Raw:               17,
		Active:            15,
		Schemas:           10,
		Properties:        5,
		DroppedProperties: 1,
	}, b.Stats)
}

func TestBuilderFetchDataBeforeVersion(t *testing.T) {
	b := NewBuilder(stubVersions{}, &stubData{})
	err := b.FetchData(context.Background())
	require.ErrorIs(t, err, ErrPrecondition)
	assert.Contains(t, err.Error(), "fetch schema version first")
}

func TestBuilderFetchVersionErrors(t *testing.T) {
	boom := errors.New("boom")
	b := NewBuilder(stubVersions{err: boom}, &stubData{})
	assert.ErrorIs(t, b.FetchVersion(context.Background()), boom)

	b = NewBuilder(stubVersions{}, &stubData{})
	assert.ErrorIs(t, b.FetchVersion(context.Background()), ErrPrecondition)

	b = NewBuilder(nil, &stubData{})
	assert.ErrorIs(t, b.FetchVersion(context.Background()), ErrPrecondition)
}

func TestBuilderFetchDataError(t *testing.T) {
	boom := errors.New("network down")
	b := NewBuilder(stubVersions{version: "29.0"}, &stubData{err: boom})
	require.NoError(t, b.FetchVersion(context.Background()))
	err := b.FetchData(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, b.SchemasRaw)
}

func TestBuilderParsePreconditions(t *testing.T) {
	t.Run("without properties", func(t *testing.T) {
		b := NewBuilder(nil, nil)
		b.SchemasRaw = fixtureSchemas()
		err := b.Parse()
		require.ErrorIs(t, err, ErrPrecondition)
		assert.Contains(t, err.Error(), "`propertiesRaw`")
	})

	t.Run("without schemas", func(t *testing.T) {
		b := NewBuilder(nil, nil)
		b.PropertiesRaw = fixtureProperties()
		err := b.Parse()
		require.ErrorIs(t, err, ErrPrecondition)
		assert.Contains(t, err.Error(), "`schemasRaw`")
	})
}

func TestBuilderParseComputesPaths(t *testing.T) {
	b := NewBuilder(nil, nil, WithRootPolicy(RootPolicyAll))
	b.SchemasRaw = fixtureSchemas()
	b.PropertiesRaw = fixtureProperties()
	require.NoError(t, b.Parse())

	text, ok := b.ParsedSchemas.Node("Text")
	require.True(t, ok)
	assert.Equal(t, []string{"Class.DataType.Text", "Class.Text"}, text.SpecificityPaths)
	assert.Equal(t, 5, b.ParsedProperties.Len())
}

func TestBuilderParseCycle(t *testing.T) {
	b := NewBuilder(nil, nil)
	b.SchemasRaw = []jsonld.Item{class("Root"), class("A", "Root", "B"), class("B", "A")}
	b.PropertiesRaw = []jsonld.Item{}
	assert.ErrorIs(t, b.Parse(), ErrCycle)
}

func TestBuilderCombinePreconditions(t *testing.T) {
	t.Run("before parse", func(t *testing.T) {
		b := NewBuilder(nil, nil)
		err := b.Combine()
		require.ErrorIs(t, err, ErrPrecondition)
		assert.Contains(t, err.Error(), "`parsedProperties`")
	})

	t.Run("empty properties", func(t *testing.T) {
		b := NewBuilder(nil, nil, WithPropertiesParser(func([]jsonld.Item) (*PropertyMap, int, error) {
			return NewPropertyMap(), 0, nil
		}))
		b.SchemasRaw = fixtureSchemas()
		b.PropertiesRaw = fixtureProperties()
		require.NoError(t, b.Parse())

		err := b.Combine()
		require.ErrorIs(t, err, ErrEmptyResult)
		assert.Contains(t, err.Error(), "`parsedProperties`")
	})

	t.Run("empty schemas", func(t *testing.T) {
		b := NewBuilder(nil, nil, WithSchemasParser(func([]jsonld.Item) (*Graph, error) {
			return NewGraph(), nil
		}))
		b.SchemasRaw = fixtureSchemas()
		b.PropertiesRaw = fixtureProperties()
		require.NoError(t, b.Parse())

		err := b.Combine()
		require.ErrorIs(t, err, ErrEmptyResult)
		assert.Contains(t, err.Error(), "`parsedSchemas`")
	})
}

func TestBuilderArchiveFilterOption(t *testing.T) {
	items := fixtureRelease()
	pending := class("Draft", "Thing")
	pending[ns+"isPartOf"] = map[string]any{"@id": "http://pending.schema.org"}
	items = append(items, pending)

	b := NewBuilder(stubVersions{version: "29.0"}, &stubData{items: items},
		WithArchiveFilter(jsonld.ArchiveFilter{Containers: []string{"http://pending.schema.org"}}))
	m, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, m.Schemas, "Draft")
	assert.Contains(t, m.Schemas, "Retired")
}
