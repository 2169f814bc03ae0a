package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/hierarchy"
)

func sampleModel() *hierarchy.Model {
	return &hierarchy.Model{
		Schemas: map[string]*hierarchy.ResolvedSchema{
			"Thing": {
				Children: []string{"CreativeWork"},
				Parents:  []string{},
				Properties: hierarchy.PropertySets{
					Own:       []string{"name"},
					All:       []string{"name"},
					Ancestors: map[string][]string{"Thing": {"name"}},
				},
			},
			"CreativeWork": {
				Children: []string{},
				Parents:  []string{"Thing"},
				Properties: hierarchy.PropertySets{
					Own:       []string{"headline"},
					All:       []string{"headline", "name"},
					Ancestors: map[string][]string{"Thing": {"name"}, "CreativeWork": {"headline"}},
				},
			},
		},
		Properties: map[string]hierarchy.PropertyEntry{
			"name":     {UsedIn: []string{"Thing"}, ValueTypes: []string{"Text"}},
			"headline": {UsedIn: []string{"CreativeWork"}, ValueTypes: []string{"Text"}},
		},
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(sampleModel(), false)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Marshal(sampleModel(), false)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.True(t, bytes.HasPrefix(first, []byte(`{"schemas":{"CreativeWork":`)))
}

func TestMarshalFlattensPropertySets(t *testing.T) {
	data, err := Marshal(sampleModel(), false)
	require.NoError(t, err)
	assert.Contains(t, string(data),
		`"properties":{"CreativeWork":["headline"],"Thing":["name"],"all":["headline","name"],"own":["headline"]}`)
}

func TestMarshalNil(t *testing.T) {
	_, err := Marshal(nil, true)
	assert.ErrorIs(t, err, ErrNilModel)
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleModel(), true))

	m, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleModel(), m)
}

func TestUnmarshalEmptyDocument(t *testing.T) {
	m, err := Unmarshal([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, m.Schemas)
	assert.NotNil(t, m.Properties)

	_, err = Unmarshal([]byte(`{"schemas": [`))
	assert.Error(t, err)
}

func TestFileSinkWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build", "nested")
	sink := FileSink{Dir: dir, Pretty: true}

	path, err := sink.Write(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFile), path)

	m, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CreativeWork", "Thing"}, m.Labels())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileSinkOverwrites(t *testing.T) {
	sink := FileSink{Dir: t.TempDir(), File: "model.json"}

	_, err := sink.Write(sampleModel())
	require.NoError(t, err)

	smaller := sampleModel()
	delete(smaller.Schemas, "CreativeWork")
	path, err := sink.Write(smaller)
	require.NoError(t, err)

	m, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Thing"}, m.Labels())
}

func TestFileSinkUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := FileSink{Dir: filepath.Join(file, "sub")}.Write(sampleModel())
	assert.Error(t, err)
}
