package hierarchy

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/jsonld"
)

func combinedFixture(t *testing.T) *Model {
	t.Helper()
	props, _, err := ParseProperties(fixtureProperties())
	require.NoError(t, err)
	g, _ := parsedFixture(t, RootPolicyFirst)
	m, err := Combine(props, g)
	require.NoError(t, err)
	return m
}

func TestCombinePropertySets(t *testing.T) {
	m := combinedFixture(t)

	action := m.Schemas["Action"]
	require.NotNil(t, action)
	assert.Equal(t, []string{"actionStatus", "target"}, action.Properties.Own)
	assert.Equal(t, []string{"actionStatus", "name", "target", "url"}, action.Properties.All)
	assert.Equal(t, map[string][]string{"Thing": {"name", "url"}}, action.Properties.Ancestors)
	assert.Equal(t, []string{"Thing"}, action.Parents)
	assert.Equal(t, []string{}, action.Children)

	videoGame := m.Schemas["VideoGame"]
	require.NotNil(t, videoGame)
	assert.Equal(t, []string{}, videoGame.Properties.Own)
	assert.Equal(t, []string{"headline", "name", "url"}, videoGame.Properties.All)
	assert.Equal(t, map[string][]string{
		"Thing":               {"name", "url"},
		"CreativeWork":        {"headline"},
		"Game":                {},
		"SoftwareApplication": {},
	}, videoGame.Properties.Ancestors)
	assert.Equal(t, []string{"Game", "SoftwareApplication"}, videoGame.Parents)
}

func TestCombineArticleExample(t *testing.T) {
	m := combinedFixture(t)

	article := m.Schemas["Article"]
	require.NotNil(t, article)
	assert.Equal(t, []string{"headline", "name", "url"}, article.Properties.All)
	assert.ElementsMatch(t, []string{"Thing", "CreativeWork"}, article.Properties.AncestorLabels())

	thing := m.Schemas["Thing"]
	assert.Equal(t, []string{"Action", "CreativeWork"}, thing.Children)
	assert.Equal(t, []string{"name", "url"}, thing.Properties.All)
	assert.Empty(t, thing.Properties.Ancestors)
}

func TestCombineAllIsUnionOfAncestorOwnSets(t *testing.T) {
	m := combinedFixture(t)
	for label, s := range m.Schemas {
		want := map[string]struct{}{}
		for _, p := range s.Properties.Own {
			want[p] = struct{}{}
		}
		for _, a := range s.Properties.AncestorLabels() {
			assert.Equal(t, m.Schemas[a].Properties.Own, s.Properties.Ancestors[a], "%s/%s", label, a)
			for _, p := range s.Properties.Ancestors[a] {
				want[p] = struct{}{}
			}
		}
		assert.Len(t, s.Properties.All, len(want), label)
		assert.IsIncreasing(t, append([]string{""}, s.Properties.All...), label)
	}
}

func TestCombineUncoveredNodeKeepsOwnSet(t *testing.T) {
	props, _, err := ParseProperties([]jsonld.Item{
		property("name", []string{"Thing"}, []string{"Text"}),
		property("pattern", []string{"Text"}, []string{"Text"}),
	})
	require.NoError(t, err)
	g, _ := parsedFixture(t, RootPolicyFirst)

	m, err := Combine(props, g)
	require.NoError(t, err)
	assert.Equal(t, []string{"pattern"}, m.Schemas["Text"].Properties.All)
	assert.Equal(t, []string{"Class", "DataType"}, m.Schemas["Text"].Parents)
}

func TestCombineEmptyInputs(t *testing.T) {
	g, _ := parsedFixture(t, RootPolicyFirst)
	props, _, err := ParseProperties(fixtureProperties())
	require.NoError(t, err)

	_, err = Combine(NewPropertyMap(), g)
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = Combine(props, NewGraph())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestCombineDeterministicJSON(t *testing.T) {
	first, err := json.Marshal(combinedFixture(t))
	require.NoError(t, err)
	second, err := json.Marshal(combinedFixture(t))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestModelJSONShape(t *testing.T) {
	m := combinedFixture(t)
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	action := raw["schemas"]["Action"]
	assert.Contains(t, action, "children")
	assert.Contains(t, action, "parents")
	props := action["properties"].(map[string]any)
	assert.Contains(t, props, "own")
	assert.Contains(t, props, "all")
	assert.Contains(t, props, "Thing")

	name := raw["properties"]["name"]
	assert.Equal(t, []any{"Thing"}, name["usedIn"])
	assert.Equal(t, []any{"Text"}, name["valueTypes"])

	var decoded Model
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, m.Schemas["VideoGame"].Properties, decoded.Schemas["VideoGame"].Properties)
}

func TestModelGraphRebuildsPaths(t *testing.T) {
	m := combinedFixture(t)
	g := m.Graph()
	_, err := ComputeSpecificityPaths(g, RootPolicyAll)
	require.NoError(t, err)

	n, ok := g.Node("VideoGame")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		"Thing.CreativeWork.Game.VideoGame",
		"Thing.CreativeWork.SoftwareApplication.VideoGame",
	}, n.SpecificityPaths)
}
