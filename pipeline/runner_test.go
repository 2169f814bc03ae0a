package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/docs"
	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/metrics"
	"github.com/c360studio/semschema/output"
	"github.com/c360studio/semschema/source"
)

const release = `{
  "@context": {"schema": "http://schema.org/"},
  "@graph": [
    {"@id": "schema:Thing", "@type": "rdfs:Class", "rdfs:label": "Thing",
     "rdfs:comment": "The most generic type of item."},
    {"@id": "schema:CreativeWork", "@type": "rdfs:Class", "rdfs:label": "CreativeWork",
     "rdfs:subClassOf": {"@id": "schema:Thing"},
     "rdfs:comment": "The most generic kind of <em>creative</em> work."},
    {"@id": "schema:Text", "@type": ["schema:DataType", "rdfs:Class"], "rdfs:label": "Text"},
    {"@id": "schema:name", "@type": "rdf:Property", "rdfs:label": "name",
     "schema:domainIncludes": {"@id": "schema:Thing"}, "schema:rangeIncludes": {"@id": "schema:Text"}},
    {"@id": "schema:headline", "@type": "rdf:Property", "rdfs:label": "headline",
     "schema:domainIncludes": {"@id": "schema:CreativeWork"}, "schema:rangeIncludes": {"@id": "schema:Text"}},
    {"@id": "schema:Retired", "@type": "rdfs:Class", "rdfs:label": "Retired",
     "schema:isPartOf": {"@id": "https://attic.schema.org"}}
  ]
}`

func releaseSource(t *testing.T) source.DataFunc {
	t.Helper()
	items, err := jsonld.Parse([]byte(release))
	require.NoError(t, err)
	return func(_ context.Context, version string) ([]jsonld.Item, error) {
		assert.Equal(t, "29.0", version)
		return items, nil
	}
}

type recorder struct {
	mu   sync.Mutex
	runs []*Run
}

func (r *recorder) sink(name string) Sink {
	return SinkFunc{SinkName: name, Fn: func(_ context.Context, run *Run) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.runs = append(r.runs, run)
		return nil
	}}
}

func TestRunnerRun(t *testing.T) {
	rec := &recorder{}
	m := metrics.New()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	runner := NewRunner(source.Static("29.0"), releaseSource(t),
		WithSinks(rec.sink("a"), rec.sink("b")),
		WithMetrics(m),
		WithDescriptions(docs.NewConverter("")),
		WithClock(func() time.Time { return now }),
	)

	run, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "29.0", run.Version)
	assert.Equal(t, now, run.StartedAt)

	assert.Equal(t, 6, run.Stats.Raw)
	assert.Equal(t, 5, run.Stats.Active)
	assert.NotContains(t, run.Model.Schemas, "Retired")
	assert.Equal(t, []string{"headline", "name"}, run.Model.Schemas["CreativeWork"].Properties.All)

	assert.Equal(t, "The most generic type of item.", run.Descriptions["Thing"])
	assert.NotContains(t, run.Descriptions["CreativeWork"], "<em>")

	require.Len(t, rec.runs, 2)
	assert.Same(t, run, rec.runs[0])

	out, err := testutil.GatherAndCount(m.Registry(), "semschema_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 6, out)
}

func TestRunnerWithoutDescriptions(t *testing.T) {
	run, err := NewRunner(source.Static("29.0"), releaseSource(t)).Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run.Descriptions)
}

func TestRunnerSinkFailure(t *testing.T) {
	m := metrics.New()
	failing := SinkFunc{SinkName: "broken", Fn: func(context.Context, *Run) error {
		return errors.New("disk full")
	}}

	_, err := NewRunner(source.Static("29.0"), releaseSource(t),
		WithSinks(failing, (&recorder{}).sink("ok")),
		WithMetrics(m),
	).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink broken: disk full")
	assert.Contains(t, err.Error(), StageDeliver)
}

func TestRunnerVersionFailure(t *testing.T) {
	versions := source.VersionFunc(func(context.Context) (string, error) {
		return "", source.ErrNoVersion
	})
	_, err := NewRunner(versions, releaseSource(t)).Run(context.Background())
	require.ErrorIs(t, err, source.ErrNoVersion)
	assert.Contains(t, err.Error(), StageVersion)
}

func TestRunnerEmptyRelease(t *testing.T) {
	empty := source.DataFunc(func(context.Context, string) ([]jsonld.Item, error) {
		return []jsonld.Item{}, nil
	})
	_, err := NewRunner(source.Static("29.0"), empty).Run(context.Background())
	require.ErrorIs(t, err, hierarchy.ErrEmptyResult)
	assert.Contains(t, err.Error(), StageCombine)
}

func TestRunnerRecordsFailureMetric(t *testing.T) {
	m := metrics.New()
	versions := source.VersionFunc(func(context.Context) (string, error) {
		return "", errors.New("offline")
	})
	_, err := NewRunner(versions, releaseSource(t), WithMetrics(m)).Run(context.Background())
	require.Error(t, err)

	n, err := testutil.GatherAndCount(m.Registry(), "semschema_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSinksFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = dir
	cfg.Export.Formats = []string{"turtle", "nt"}
	cfg.Codegen.Dir = filepath.Join(dir, "schemas")

	sinks, err := SinksFromConfig(cfg, nil, nil, nil)
	require.NoError(t, err)

	names := make([]string, len(sinks))
	for i, s := range sinks {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{"file", "export", "codegen"}, names)

	run, err := NewRunner(source.Static("29.0"), releaseSource(t),
		WithSinks(sinks...),
		WithDescriptions(docs.NewConverter("")),
	).Run(context.Background())
	require.NoError(t, err)

	m, err := output.ReadFile(filepath.Join(dir, output.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, run.Model.Labels(), m.Labels())

	for _, name := range []string{"schemaData.ttl", "schemaData.nt", "schemas/classes.go", "schemas/thing.go"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSinksFromConfigInvalidFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.Formats = []string{"rdfxml"}
	_, err := SinksFromConfig(cfg, nil, nil, nil)
	assert.Error(t, err)
}
