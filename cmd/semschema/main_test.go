package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semschema/output"
)

const release = `{
  "@graph": [
    {"@id": "schema:Thing", "@type": "rdfs:Class", "rdfs:label": "Thing"},
    {"@id": "schema:CreativeWork", "@type": "rdfs:Class", "rdfs:label": "CreativeWork",
     "rdfs:subClassOf": {"@id": "schema:Thing"}},
    {"@id": "schema:Text", "@type": ["schema:DataType", "rdfs:Class"], "rdfs:label": "Text"},
    {"@id": "schema:name", "@type": "rdf:Property", "rdfs:label": "name",
     "schema:domainIncludes": {"@id": "schema:Thing"}, "schema:rangeIncludes": {"@id": "schema:Text"}}
  ]
}`

// project writes a release file and a config pointing every output into a
// temporary directory, returning the directory and the config path.
func project(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "release.jsonld"), []byte(release), 0644))

	cfg := strings.Join([]string{
		"source:",
		"  files: " + filepath.Join(dir, "data", "*.jsonld"),
		`  version: "29.0"`,
		"output:",
		"  dir: " + filepath.Join(dir, "build"),
		"export:",
		"  formats: [turtle]",
		"codegen:",
		"  dir: " + filepath.Join(dir, "build", "schemas"),
		"metrics:",
		"  textfile: " + filepath.Join(dir, "semschema.prom"),
		"",
	}, "\n")
	path := filepath.Join(dir, "semschema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return dir, path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestRootCommands(t *testing.T) {
	cmd := rootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"build", "latest", "export", "generate", "serve", "watch", "version"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "semschema version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestBuildCommand(t *testing.T) {
	dir, cfg := project(t)

	out, err := execute(t, "build", "--config", cfg, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Built schema.org 29.0")

	m, err := output.ReadFile(filepath.Join(dir, "build", output.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, m.Schemas["CreativeWork"].Properties.All)

	for _, name := range []string{"build/schemaData.ttl", "build/schemas/classes.go", "semschema.prom"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	prom, err := os.ReadFile(filepath.Join(dir, "semschema.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `semschema_runs_total{status="success"} 1`)
}

func TestBuildCommandMissingFiles(t *testing.T) {
	_, cfg := project(t)
	_, err := execute(t, "build", "--config", cfg, "--log-level", "error",
		"--files", filepath.Join(t.TempDir(), "*.jsonld"))
	assert.Error(t, err)
}

func TestExportAndGenerateCommands(t *testing.T) {
	dir, cfg := project(t)
	_, err := execute(t, "build", "--config", cfg, "--log-level", "error")
	require.NoError(t, err)

	exportDir := filepath.Join(dir, "rdf")
	out, err := execute(t, "export", "--config", cfg, "--log-level", "error",
		"--format", "ntriples,jsonld", "--profile", "full", "--out", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(exportDir, "schemaData.nt"))
	assert.Contains(t, out, filepath.Join(exportDir, "schemaData.jsonld"))

	genDir := filepath.Join(dir, "gen")
	out, err = execute(t, "generate", "--config", cfg, "--log-level", "error",
		"--dir", genDir, "--package", "vocab", "--version", "29.0")
	require.NoError(t, err)
	assert.Contains(t, out, genDir)

	src, err := os.ReadFile(filepath.Join(genDir, "classes.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package vocab")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, cfg := project(t)
	_, err := execute(t, "export", "--config", cfg, "--log-level", "error", "--format", "rdfxml")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolve:\n  root_policy: sideways\n"), 0644))
	_, err := execute(t, "build", "--config", path, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestWatchRequiresFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: "+t.TempDir()+"\n"), 0644))
	_, err := execute(t, "watch", "--config", path, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.files")
}
