package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.File != "schemaData.json" {
		t.Errorf("expected default output file schemaData.json, got %s", cfg.Output.File)
	}
	if cfg.Resolve.RootPolicy != "first" {
		t.Errorf("expected default root policy first, got %s", cfg.Resolve.RootPolicy)
	}
	if cfg.NATS.Bucket != "SEMSCHEMA_MODELS" {
		t.Errorf("expected default bucket SEMSCHEMA_MODELS, got %s", cfg.NATS.Bucket)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "data url without placeholder",
			modify:  func(c *Config) { c.Source.DataURL = "https://example.com/all.jsonld" },
			wantErr: true,
		},
		{
			name: "local files need no url",
			modify: func(c *Config) {
				c.Source.DataURL = ""
				c.Source.VersionsURL = ""
				c.Source.Files = "data/*.jsonld"
			},
			wantErr: false,
		},
		{
			name: "pinned version needs no versions url",
			modify: func(c *Config) {
				c.Source.VersionsURL = ""
				c.Source.Version = "29.0"
			},
			wantErr: false,
		},
		{
			name:    "unknown root policy",
			modify:  func(c *Config) { c.Resolve.RootPolicy = "some" },
			wantErr: true,
		},
		{
			name:    "unknown export profile",
			modify:  func(c *Config) { c.Export.Profile = "everything" },
			wantErr: true,
		},
		{
			name:    "store without nats url",
			modify:  func(c *Config) { c.NATS.Store = true },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Source.Timeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
source:
  version: "28.1"
  timeout: 10s
  retry_attempts: 5
resolve:
  root_policy: all
  archive_containers:
    - http://attic.schema.org
    - http://pending.schema.org
export:
  formats: [turtle, ntriples]
  profile: full
nats:
  url: "nats://test:4222"
  store: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Source.Version != "28.1" {
		t.Errorf("expected version 28.1, got %s", cfg.Source.Version)
	}
	if cfg.Source.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Source.Timeout)
	}
	if cfg.Source.RetryAttempts != 5 {
		t.Errorf("expected 5 retry attempts, got %d", cfg.Source.RetryAttempts)
	}
	if cfg.Resolve.RootPolicy != "all" {
		t.Errorf("expected root policy all, got %s", cfg.Resolve.RootPolicy)
	}
	if len(cfg.Resolve.ArchiveContainers) != 2 {
		t.Errorf("expected 2 archive containers, got %d", len(cfg.Resolve.ArchiveContainers))
	}
	if len(cfg.Export.Formats) != 2 || cfg.Export.Profile != "full" {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}
	if !cfg.NATS.Store || cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("unexpected nats config %+v", cfg.NATS)
	}
	// Unset fields keep their defaults.
	if cfg.Output.File != "schemaData.json" {
		t.Errorf("expected default output file, got %s", cfg.Output.File)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Source: SourceConfig{
			Files: "local/*.jsonld",
		},
		Output: OutputConfig{
			Dir: "/override/build",
		},
	}

	base.Merge(override)

	if base.Source.Files != "local/*.jsonld" {
		t.Errorf("expected files local/*.jsonld, got %s", base.Source.Files)
	}
	// Data URL should remain from base since override didn't set it
	if base.Source.DataURL != DefaultConfig().Source.DataURL {
		t.Errorf("expected data url to remain default, got %s", base.Source.DataURL)
	}
	if base.Output.Dir != "/override/build" {
		t.Errorf("expected output dir /override/build, got %s", base.Output.Dir)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Source.Version = "27.0"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Source.Version != "27.0" {
		t.Errorf("expected version 27.0, got %s", loaded.Source.Version)
	}
	if loaded.Source.Timeout != cfg.Source.Timeout {
		t.Errorf("expected timeout %v to round trip, got %v", cfg.Source.Timeout, loaded.Source.Timeout)
	}
}

func TestExportDir(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ExportDir() != cfg.Output.Dir {
		t.Errorf("expected export dir to default to output dir, got %s", cfg.ExportDir())
	}
	cfg.Export.Dir = "rdf"
	if cfg.ExportDir() != "rdf" {
		t.Errorf("expected export dir rdf, got %s", cfg.ExportDir())
	}
}
