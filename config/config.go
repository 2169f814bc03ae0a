// Package config provides configuration loading and management for semschema.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// VersionPlaceholder is replaced by the release version in Source.DataURL.
const VersionPlaceholder = "{version}"

// Config represents the complete semschema configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Resolve ResolveConfig `yaml:"resolve"`
	Output  OutputConfig  `yaml:"output"`
	Export  ExportConfig  `yaml:"export"`
	Codegen CodegenConfig `yaml:"codegen"`
	NATS    NATSConfig    `yaml:"nats"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SourceConfig configures where releases are read from
type SourceConfig struct {
	// VersionsURL is the schema.org versions.json location
	VersionsURL string `yaml:"versions_url"`
	// DataURL is the release document URL; {version} is substituted
	DataURL string `yaml:"data_url"`
	// Version pins a release and skips the versions.json lookup
	Version string `yaml:"version"`
	// Files is a doublestar glob of local JSON-LD files used instead of DataURL
	Files string `yaml:"files"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
	// Timeout bounds a single request
	Timeout time.Duration `yaml:"timeout"`
	// MaxContentSize is the largest accepted response body in bytes
	MaxContentSize int64 `yaml:"max_content_size"`
	// RetryAttempts is the number of attempts for transient failures
	RetryAttempts int `yaml:"retry_attempts"`
	// RetryDelay is the initial backoff between attempts
	RetryDelay time.Duration `yaml:"retry_delay"`
	// AllowInsecure permits plain HTTP and private addresses (local mirrors)
	AllowInsecure bool `yaml:"allow_insecure"`
	// WatchDebounce delays rebuilds after local file changes
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// ResolveConfig configures hierarchy resolution
type ResolveConfig struct {
	// RootPolicy is "first" (only the first root seeds paths) or "all"
	RootPolicy string `yaml:"root_policy"`
	// ArchiveContainers overrides the isPartOf values treated as archived
	ArchiveContainers []string `yaml:"archive_containers"`
	// Descriptions converts rdfs:comment HTML to markdown for exports
	Descriptions bool `yaml:"descriptions"`
}

// OutputConfig configures the JSON model file
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	File   string `yaml:"file"`
	Pretty bool   `yaml:"pretty"`
}

// ExportConfig configures RDF serializations written after a build
type ExportConfig struct {
	// Formats lists formats to write (turtle, ntriples, jsonld); empty disables export
	Formats []string `yaml:"formats"`
	// Profile is "hierarchy" or "full"
	Profile string `yaml:"profile"`
	// BaseIRI prefixes class and property labels
	BaseIRI string `yaml:"base_iri"`
	// Dir is the output directory (defaults to Output.Dir)
	Dir string `yaml:"dir"`
}

// CodegenConfig configures Go code generation
type CodegenConfig struct {
	Dir     string `yaml:"dir"`
	Package string `yaml:"package"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty disables storage and publishing)
	URL string `yaml:"url"`
	// Bucket is the JetStream KV bucket holding resolved models
	Bucket string `yaml:"bucket"`
	// Store writes each resolved model to Bucket
	Store bool `yaml:"store"`
	// Publish sends class and property entities to the graph
	Publish bool `yaml:"publish"`
}

// ServerConfig configures the HTTP read API
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Mode is the gin mode: debug, release or test
	Mode string `yaml:"mode"`
}

// MetricsConfig configures metrics output
type MetricsConfig struct {
	// Textfile is written in Prometheus text format after each batch run
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			VersionsURL:    "https://raw.githubusercontent.com/schemaorg/schemaorg/main/versions.json",
			DataURL:        "https://raw.githubusercontent.com/schemaorg/schemaorg/main/data/releases/{version}/schemaorg-all-http.jsonld",
			UserAgent:      "semschema/1.0",
			Timeout:        30 * time.Second,
			MaxContentSize: 64 << 20,
			RetryAttempts:  3,
			RetryDelay:     500 * time.Millisecond,
			WatchDebounce:  500 * time.Millisecond,
		},
		Resolve: ResolveConfig{
			RootPolicy: "first",
		},
		Output: OutputConfig{
			Dir:  "build",
			File: "schemaData.json",
		},
		Export: ExportConfig{
			Profile: "hierarchy",
			BaseIRI: "http://schema.org/",
		},
		Codegen: CodegenConfig{
			Dir:     "build/schemas",
			Package: "schemas",
		},
		NATS: NATSConfig{
			Bucket: "SEMSCHEMA_MODELS",
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Source.Files == "" {
		if c.Source.DataURL == "" {
			return fmt.Errorf("source.data_url or source.files is required")
		}
		if !strings.Contains(c.Source.DataURL, VersionPlaceholder) {
			return fmt.Errorf("source.data_url must contain %s", VersionPlaceholder)
		}
		if c.Source.Version == "" && c.Source.VersionsURL == "" {
			return fmt.Errorf("source.versions_url is required unless source.version is set")
		}
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive")
	}
	if c.Source.MaxContentSize <= 0 {
		return fmt.Errorf("source.max_content_size must be positive")
	}
	if c.Source.RetryAttempts < 0 {
		return fmt.Errorf("source.retry_attempts must not be negative")
	}
	switch c.Resolve.RootPolicy {
	case "", "first", "all":
	default:
		return fmt.Errorf("resolve.root_policy must be first or all, got %q", c.Resolve.RootPolicy)
	}
	if c.Output.File == "" {
		return fmt.Errorf("output.file is required")
	}
	switch c.Export.Profile {
	case "hierarchy", "full":
	default:
		return fmt.Errorf("export.profile must be hierarchy or full, got %q", c.Export.Profile)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if (c.NATS.Store || c.NATS.Publish) && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.store or nats.publish is enabled")
	}
	return nil
}

// ExportDir returns the directory RDF exports are written to.
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return c.Output.Dir
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Source
	setString(&c.Source.VersionsURL, other.Source.VersionsURL)
	setString(&c.Source.DataURL, other.Source.DataURL)
	setString(&c.Source.Version, other.Source.Version)
	setString(&c.Source.Files, other.Source.Files)
	setString(&c.Source.UserAgent, other.Source.UserAgent)
	if other.Source.Timeout != 0 {
		c.Source.Timeout = other.Source.Timeout
	}
	if other.Source.MaxContentSize != 0 {
		c.Source.MaxContentSize = other.Source.MaxContentSize
	}
	if other.Source.RetryAttempts != 0 {
		c.Source.RetryAttempts = other.Source.RetryAttempts
	}
	if other.Source.RetryDelay != 0 {
		c.Source.RetryDelay = other.Source.RetryDelay
	}
	if other.Source.WatchDebounce != 0 {
		c.Source.WatchDebounce = other.Source.WatchDebounce
	}
	c.Source.AllowInsecure = c.Source.AllowInsecure || other.Source.AllowInsecure

	// Resolve
	setString(&c.Resolve.RootPolicy, other.Resolve.RootPolicy)
	if len(other.Resolve.ArchiveContainers) > 0 {
		c.Resolve.ArchiveContainers = other.Resolve.ArchiveContainers
	}
	c.Resolve.Descriptions = c.Resolve.Descriptions || other.Resolve.Descriptions

	// Output
	setString(&c.Output.Dir, other.Output.Dir)
	setString(&c.Output.File, other.Output.File)
	c.Output.Pretty = c.Output.Pretty || other.Output.Pretty

	// Export
	if len(other.Export.Formats) > 0 {
		c.Export.Formats = other.Export.Formats
	}
	setString(&c.Export.Profile, other.Export.Profile)
	setString(&c.Export.BaseIRI, other.Export.BaseIRI)
	setString(&c.Export.Dir, other.Export.Dir)

	// Codegen
	setString(&c.Codegen.Dir, other.Codegen.Dir)
	setString(&c.Codegen.Package, other.Codegen.Package)

	// NATS
	setString(&c.NATS.URL, other.NATS.URL)
	setString(&c.NATS.Bucket, other.NATS.Bucket)
	c.NATS.Store = c.NATS.Store || other.NATS.Store
	c.NATS.Publish = c.NATS.Publish || other.NATS.Publish

	// Server
	setString(&c.Server.Addr, other.Server.Addr)
	setString(&c.Server.Mode, other.Server.Mode)

	// Metrics
	setString(&c.Metrics.Textfile, other.Metrics.Textfile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
