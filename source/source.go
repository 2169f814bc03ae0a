package source

import (
	"context"
	"log/slog"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/jsonld"
)

// LocalVersion is reported for local files when no version is pinned.
const LocalVersion = "local"

// VersionSource resolves the release version to build.
type VersionSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// DataSource returns the raw @graph items of a release.
type DataSource interface {
	Fetch(ctx context.Context, version string) ([]jsonld.Item, error)
}

// FromConfig selects the sources described by cfg: local files when a glob
// is set, otherwise the published releases. A pinned version skips the
// versions.json lookup.
func FromConfig(cfg config.SourceConfig, logger *slog.Logger) (VersionSource, DataSource) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Files != "" {
		version := cfg.Version
		if version == "" {
			version = LocalVersion
		}
		return Static(version), Files{Pattern: cfg.Files, Logger: logger}
	}

	gh := NewGitHub(cfg, logger)
	if cfg.Version != "" {
		return Static(cfg.Version), gh
	}
	return gh, gh
}
