package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/jsonld"
	"github.com/c360studio/semschema/source/weburl"
)

const (
	acceptJSON   = "application/json"
	acceptJSONLD = "application/ld+json, application/json;q=0.9"
)

// GitHub reads releases published in the schemaorg/schemaorg repository.
type GitHub struct {
	versionsURL string
	dataURL     string
	fetcher     *fetcher
	now         func() time.Time
	logger      *slog.Logger
}

// GitHubOption configures a GitHub source.
type GitHubOption func(*GitHub)

// WithClock overrides the clock used to decide which releases are out.
func WithClock(now func() time.Time) GitHubOption {
	return func(g *GitHub) { g.now = now }
}

// NewGitHub creates a release source from cfg.
func NewGitHub(cfg config.SourceConfig, logger *slog.Logger, opts ...GitHubOption) *GitHub {
	if logger == nil {
		logger = slog.Default()
	}
	g := &GitHub{
		versionsURL: cfg.VersionsURL,
		dataURL:     cfg.DataURL,
		fetcher:     newFetcher(cfg, logger),
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LatestVersion returns the newest version released on or before today.
func (g *GitHub) LatestVersion(ctx context.Context) (string, error) {
	body, err := g.fetcher.get(ctx, g.versionsURL, acceptJSON)
	if err != nil {
		return "", err
	}

	var v Versions
	if err := json.Unmarshal(body, &v); err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrFetch, g.versionsURL, err)
	}
	version, err := SelectVersion(v, g.now())
	if err != nil {
		return "", err
	}
	g.logger.Debug("Selected release", "version", version, "declared", v.SchemaVersion)
	return version, nil
}

// Fetch downloads and decodes the release document for version.
func (g *GitHub) Fetch(ctx context.Context, version string) ([]jsonld.Item, error) {
	url := weburl.Expand(g.dataURL, version)
	body, err := g.fetcher.get(ctx, url, acceptJSONLD)
	if err != nil {
		return nil, err
	}
	items, err := jsonld.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	g.logger.Debug("Downloaded release", "version", version, "url", url, "bytes", len(body), "items", len(items))
	return items, nil
}
