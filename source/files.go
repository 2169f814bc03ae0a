package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/semschema/jsonld"
)

// Files reads releases from local JSON-LD documents. Every file matching
// Pattern contributes its @graph; the requested version is not consulted.
type Files struct {
	Pattern string
	Logger  *slog.Logger
}

// Fetch decodes all matching files in lexical path order.
func (f Files) Fetch(ctx context.Context, _ string) ([]jsonld.Item, error) {
	paths, err := doublestar.FilepathGlob(f.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", f.Pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, f.Pattern)
	}
	sort.Strings(paths)

	var items []jsonld.Item
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		graph, err := jsonld.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		f.logger().Debug("Read local release file", "path", path, "items", len(graph))
		items = append(items, graph...)
	}
	return items, nil
}

func (f Files) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// Static always reports the same version.
type Static string

// LatestVersion returns the pinned version.
func (s Static) LatestVersion(context.Context) (string, error) {
	return string(s), nil
}

// VersionFunc adapts a function to a version source.
type VersionFunc func(ctx context.Context) (string, error)

// LatestVersion calls fn.
func (fn VersionFunc) LatestVersion(ctx context.Context) (string, error) {
	return fn(ctx)
}

// DataFunc adapts a function to a data source.
type DataFunc func(ctx context.Context, version string) ([]jsonld.Item, error)

// Fetch calls fn.
func (fn DataFunc) Fetch(ctx context.Context, version string) ([]jsonld.Item, error) {
	return fn(ctx, version)
}
