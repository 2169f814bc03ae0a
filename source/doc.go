// Package source provides the schema.org releases the resolver builds from.
//
// GitHub reads the published versions.json to pick the newest released
// version and downloads that release's JSON-LD document. Files reads local
// documents matched by a doublestar glob, and Watcher reports when they
// change. Function adapters let tests and callers plug in anything else.
package source
