// Package codegen writes a Go package exposing the property sets of every
// resolved class, one file per class plus a registry.
package codegen
