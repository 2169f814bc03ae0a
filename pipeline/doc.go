// Package pipeline runs a resolution build end to end: it drives the
// hierarchy builder stage by stage, records metrics, renders descriptions and
// hands the resulting model to every configured sink.
package pipeline
