// Package output serializes resolved models to the schemaData.json document
// consumed by downstream tools.
package output
