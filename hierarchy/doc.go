// Package hierarchy resolves the schema.org type hierarchy.
//
// Properties are parsed into a PropertyMap and classes into a Graph of
// labelled nodes with symmetric parent/child edges. ComputeSpecificityPaths
// then enumerates every root-to-node path, and Combine flattens graph and
// properties into a Model carrying, per class, its own properties, all
// inherited properties and the properties contributed by each ancestor.
//
// Builder sequences the stages over a version and data source.
package hierarchy
