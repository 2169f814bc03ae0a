// Package docs turns the HTML fragments found in schema.org rdfs:comment
// values into markdown.
package docs
