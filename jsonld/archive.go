package jsonld

import (
	"strings"

	"github.com/c360studio/semschema/vocabulary/schemaorg"
)

// ArchiveFilter drops items that declare isPartOf an archive container.
// The zero value recognizes the schema.org attic under both schemes.
type ArchiveFilter struct {
	Containers []string
}

// IsActive reports whether the item is not part of an archive container.
// Items with no isPartOf declaration are active.
func (f ArchiveFilter) IsActive(it Item) bool {
	for _, ref := range it.Refs(schemaorg.IsPartOf) {
		if f.archived(ref) {
			return false
		}
	}
	return true
}

// Apply returns the active items as a new slice. The input is not modified.
func (f ArchiveFilter) Apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.IsActive(it) {
			out = append(out, it)
		}
	}
	return out
}

func (f ArchiveFilter) archived(ref string) bool {
	if len(f.Containers) == 0 {
		return schemaorg.IsArchive(ref)
	}
	ref = strings.TrimSuffix(ref, "/")
	for _, c := range f.Containers {
		if ref == strings.TrimSuffix(c, "/") {
			return true
		}
	}
	return false
}

// IsActive applies the default archive filter to one item.
func IsActive(it Item) bool {
	return ArchiveFilter{}.IsActive(it)
}

// FilterActive applies the default archive filter to items.
func FilterActive(items []Item) []Item {
	return ArchiveFilter{}.Apply(items)
}
