package hierarchy

import (
	"github.com/c360studio/semschema/jsonld"
)

const ns = "http://schema.org/"

func ref(label string) map[string]any {
	return map[string]any{"@id": ns + label}
}

func refs(labels ...string) []any {
	out := make([]any, len(labels))
	for i, l := range labels {
		out[i] = ref(l)
	}
	return out
}

func class(label string, parents ...string) jsonld.Item {
	it := jsonld.Item{
		"@id":        ns + label,
		"@type":      "rdfs:Class",
		"rdfs:label": label,
	}
	switch len(parents) {
	case 0:
	case 1:
		it["rdfs:subClassOf"] = ref(parents[0])
	default:
		it["rdfs:subClassOf"] = refs(parents...)
	}
	return it
}

func property(label string, domain, rng []string) jsonld.Item {
	it := jsonld.Item{
		"@id":        ns + label,
		"@type":      "rdf:Property",
		"rdfs:label": label,
	}
	if domain != nil {
		it[ns+"domainIncludes"] = refs(domain...)
	}
	if rng != nil {
		it[ns+"rangeIncludes"] = refs(rng...)
	}
	return it
}

func fixtureSchemas() []jsonld.Item {
	dataType := class("DataType")
	dataType["rdfs:subClassOf"] = map[string]any{"@id": "rdfs:Class"}

	return []jsonld.Item{
		class("Thing"),
		class("CreativeWork", "Thing"),
		class("Article", "CreativeWork"),
		class("Game", "CreativeWork"),
		class("SoftwareApplication", "CreativeWork"),
		class("VideoGame", "SoftwareApplication", "Game"),
		class("Action", "Thing"),
		dataType,
		{
			"@id":        ns + "Text",
			"@type":      []any{ns + "DataType", "rdfs:Class"},
			"rdfs:label": "Text",
		},
	}
}

func fixtureProperties() []jsonld.Item {
	return []jsonld.Item{
		property("name", []string{"Thing"}, []string{"Text"}),
		property("url", []string{"Thing"}, []string{"URL"}),
		property("headline", []string{"CreativeWork"}, []string{"Text"}),
		property("actionStatus", []string{"Action"}, []string{"ActionStatusType"}),
		property("target", []string{"Action"}, []string{"EntryPoint"}),
		property("orphan", nil, []string{"Text"}),
	}
}
