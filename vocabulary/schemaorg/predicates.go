package schemaorg

import "github.com/c360studio/semstreams/vocabulary"

// Class predicates describe one resolved class entity.
const (
	// ClassLabelPredicate is the class name without namespace.
	ClassLabelPredicate = "schemaorg.class.label"

	// ClassParent links a class to a direct parent class entity.
	ClassParent = "schemaorg.class.parent"

	// ClassChild links a class to a direct child class entity.
	ClassChild = "schemaorg.class.child"

	// ClassOwnProperty names a property declared directly on the class.
	ClassOwnProperty = "schemaorg.class.own_property"

	// ClassSpecificityPath is one dot-joined root-to-class path.
	ClassSpecificityPath = "schemaorg.class.specificity_path"

	// ClassVersion is the schema.org release the class was resolved from.
	ClassVersion = "schemaorg.class.version"
)

// Property predicates describe one resolved property entity.
const (
	// PropertyLabelPredicate is the property name without namespace.
	PropertyLabelPredicate = "schemaorg.property.label"

	// PropertyUsedIn names a class in the property's domain.
	PropertyUsedIn = "schemaorg.property.used_in"

	// PropertyValueType names a class in the property's range.
	PropertyValueType = "schemaorg.property.value_type"
)

func init() {
	vocabulary.Register(ClassLabelPredicate,
		vocabulary.WithDescription("schema.org class name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(ClassParent,
		vocabulary.WithDescription("Direct parent class in the resolved hierarchy"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RDFSSubClassOf))

	vocabulary.Register(ClassChild,
		vocabulary.WithDescription("Direct child class in the resolved hierarchy"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.SkosNarrower))

	vocabulary.Register(ClassOwnProperty,
		vocabulary.WithDescription("Property whose domain includes the class"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DomainIncludes))

	vocabulary.Register(ClassSpecificityPath,
		vocabulary.WithDescription("Dot-joined inheritance path from a root to the class"),
		vocabulary.WithDataType("string"))

	vocabulary.Register(ClassVersion,
		vocabulary.WithDescription("schema.org release version the class was resolved from"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.ProvWasDerivedFrom))

	vocabulary.Register(PropertyLabelPredicate,
		vocabulary.WithDescription("schema.org property name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel))

	vocabulary.Register(PropertyUsedIn,
		vocabulary.WithDescription("Class in the property's domain"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(DomainIncludes))

	vocabulary.Register(PropertyValueType,
		vocabulary.WithDescription("Class in the property's range"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(RangeIncludes))
}
