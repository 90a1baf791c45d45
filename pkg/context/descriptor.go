package context

import "github.com/m2osw/prinbee/pkg/schema"

func must(fields ...schema.Field) *schema.Descriptor {
	d, err := schema.New(fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// contextDescriptor is the CTXT file layout (spec.md §4.5): a single
// structure carrying the context's name, schema version, description,
// timestamps, and unique id.
func contextDescriptor() []*schema.Descriptor {
	return []*schema.Descriptor{
		must(schema.FieldName("_magic"), schema.FieldType(schema.Magic), schema.FieldDefaultValue("CTXT")),
		must(schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		must(schema.FieldName("name"), schema.FieldType(schema.P8String)),
		must(schema.FieldName("schema_version"), schema.FieldType(schema.Uint32)),
		must(schema.FieldName("description"), schema.FieldType(schema.P16String)),
		must(schema.FieldName("created_on"), schema.FieldType(schema.NSTime)),
		must(schema.FieldName("last_updated_on"), schema.FieldType(schema.NSTime)),
		must(schema.FieldName("id"), schema.FieldType(schema.Uint64)),
		must(schema.FieldType(schema.End)),
	}
}

// complexTypeEntry is one element of the CXTP file's array. Array items
// are sub-structures, not root files, so they carry no MAGIC/
// STRUCTURE_VERSION prefix of their own.
func complexTypeEntry() []*schema.Descriptor {
	return []*schema.Descriptor{
		must(schema.FieldName("name"), schema.FieldType(schema.P8String)),
		// references holds a comma-separated list of other complex type
		// names this one embeds, so the registry can rebuild its cycle
		// check without re-parsing every field descriptor (spec.md §4.3
		// names the check, not the on-disk shape of the dependency list;
		// round-tripping full field descriptor trees is out of scope —
		// see DESIGN.md).
		must(schema.FieldName("references"), schema.FieldType(schema.P16String)),
		must(schema.FieldType(schema.End)),
	}
}

// complexTypesDescriptor is the CXTP file layout: a magic/version prefix
// followed by an array of complex-type entries.
func complexTypesDescriptor() []*schema.Descriptor {
	return []*schema.Descriptor{
		must(schema.FieldName("_magic"), schema.FieldType(schema.Magic), schema.FieldDefaultValue("CXTP")),
		must(schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		must(schema.FieldName("entries"), schema.FieldType(schema.Array32), schema.FieldSubDescription(complexTypeEntry())),
		must(schema.FieldType(schema.End)),
	}
}
