package structure

import "github.com/m2osw/prinbee/pkg/schema"

// fieldFlag mirrors spec.md §3's "Field (runtime)": only VARIABLE_SIZE
// is tracked.
type fieldFlag int

const (
	flagNone         fieldFlag = 0
	flagVariableSize fieldFlag = 1
)

// field is a parsed instance of a schema.Descriptor inside a structure's
// buffer: a descriptor plus a byte offset, a current size, and the
// next/previous chain reflecting descriptor order (spec.md §3 "Field
// (runtime)").
type field struct {
	descriptor *schema.Descriptor
	offset     int
	size       int // current byte size, including any length prefix
	flags      fieldFlag

	next, prev *field

	// children holds the sub-structures of a STRUCTURE (exactly one
	// entry) or ARRAY* (zero or more) field.
	children []*Structure
}

func (f *field) isVariableSize() bool {
	return f.flags&flagVariableSize != 0
}

// payloadOffset returns where the field's actual value starts, skipping
// past any length/count prefix.
func (f *field) payloadOffset() int {
	return f.offset + schema.PrefixBytesOf(f.descriptor.Type)
}

// payloadSize returns the field's value size, excluding the prefix.
func (f *field) payloadSize() int {
	return f.size - schema.PrefixBytesOf(f.descriptor.Type)
}
