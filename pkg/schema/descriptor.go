package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m2osw/prinbee/pkg/perrors"
)

var fieldNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Flag is one named bit within a BITS* field, parsed out of the field
// name's inline grammar (spec.md §4.4 step 4): "name=flag1:size1/flag2:size2/...".
type Flag struct {
	Name string
	Pos  int // bit position within the container, 0-based from the LSB
	Size int // width in bits, default 1
}

// Descriptor is one element of a static field schema (spec.md §3's
// "Field descriptor"). Descriptors are built by New and are immutable
// after construction.
type Descriptor struct {
	Name             string
	Type             Type
	Flags            []Flag // BITS* only
	DefaultValueText string
	MinVersion       Version
	MaxVersion       Version
	SubDescription   []*Descriptor // STRUCTURE, ARRAY*, RENAMED
	CharSize         int           // CHAR only, from "name=N"

	// RenamedTo holds the new field name a RENAMED entry's
	// sub-description points at (spec.md §4.4 step 6).
	RenamedTo string

	// rawSuffix holds whatever followed "=" in the field name, before
	// it's interpreted as a CHAR size or a BITS* flag grammar.
	rawSuffix string
}

// Version is a packed MAJOR.MINOR pair (spec.md §3, STRUCTURE_VERSION
// and VERSION share this encoding).
type Version struct {
	Major uint16
	Minor uint16
}

func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v Version) LessEqual(o Version) bool {
	return v == o || v.Less(o)
}

func (v Version) Pack() uint32 {
	return uint32(v.Major) | uint32(v.Minor)<<16
}

func UnpackVersion(raw uint32) Version {
	return Version{Major: uint16(raw), Minor: uint16(raw >> 16)}
}

// Field is a builder-time tagged value accepted by New. Use the
// FieldName/FieldType/... constructors below to build a list of them.
type Field struct {
	apply func(*Descriptor)
}

func FieldName(name string) Field {
	return Field{apply: func(d *Descriptor) {
		// "name=..." carries CHAR size or BITS* flag grammar; split it off.
		if i := strings.IndexByte(name, '='); i >= 0 {
			d.Name = name[:i]
			d.rawSuffix = name[i+1:]
		} else {
			d.Name = name
		}
	}}
}

func FieldType(t Type) Field {
	return Field{apply: func(d *Descriptor) { d.Type = t }}
}

func FieldDefaultValue(text string) Field {
	return Field{apply: func(d *Descriptor) { d.DefaultValueText = text }}
}

func FieldVersion(min, max Version) Field {
	return Field{apply: func(d *Descriptor) { d.MinVersion, d.MaxVersion = min, max }}
}

func FieldSubDescription(sub []*Descriptor) Field {
	return Field{apply: func(d *Descriptor) { d.SubDescription = sub }}
}

func FieldRenamedTo(name string) Field {
	return Field{apply: func(d *Descriptor) { d.RenamedTo = name }}
}

// New constructs one descriptor element from a list of tagged
// field-values and enforces spec.md §3's invariants immediately, the
// Go stand-in for the original's compile-time checks.
func New(fields ...Field) (*Descriptor, error) {
	d := &Descriptor{MaxVersion: Version{Major: 0xffff, Minor: 0xffff}}
	for _, f := range fields {
		f.apply(d)
	}

	if d.Type == End {
		return d, nil
	}

	if d.Name == "" {
		return nil, perrors.New(perrors.InvalidParameter, "field descriptor has an empty name")
	}
	if !fieldNameRE.MatchString(d.Name) {
		return nil, perrors.New(perrors.InvalidParameter, "field name %q does not match [A-Za-z_][A-Za-z0-9_]*", d.Name)
	}

	switch d.Type {
	case Magic:
		if d.Name != "_magic" {
			return nil, perrors.New(perrors.InvalidParameter, "MAGIC field must be named \"_magic\", got %q", d.Name)
		}
	case StructureVersion:
		if d.Name != "_structure_version" {
			return nil, perrors.New(perrors.InvalidParameter, "STRUCTURE_VERSION field must be named \"_structure_version\", got %q", d.Name)
		}
	}

	if d.Type == Char {
		if d.rawSuffix == "" {
			return nil, perrors.New(perrors.InvalidParameter, "CHAR field %q requires a \"name=N\" byte size", d.Name)
		}
		n, err := strconv.Atoi(d.rawSuffix)
		if err != nil || n <= 0 {
			return nil, perrors.New(perrors.InvalidParameter, "CHAR field %q has an invalid size suffix %q", d.Name, d.rawSuffix)
		}
		d.CharSize = n
	}

	if strings.HasPrefix(d.Type.String(), "BITS") && d.rawSuffix != "" {
		flags, err := parseBitGrammar(d.rawSuffix, d.Type)
		if err != nil {
			return nil, perrors.Wrap(perrors.InvalidParameter, err, "field %q", d.Name)
		}
		d.Flags = flags
	}

	needsSub := d.Type == Structure || d.Type == Array8 || d.Type == Array16 || d.Type == Array32 || d.Type == Renamed
	if needsSub && len(d.SubDescription) == 0 && d.RenamedTo == "" {
		return nil, perrors.New(perrors.InvalidParameter, "field %q of type %s requires a sub-description", d.Name, d.Type)
	}
	if !needsSub && len(d.SubDescription) != 0 {
		return nil, perrors.New(perrors.InvalidParameter, "field %q of type %s must not carry a sub-description", d.Name, d.Type)
	}
	if d.Type == Renamed && d.RenamedTo == "" {
		return nil, perrors.New(perrors.InvalidParameter, "RENAMED field %q must carry FieldRenamedTo", d.Name)
	}

	if d.MaxVersion.Less(d.MinVersion) {
		return nil, perrors.New(perrors.InvalidParameter, "field %q has min_version > max_version", d.Name)
	}

	return d, nil
}

// bitWidthOf returns the container width in bits for a BITS* type.
func bitWidthOf(t Type) int {
	switch t {
	case Bits8:
		return 8
	case Bits16:
		return 16
	case Bits32:
		return 32
	case Bits64:
		return 64
	case Bits128:
		return 128
	case Bits256:
		return 256
	case Bits512:
		return 512
	}
	return 0
}

// parseBitGrammar parses "flag1:size1/flag2:size2/flag3/..." (default
// size 1) and validates that flags neither overlap nor exceed the
// container's bit width, per spec.md §3 invariant 5 and §4.4 step 4.
func parseBitGrammar(s string, container Type) ([]Flag, error) {
	width := bitWidthOf(container)
	var flags []Flag
	pos := 0
	for _, part := range strings.Split(s, "/") {
		if part == "" {
			continue
		}
		name := part
		size := 1
		if i := strings.IndexByte(part, ':'); i >= 0 {
			name = part[:i]
			n, err := strconv.Atoi(part[i+1:])
			if err != nil || n <= 0 {
				return nil, perrors.New(perrors.InvalidParameter, "bit flag %q has an invalid size", part)
			}
			size = n
		}
		if !fieldNameRE.MatchString(name) {
			return nil, perrors.New(perrors.InvalidParameter, "bit flag name %q is not a valid identifier", name)
		}
		if pos+size > width {
			return nil, perrors.New(perrors.InvalidParameter, "bit flags exceed the %d-bit container", width)
		}
		flags = append(flags, Flag{Name: name, Pos: pos, Size: size})
		pos += size
	}
	return flags, nil
}
