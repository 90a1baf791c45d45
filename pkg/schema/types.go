// Package schema implements prinbee's compile-time-constructible field
// descriptors (spec.md §4.3): the closed enumeration of scalar types, the
// per-type static/length-prefix size table, and the descriptor builder
// that enforces §3's invariants when a descriptor array is assembled.
package schema

import "strings"

// Type is the closed enumeration of scalar field types (spec.md §3). The
// numeric values are this package's own and carry no on-disk meaning;
// only the 4-byte magics in magic.go are persisted.
type Type int

const (
	End Type = iota
	Void

	Bits8
	Bits16
	Bits32
	Bits64
	Bits128
	Bits256
	Bits512

	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Int128
	Uint128
	Int256
	Uint256
	Int512
	Uint512

	Float32
	Float64
	Float128

	Magic
	StructureVersion
	Version

	Time
	MSTime
	USTime
	NSTime

	Char
	P8String
	P16String
	P32String

	Structure

	Array8
	Array16
	Array32

	Buffer8
	Buffer16
	Buffer32

	Reference
	OID

	Renamed
)

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var typeNames = map[Type]string{
	End:              "END",
	Void:             "VOID",
	Bits8:            "BITS8",
	Bits16:           "BITS16",
	Bits32:           "BITS32",
	Bits64:           "BITS64",
	Bits128:          "BITS128",
	Bits256:          "BITS256",
	Bits512:          "BITS512",
	Int8:             "INT8",
	Uint8:            "UINT8",
	Int16:            "INT16",
	Uint16:           "UINT16",
	Int32:            "INT32",
	Uint32:           "UINT32",
	Int64:            "INT64",
	Uint64:           "UINT64",
	Int128:           "INT128",
	Uint128:          "UINT128",
	Int256:           "INT256",
	Uint256:          "UINT256",
	Int512:           "INT512",
	Uint512:          "UINT512",
	Float32:          "FLOAT32",
	Float64:          "FLOAT64",
	Float128:         "FLOAT128",
	Magic:            "MAGIC",
	StructureVersion: "STRUCTURE_VERSION",
	Version:          "VERSION",
	Time:             "TIME",
	MSTime:           "MSTIME",
	USTime:           "USTIME",
	NSTime:           "NSTIME",
	Char:             "CHAR",
	P8String:         "P8STRING",
	P16String:        "P16STRING",
	P32String:        "P32STRING",
	Structure:        "STRUCTURE",
	Array8:           "ARRAY8",
	Array16:          "ARRAY16",
	Array32:          "ARRAY32",
	Buffer8:          "BUFFER8",
	Buffer16:         "BUFFER16",
	Buffer32:         "BUFFER32",
	Reference:        "REFERENCE",
	OID:              "OID",
	Renamed:          "RENAMED",
}

var nameToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

// ParseType looks up a type by its canonical uppercase name.
func ParseType(name string) (Type, bool) {
	t, ok := nameToType[strings.ToUpper(name)]
	return t, ok
}

// SizeKind classifies a type's static footprint per spec.md §4.3.
type SizeKind int

const (
	// SizeFixed means StaticSize is the exact byte count of the type.
	SizeFixed SizeKind = iota
	// SizeVariable means the payload length depends on runtime content
	// (strings, buffers, arrays, structures containing variable fields).
	SizeVariable
	// SizeInvalid means the type cannot appear as a standalone field
	// value (END, CHAR without a declared width, RENAMED).
	SizeInvalid
)

// typeInfo is one row of the per-type table spec.md §4.3 requires.
type typeInfo struct {
	kind        SizeKind
	staticSize  int // meaningful only when kind == SizeFixed
	prefixBytes int // length-prefix size: 0, 1, 2, or 4
}

var typeTable = map[Type]typeInfo{
	End:              {SizeInvalid, 0, 0},
	Void:             {SizeFixed, 0, 0},
	Bits8:            {SizeFixed, 1, 0},
	Bits16:           {SizeFixed, 2, 0},
	Bits32:           {SizeFixed, 4, 0},
	Bits64:           {SizeFixed, 8, 0},
	Bits128:          {SizeFixed, 16, 0},
	Bits256:          {SizeFixed, 32, 0},
	Bits512:          {SizeFixed, 64, 0},
	Int8:             {SizeFixed, 1, 0},
	Uint8:            {SizeFixed, 1, 0},
	Int16:            {SizeFixed, 2, 0},
	Uint16:           {SizeFixed, 2, 0},
	Int32:            {SizeFixed, 4, 0},
	Uint32:           {SizeFixed, 4, 0},
	Int64:            {SizeFixed, 8, 0},
	Uint64:           {SizeFixed, 8, 0},
	Int128:           {SizeFixed, 16, 0},
	Uint128:          {SizeFixed, 16, 0},
	Int256:           {SizeFixed, 32, 0},
	Uint256:          {SizeFixed, 32, 0},
	Int512:           {SizeFixed, 64, 0},
	Uint512:          {SizeFixed, 64, 0},
	Float32:          {SizeFixed, 4, 0},
	Float64:          {SizeFixed, 8, 0},
	Float128:         {SizeFixed, 16, 0},
	Magic:            {SizeFixed, 4, 0},
	StructureVersion: {SizeFixed, 4, 0},
	Version:          {SizeFixed, 4, 0},
	Time:             {SizeFixed, 8, 0},
	MSTime:           {SizeFixed, 8, 0},
	USTime:           {SizeFixed, 8, 0},
	NSTime:           {SizeFixed, 16, 0},
	Char:             {SizeInvalid, 0, 0}, // size comes from the "name=N" grammar, not this table
	P8String:         {SizeVariable, 0, 1},
	P16String:        {SizeVariable, 0, 2},
	P32String:        {SizeVariable, 0, 4},
	Structure:        {SizeVariable, 0, 0}, // fixed sub-record, but static size depends on the sub-descriptor
	Array8:           {SizeVariable, 0, 1},
	Array16:          {SizeVariable, 0, 2},
	Array32:          {SizeVariable, 0, 4},
	Buffer8:          {SizeVariable, 0, 1},
	Buffer16:         {SizeVariable, 0, 2},
	Buffer32:         {SizeVariable, 0, 4},
	Reference:        {SizeFixed, 8, 0},
	OID:              {SizeFixed, 8, 0},
	Renamed:          {SizeInvalid, 0, 0},
}

// SizeKindOf returns the static-size classification of type t.
func SizeKindOf(t Type) SizeKind {
	return typeTable[t].kind
}

// StaticSizeOf returns the fixed byte size of t, valid only when
// SizeKindOf(t) == SizeFixed.
func StaticSizeOf(t Type) int {
	return typeTable[t].staticSize
}

// PrefixBytesOf returns the length-prefix width (0, 1, 2, or 4) prepended
// to t's payload on disk.
func PrefixBytesOf(t Type) int {
	return typeTable[t].prefixBytes
}

// IsVariableSize reports whether t's runtime payload can vary in length.
func IsVariableSize(t Type) bool {
	return typeTable[t].kind == SizeVariable
}
