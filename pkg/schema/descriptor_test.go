package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDescriptorBasic(t *testing.T) {
	d, err := New(FieldName("count"), FieldType(Uint32))
	assert.NoError(t, err)
	assert.Equal(t, "count", d.Name)
	assert.Equal(t, Uint32, d.Type)
}

func TestNewDescriptorRejectsBadName(t *testing.T) {
	_, err := New(FieldName("1bad"), FieldType(Uint32))
	assert.Error(t, err)
}

func TestNewDescriptorMagicMustBeNamedMagic(t *testing.T) {
	_, err := New(FieldName("wrong"), FieldType(Magic))
	assert.Error(t, err)

	d, err := New(FieldName("_magic"), FieldType(Magic))
	assert.NoError(t, err)
	assert.Equal(t, "_magic", d.Name)
}

func TestNewDescriptorStructureVersionName(t *testing.T) {
	_, err := New(FieldName("version"), FieldType(StructureVersion))
	assert.Error(t, err)

	d, err := New(FieldName("_structure_version"), FieldType(StructureVersion))
	assert.NoError(t, err)
	assert.Equal(t, "_structure_version", d.Name)
}

func TestNewDescriptorCharRequiresSize(t *testing.T) {
	_, err := New(FieldName("label"), FieldType(Char))
	assert.Error(t, err)

	d, err := New(FieldName("label=16"), FieldType(Char))
	assert.NoError(t, err)
	assert.Equal(t, "label", d.Name)
	assert.Equal(t, 16, d.CharSize)
}

func TestNewDescriptorBitsGrammar(t *testing.T) {
	d, err := New(FieldName("flags=active:1/priority:3/locked"), FieldType(Bits8))
	assert.NoError(t, err)
	assert.Equal(t, "flags", d.Name)
	assert.Len(t, d.Flags, 3)
	assert.Equal(t, "active", d.Flags[0].Name)
	assert.Equal(t, 0, d.Flags[0].Pos)
	assert.Equal(t, 1, d.Flags[0].Size)
	assert.Equal(t, "priority", d.Flags[1].Name)
	assert.Equal(t, 1, d.Flags[1].Pos)
	assert.Equal(t, 3, d.Flags[1].Size)
	assert.Equal(t, "locked", d.Flags[2].Name)
	assert.Equal(t, 4, d.Flags[2].Pos)
	assert.Equal(t, 1, d.Flags[2].Size)
}

func TestNewDescriptorBitsOverflow(t *testing.T) {
	_, err := New(FieldName("flags=a:4/b:4/c:4"), FieldType(Bits8))
	assert.Error(t, err)
}

func TestNewDescriptorStructureRequiresSubDescription(t *testing.T) {
	_, err := New(FieldName("nested"), FieldType(Structure))
	assert.Error(t, err)

	sub := []*Descriptor{{Name: "x", Type: Uint32}, {Type: End}}
	d, err := New(FieldName("nested"), FieldType(Structure), FieldSubDescription(sub))
	assert.NoError(t, err)
	assert.Equal(t, Structure, d.Type)
}

func TestNewDescriptorRejectsSpuriousSubDescription(t *testing.T) {
	_, err := New(FieldName("count"), FieldType(Uint32), FieldSubDescription([]*Descriptor{{}}))
	assert.Error(t, err)
}

func TestNewDescriptorVersionOrdering(t *testing.T) {
	_, err := New(
		FieldName("count"),
		FieldType(Uint32),
		FieldVersion(Version{Major: 2, Minor: 0}, Version{Major: 1, Minor: 0}),
	)
	assert.Error(t, err)
}

func TestTypeTableClassifications(t *testing.T) {
	assert.Equal(t, SizeFixed, SizeKindOf(Uint64))
	assert.Equal(t, 8, StaticSizeOf(Uint64))
	assert.True(t, IsVariableSize(P32String))
	assert.Equal(t, 4, PrefixBytesOf(P32String))
	assert.Equal(t, SizeInvalid, SizeKindOf(End))
}

func TestMagicRoundTrip(t *testing.T) {
	m := NewMagic("CTXT")
	assert.Equal(t, MagicContext, m)
	assert.Equal(t, "CTXT", m.String())
	assert.Equal(t, []byte("CTXT"), m.Bytes())
}
