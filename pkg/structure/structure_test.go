package structure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2osw/prinbee/pkg/bigint"
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/vbuffer"
)

// recordingLogger keeps every warning so tests can check what was logged.
type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Debugf(string, ...interface{}) {}
func (r *recordingLogger) Infof(string, ...interface{})  {}
func (r *recordingLogger) Warnf(format string, x ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, x...))
}
func (r *recordingLogger) Errorf(string, ...interface{}) {}
func (r *recordingLogger) IsDebugEnabled() bool          { return false }

func mustField(t *testing.T, fields ...schema.Field) *schema.Descriptor {
	t.Helper()
	d, err := schema.New(fields...)
	require.NoError(t, err)
	return d
}

func basicDescriptor(t *testing.T) []*schema.Descriptor {
	t.Helper()
	return []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("count"), schema.FieldType(schema.Uint32)),
		mustField(t, schema.FieldName("label"), schema.FieldType(schema.P16String)),
		mustField(t, schema.FieldType(schema.End)),
	}
}

func newTestStructure(t *testing.T) (*Structure, *vbuffer.Buffer) {
	t.Helper()
	buf := vbuffer.New(nil)
	placeholder := make([]byte, 4+4+4+2) // magic + version + count + empty P16 prefix
	require.NoError(t, func() error { _, err := buf.PWrite(placeholder, 0, true); return err }())
	s, err := New(basicDescriptor(t), buf, nil)
	require.NoError(t, err)
	return s, buf
}

func TestNewRejectsMissingMagicPrefix(t *testing.T) {
	buf := vbuffer.New(nil)
	bad := []*schema.Descriptor{
		mustField(t, schema.FieldName("count"), schema.FieldType(schema.Uint32)),
		mustField(t, schema.FieldType(schema.End)),
	}
	_, err := New(bad, buf, nil)
	assert.Error(t, err)
}

func TestInitBufferWritesDefaults(t *testing.T) {
	s, _ := newTestStructure(t)
	require.NoError(t, s.InitBuffer())

	major, minor, err := func() (uint16, uint16, error) {
		v, err := s.GetUinteger("_structure_version")
		return uint16(v), uint16(v >> 16), err
	}()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), major)
	assert.Equal(t, uint16(0), minor)
}

func TestIntegerAccessorRoundTrip(t *testing.T) {
	s, _ := newTestStructure(t)
	require.NoError(t, s.SetUinteger("count", 42))
	v, err := s.GetUinteger("count")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestStringVariableSizeEditShiftsOffsets(t *testing.T) {
	s, _ := newTestStructure(t)
	require.NoError(t, s.SetUinteger("count", 7))

	require.NoError(t, s.SetString("label", "hello world"))
	got, err := s.GetString("label")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	// earlier fixed field is untouched by a later field's growth
	v, err := s.GetUinteger("count")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestRenamedFieldLogsDeprecationWarning(t *testing.T) {
	descriptor := []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("new_name"), schema.FieldType(schema.Uint32)),
		mustField(t, schema.FieldName("old_name"), schema.FieldType(schema.Renamed), schema.FieldRenamedTo("new_name")),
		mustField(t, schema.FieldType(schema.End)),
	}
	buf := vbuffer.New(nil)
	placeholder := make([]byte, 4+4+4)
	_, err := buf.PWrite(placeholder, 0, true)
	require.NoError(t, err)

	log := &recordingLogger{}
	s, err := New(descriptor, buf, log)
	require.NoError(t, err)

	require.NoError(t, s.SetUinteger("new_name", 99))
	assert.Empty(t, log.warnings, "access by the current name must not warn")
	v, err := s.GetUinteger("old_name")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), v)
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "old_name")
}

func TestBitsAccessorRoundTrip(t *testing.T) {
	descriptor := []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("flags=active:1/mode:2/reserved:5"), schema.FieldType(schema.Bits8)),
		mustField(t, schema.FieldType(schema.End)),
	}
	buf := vbuffer.New(nil)
	placeholder := make([]byte, 4+4+1)
	_, err := buf.PWrite(placeholder, 0, true)
	require.NoError(t, err)
	s, err := New(descriptor, buf, nil)
	require.NoError(t, err)

	require.NoError(t, s.SetBits("flags.mode", 3))
	v, err := s.GetBits("flags.mode")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	require.NoError(t, s.SetBits("flags.active", 1))
	active, err := s.GetBits("flags.active")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), active)

	// mode bits untouched by setting the unrelated active bit
	mode, err := s.GetBits("flags.mode")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), mode)
}

func arrayDescriptor(t *testing.T) []*schema.Descriptor {
	t.Helper()
	item := []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("value"), schema.FieldType(schema.Uint32)),
		mustField(t, schema.FieldType(schema.End)),
	}
	return []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("items"), schema.FieldType(schema.Array16), schema.FieldSubDescription(item)),
		mustField(t, schema.FieldType(schema.End)),
	}
}

func arrayDescriptorWithDefault(t *testing.T) []*schema.Descriptor {
	t.Helper()
	item := []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("value"), schema.FieldType(schema.Uint32), schema.FieldDefaultValue("99")),
		mustField(t, schema.FieldType(schema.End)),
	}
	return []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("items"), schema.FieldType(schema.Array16), schema.FieldSubDescription(item)),
		mustField(t, schema.FieldType(schema.End)),
	}
}

func TestArrayAppendAndDelete(t *testing.T) {
	buf := vbuffer.New(nil)
	placeholder := make([]byte, 4+4+2) // magic + version + ARRAY16 count prefix
	_, err := buf.PWrite(placeholder, 0, true)
	require.NoError(t, err)

	s, err := New(arrayDescriptor(t), buf, nil)
	require.NoError(t, err)

	items, err := s.GetArray("items")
	require.NoError(t, err)
	assert.Empty(t, items)

	item0, err := s.NewArrayItem("items")
	require.NoError(t, err)
	require.NoError(t, item0.SetUinteger("value", 111))

	item1, err := s.NewArrayItem("items")
	require.NoError(t, err)
	require.NoError(t, item1.SetUinteger("value", 222))

	items, err = s.GetArray("items")
	require.NoError(t, err)
	require.Len(t, items, 2)
	v0, err := items[0].GetUinteger("value")
	require.NoError(t, err)
	assert.Equal(t, uint64(111), v0)
	v1, err := items[1].GetUinteger("value")
	require.NoError(t, err)
	assert.Equal(t, uint64(222), v1)

	require.NoError(t, s.DeleteArrayItem("items", 0))
	items, err = s.GetArray("items")
	require.NoError(t, err)
	require.Len(t, items, 1)
	v, err := items[0].GetUinteger("value")
	require.NoError(t, err)
	assert.Equal(t, uint64(222), v)
}

func TestNewArrayItemAppliesFieldDefaults(t *testing.T) {
	buf := vbuffer.New(nil)
	placeholder := make([]byte, 4+4+2) // magic + version + ARRAY16 count prefix
	_, err := buf.PWrite(placeholder, 0, true)
	require.NoError(t, err)

	s, err := New(arrayDescriptorWithDefault(t), buf, nil)
	require.NoError(t, err)

	item, err := s.NewArrayItem("items")
	require.NoError(t, err)

	v, err := item.GetUinteger("value")
	require.NoError(t, err)
	assert.Equal(t, uint64(99), v, "a freshly appended array item must get its declared default, not zero bytes")
}

func TestLargeIntegerAccessorRejectsOutOfRange(t *testing.T) {
	descriptor := []*schema.Descriptor{
		mustField(t, schema.FieldName("_magic"), schema.FieldType(schema.Magic)),
		mustField(t, schema.FieldName("_structure_version"), schema.FieldType(schema.StructureVersion),
			schema.FieldVersion(schema.Version{Major: 1, Minor: 0}, schema.Version{Major: 0xffff, Minor: 0xffff})),
		mustField(t, schema.FieldName("amount"), schema.FieldType(schema.Uint128)),
		mustField(t, schema.FieldType(schema.End)),
	}
	buf := vbuffer.New(nil)
	placeholder := make([]byte, 4+4+16)
	_, err := buf.PWrite(placeholder, 0, true)
	require.NoError(t, err)
	s, err := New(descriptor, buf, nil)
	require.NoError(t, err)

	got, err := s.GetLargeUinteger("amount")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// 2^128 needs 129 bits and must not fit a UINT128 field
	err = s.SetLargeUinteger("amount", bigint.FromUint64(1).Lsh(128))
	assert.True(t, perrors.Is(err, perrors.OutOfRange))
	got, err = s.GetLargeUinteger("amount")
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "a rejected write must leave the field unchanged")
}
