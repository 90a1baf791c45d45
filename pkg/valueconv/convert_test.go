package valueconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2osw/prinbee/pkg/schema"
)

func TestIntegerRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Int32, "-1234", 32)
	require.NoError(t, err)
	text, err := ToText(schema.Int32, buf)
	require.NoError(t, err)
	assert.Equal(t, "-1234", text)
}

func TestUnsignedRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Uint16, "65000", 16)
	require.NoError(t, err)
	text, err := ToText(schema.Uint16, buf)
	require.NoError(t, err)
	assert.Equal(t, "65000", text)
}

func TestLargeIntegerRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Int512, "-123456789012345678901234567890", 512)
	require.NoError(t, err)
	text, err := ToText(schema.Int512, buf)
	require.NoError(t, err)
	assert.Equal(t, "-123456789012345678901234567890", text)
}

func TestVersionRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Version, "v3.14", 32)
	require.NoError(t, err)
	text, err := ToText(schema.Version, buf)
	require.NoError(t, err)
	assert.Equal(t, "3.14", text)
}

func TestMagicRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Magic, "CTXT", 32)
	require.NoError(t, err)
	text, err := ToText(schema.Magic, buf)
	require.NoError(t, err)
	assert.Equal(t, "CTXT", text)
}

func TestUnixTimeRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Time, "2024-01-15T10:30:00", 64)
	require.NoError(t, err)
	text, err := ToText(schema.Time, buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00+0000", text)
}

func TestMSTimeWithFractionRoundTrip(t *testing.T) {
	buf, err := FromText(schema.MSTime, "2024-01-15T10:30:00.250", 64)
	require.NoError(t, err)
	text, err := ToText(schema.MSTime, buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.250+0000", text)
}

func TestNSTimeRoundTrip(t *testing.T) {
	buf, err := FromText(schema.NSTime, "2024-01-15T10:30:00.123456789", 128)
	require.NoError(t, err)
	text, err := ToText(schema.NSTime, buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.123456789+0000", text)
}

func TestUSTimeTrimsTrailingZeroFraction(t *testing.T) {
	buf, err := FromText(schema.USTime, "2024-01-15T10:30:00.1234560", 64)
	require.NoError(t, err)
	text, err := ToText(schema.USTime, buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.123456+0000", text)
}

func TestUSTimeRejectsExcessFractionAfterTrimming(t *testing.T) {
	_, err := FromText(schema.USTime, "2024-01-15T10:30:00.1234561", 64)
	assert.Error(t, err)
}

func TestCharRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Char, "hi", 128) // CHAR=16 bytes
	require.NoError(t, err)
	assert.Len(t, buf, 16)
	text, err := ToText(schema.Char, buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestBufferRoundTrip(t *testing.T) {
	buf, err := FromText(schema.Buffer16, "deadbeef", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, buf)
	text, err := ToText(schema.Buffer16, buf)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", text)
}

func TestFloat64RoundTrip(t *testing.T) {
	buf, err := FromText(schema.Float64, "3.5", 64)
	require.NoError(t, err)
	text, err := ToText(schema.Float64, buf)
	require.NoError(t, err)
	assert.Equal(t, "3.5", text)
}
