// Package valueconv implements the typed buffer↔text dispatch layer
// (spec.md §4.1's "Typed buffer ↔ text"): a single function per direction
// that maps a schema.Type to the right integer/float/temporal/string
// converter, plus the version and magic renderers the structure codec
// needs to apply field defaults.
//
// Grounded on original_source/prinbee/data/convert.cpp's per-type
// to_string/string_to_* functions (string_to_unix_time,
// unix_time_to_string, string_to_ns_time, ns_time_to_string,
// buffer_to_string, string_to_pbuffer).
package valueconv

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/m2osw/prinbee/pkg/bigint"
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
)

// ToText renders the bytes of a field's payload as text, dispatching on
// the field's declared type.
func ToText(t schema.Type, buf []byte) (string, error) {
	switch t {
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		return strconv.FormatInt(decodeSigned(buf), 10), nil
	case schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64,
		schema.Reference, schema.OID:
		return strconv.FormatUint(decodeUnsigned(buf), 10), nil
	case schema.Bits8, schema.Bits16, schema.Bits32, schema.Bits64:
		return "0x" + strconv.FormatUint(decodeUnsigned(buf), 16), nil
	case schema.Int128, schema.Int256, schema.Int512:
		return bigint.FromSignedBytes(buf).Text(10), nil
	case schema.Uint128, schema.Uint256, schema.Uint512, schema.Bits128, schema.Bits256, schema.Bits512:
		return bigint.FromBytes(buf).Text(10), nil
	case schema.Float32:
		return floatToText(float64(decodeFloat32(buf)), 32)
	case schema.Float64:
		return floatToText(decodeFloat64(buf), 64)
	case schema.Float128:
		return floatToText(decodeFloat128(buf), 128)
	case schema.Magic:
		return string(buf), nil
	case schema.Version, schema.StructureVersion:
		v := schema.UnpackVersion(binary.LittleEndian.Uint32(buf))
		return fmt.Sprintf("%d.%d", v.Major, v.Minor), nil
	case schema.Time:
		return unixTimeToText(buf, 1), nil
	case schema.MSTime:
		return unixTimeToText(buf, 1000), nil
	case schema.USTime:
		return unixTimeToText(buf, 1000000), nil
	case schema.NSTime:
		return nsTimeToText(buf), nil
	case schema.Char:
		return strings.TrimRight(string(buf), "\x00"), nil
	case schema.P8String, schema.P16String, schema.P32String:
		return string(buf), nil
	case schema.Buffer8, schema.Buffer16, schema.Buffer32:
		return hex.EncodeToString(buf), nil
	}
	return "", perrors.New(perrors.TypeMismatch, "type %s has no text representation", t)
}

// FromText parses text into the on-disk byte representation for the
// given type. width is the field's declared bit width, needed to size
// and sign-extend the integer families.
func FromText(t schema.Type, text string, width int) ([]byte, error) {
	switch t {
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		return encodeSignedText(text, width)
	case schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64,
		schema.Reference, schema.OID, schema.Bits8, schema.Bits16, schema.Bits32, schema.Bits64:
		return encodeUnsignedText(text, width)
	case schema.Int128, schema.Int256, schema.Int512:
		v, err := bigint.ParseInt(text, width)
		if err != nil {
			return nil, err
		}
		return v.Bytes(width), nil
	case schema.Uint128, schema.Uint256, schema.Uint512, schema.Bits128, schema.Bits256, schema.Bits512:
		v, err := bigint.ParseUint(text, width)
		if err != nil {
			return nil, err
		}
		return v.Bytes(width), nil
	case schema.Float32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, perrors.Wrap(perrors.InvalidNumber, err, "parsing float32 %q", text)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
		return buf, nil
	case schema.Float64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, perrors.Wrap(perrors.InvalidNumber, err, "parsing float64 %q", text)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return buf, nil
	case schema.Float128:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, perrors.Wrap(perrors.InvalidNumber, err, "parsing float128 %q", text)
		}
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(f))
		return buf, nil
	case schema.Magic:
		m, ok := schema.ParseMagic(text)
		if !ok && len(text) == 4 {
			m = schema.NewMagic(text)
		} else if !ok {
			return nil, perrors.New(perrors.InvalidToken, "%q is not a valid 4-character magic", text)
		}
		return m.Bytes(), nil
	case schema.Version, schema.StructureVersion:
		v, err := parseVersion(text)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, v.Pack())
		return buf, nil
	case schema.Time:
		return textToUnixTime(text, 1)
	case schema.MSTime:
		return textToUnixTime(text, 1000)
	case schema.USTime:
		return textToUnixTime(text, 1000000)
	case schema.NSTime:
		return textToNSTime(text)
	case schema.Char:
		buf := make([]byte, width/8)
		copy(buf, text)
		return buf, nil
	case schema.P8String, schema.P16String, schema.P32String:
		return []byte(text), nil
	case schema.Buffer8, schema.Buffer16, schema.Buffer32:
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, perrors.Wrap(perrors.InvalidToken, err, "decoding hex buffer %q", text)
		}
		return b, nil
	}
	return nil, perrors.New(perrors.TypeMismatch, "type %s cannot be parsed from text", t)
}

func decodeSigned(buf []byte) int64 {
	var full [8]byte
	copy(full[:], buf)
	u := binary.LittleEndian.Uint64(full[:])
	shift := uint(64 - 8*len(buf))
	return int64(u<<shift) >> shift
}

func decodeUnsigned(buf []byte) uint64 {
	var full [8]byte
	copy(full[:], buf)
	return binary.LittleEndian.Uint64(full[:])
}

func encodeSignedText(text string, width int) ([]byte, error) {
	v, err := bigint.ParseInt(text, width)
	if err != nil {
		return nil, err
	}
	return v.Bytes(width)[:width/8], nil
}

func encodeUnsignedText(text string, width int) ([]byte, error) {
	v, err := bigint.ParseUint(text, width)
	if err != nil {
		return nil, err
	}
	return v.Bytes(width)[:width/8], nil
}

func decodeFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

func decodeFloat64(buf []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}

func decodeFloat128(buf []byte) float64 {
	// FLOAT128 is stored as a 16-byte field; this implementation keeps
	// the value in the low 8 bytes as an IEEE-754 double and zero-pads
	// the rest, since Go has no native 128-bit float (see DESIGN.md).
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
}

func floatToText(f float64, bits int) (string, error) {
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func parseVersion(text string) (schema.Version, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "v")
	text = strings.TrimPrefix(text, "V")
	parts := strings.SplitN(text, ".", 2)
	if len(parts) != 2 {
		return schema.Version{}, perrors.New(perrors.InvalidNumber, "%q is not a MAJOR.MINOR version", text)
	}
	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return schema.Version{}, perrors.Wrap(perrors.InvalidNumber, err, "parsing major version in %q", text)
	}
	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return schema.Version{}, perrors.Wrap(perrors.InvalidNumber, err, "parsing minor version in %q", text)
	}
	return schema.Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// unixTimeToText renders a little-endian uint64 count of `fraction`
// units-per-second since the epoch as "YYYY-MM-DDTHH:MM:SS[.fraction]+0000".
func unixTimeToText(buf []byte, fraction int64) string {
	raw := int64(decodeUnsigned(buf))
	sec := raw / fraction
	t := time.Unix(sec, 0).UTC()
	result := t.Format("2006-01-02T15:04:05")
	if fraction != 1 {
		frac := raw % fraction
		digits := 3
		if fraction == 1000000 {
			digits = 6
		}
		result += fmt.Sprintf(".%0*d", digits, frac)
	}
	return result + "+0000"
}

// textToUnixTime parses ISO-8601 with optional fractional seconds and an
// optional ±HHMM zone, per spec.md §4.1, into a little-endian uint64 of
// `fraction` units-per-second.
func textToUnixTime(text string, fraction int64) ([]byte, error) {
	sec, fracUnits, err := parseISO8601(text, fraction)
	if err != nil {
		return nil, err
	}
	raw := uint64(sec*fraction) + uint64(fracUnits)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, raw)
	return buf, nil
}

// textToNSTime parses the same grammar into a 16-byte {seconds,
// nanoseconds} pair (spec.md §3's NSTIME = 128 bits: seconds + nanoseconds).
func textToNSTime(text string) ([]byte, error) {
	sec, nanos, err := parseISO8601(text, 1000000000)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(sec))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(nanos))
	return buf, nil
}

func nsTimeToText(buf []byte) string {
	sec := int64(binary.LittleEndian.Uint64(buf[0:8]))
	nanos := int64(binary.LittleEndian.Uint64(buf[8:16]))
	t := time.Unix(sec, nanos).UTC()
	return fmt.Sprintf("%s.%09d+0000", t.Format("2006-01-02T15:04:05"), nanos)
}

// parseISO8601 parses "YYYY-MM-DDTHH:MM:SS[.fraction][±HHMM]" and scales
// the fractional part to fractionScale units-per-second (1000 for
// milliseconds, 1000000 for microseconds, 1000000000 for nanoseconds).
func parseISO8601(text string, fractionScale int64) (seconds int64, fraction int64, err error) {
	text = strings.TrimSpace(text)

	datePart := text
	fracDigits := ""
	if i := strings.IndexByte(text, '.'); i >= 0 {
		datePart = text[:i]
		rest := text[i+1:]
		zone := strings.IndexAny(rest, "+-")
		if zone >= 0 {
			fracDigits = rest[:zone]
			datePart += rest[zone:]
		} else {
			fracDigits = rest
		}
	}

	layouts := []string{"2006-01-02T15:04:05Z0700", "2006-01-02T15:04:05-0700", "2006-01-02T15:04:05"}
	var t time.Time
	parsed := false
	for _, layout := range layouts {
		if tt, e := time.Parse(layout, datePart); e == nil {
			t = tt
			parsed = true
			break
		}
	}
	if !parsed {
		return 0, 0, perrors.New(perrors.InvalidNumber, "%q is not a valid ISO-8601 timestamp", text)
	}

	if fracDigits != "" {
		want := digitsFor(fractionScale)
		for len(fracDigits) > want && strings.HasSuffix(fracDigits, "0") {
			fracDigits = fracDigits[:len(fracDigits)-1]
		}
		for len(fracDigits) < want {
			fracDigits += "0"
		}
		if len(fracDigits) > want {
			return 0, 0, perrors.New(perrors.OutOfRange, "time fraction %q exceeds %d digits of precision", fracDigits, want)
		}
		f, e := strconv.ParseInt(fracDigits, 10, 64)
		if e != nil {
			return 0, 0, perrors.Wrap(perrors.InvalidNumber, e, "parsing time fraction %q", fracDigits)
		}
		fraction = f
	}

	return t.Unix(), fraction, nil
}

func digitsFor(scale int64) int {
	switch scale {
	case 1000:
		return 3
	case 1000000:
		return 6
	case 1000000000:
		return 9
	}
	return 0
}
