package structure

import (
	"encoding/binary"

	"github.com/m2osw/prinbee/pkg/bigint"
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
)

func scalarBitWidth(t schema.Type) int {
	switch t {
	case schema.Int8, schema.Uint8, schema.Bits8:
		return 8
	case schema.Int16, schema.Uint16, schema.Bits16:
		return 16
	case schema.Int32, schema.Uint32, schema.Bits32:
		return 32
	case schema.Int64, schema.Uint64, schema.Bits64,
		schema.Reference, schema.OID, schema.Time, schema.MSTime, schema.USTime:
		return 64
	case schema.Int128, schema.Uint128, schema.Bits128, schema.NSTime:
		return 128
	case schema.Int256, schema.Uint256, schema.Bits256:
		return 256
	case schema.Int512, schema.Uint512, schema.Bits512:
		return 512
	case schema.Magic, schema.Version, schema.StructureVersion:
		return 32
	}
	return 0
}

// GetInteger reads a signed integer field of at most 64 bits.
func (s *Structure) GetInteger(name string) (int64, error) {
	f, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	if !isSmallSignedInteger(f.descriptor.Type) {
		return 0, perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a signed integer accessor target", name, f.descriptor.Type)
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return 0, err
	}
	return signExtend(buf), nil
}

// SetInteger writes a signed integer field of at most 64 bits.
func (s *Structure) SetInteger(name string, value int64) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !isSmallSignedInteger(f.descriptor.Type) {
		return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a signed integer accessor target", name, f.descriptor.Type)
	}
	width := scalarBitWidth(f.descriptor.Type)
	buf := make([]byte, width/8)
	var full [8]byte
	binary.LittleEndian.PutUint64(full[:], uint64(value))
	copy(buf, full[:])
	return s.writeFixedPayload(f, buf)
}

// GetUinteger reads an unsigned integer field of at most 64 bits,
// including REFERENCE, OID, MAGIC, VERSION, and STRUCTURE_VERSION.
func (s *Structure) GetUinteger(name string) (uint64, error) {
	f, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	if !isSmallUnsignedInteger(f.descriptor.Type) {
		return 0, perrors.New(perrors.TypeMismatch, "field %q (type %s) is not an unsigned integer accessor target", name, f.descriptor.Type)
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return 0, err
	}
	var full [8]byte
	copy(full[:], buf)
	return binary.LittleEndian.Uint64(full[:]), nil
}

// SetUinteger writes an unsigned integer field of at most 64 bits.
func (s *Structure) SetUinteger(name string, value uint64) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !isSmallUnsignedInteger(f.descriptor.Type) {
		return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not an unsigned integer accessor target", name, f.descriptor.Type)
	}
	width := scalarBitWidth(f.descriptor.Type)
	buf := make([]byte, width/8)
	var full [8]byte
	binary.LittleEndian.PutUint64(full[:], value)
	copy(buf, full[:])
	return s.writeFixedPayload(f, buf)
}

// GetLargeInteger reads a signed integer field of up to 512 bits, with
// sign extension from the field's declared width.
func (s *Structure) GetLargeInteger(name string) (bigint.Int512, error) {
	f, err := s.lookup(name)
	if err != nil {
		return bigint.Int512{}, err
	}
	if !isLargeSignedInteger(f.descriptor.Type) {
		return bigint.Int512{}, perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a large signed integer", name, f.descriptor.Type)
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return bigint.Int512{}, err
	}
	return bigint.FromSignedBytes(buf), nil
}

// SetLargeInteger writes a signed integer field of up to 512 bits.
func (s *Structure) SetLargeInteger(name string, value bigint.Int512) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !isLargeSignedInteger(f.descriptor.Type) {
		return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a large signed integer", name, f.descriptor.Type)
	}
	width := scalarBitWidth(f.descriptor.Type)
	if !value.FitsSigned(width) {
		return perrors.New(perrors.OutOfRange, "value does not fit in %d signed bits for field %q", width, name)
	}
	return s.writeFixedPayload(f, value.Bytes(width))
}

// GetLargeUinteger reads an unsigned integer field of up to 512 bits.
func (s *Structure) GetLargeUinteger(name string) (bigint.Uint512, error) {
	f, err := s.lookup(name)
	if err != nil {
		return bigint.Uint512{}, err
	}
	if !isLargeUnsignedInteger(f.descriptor.Type) {
		return bigint.Uint512{}, perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a large unsigned integer", name, f.descriptor.Type)
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return bigint.Uint512{}, err
	}
	return bigint.FromBytes(buf), nil
}

// SetLargeUinteger writes an unsigned integer field of up to 512 bits.
func (s *Structure) SetLargeUinteger(name string, value bigint.Uint512) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !isLargeUnsignedInteger(f.descriptor.Type) {
		return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a large unsigned integer", name, f.descriptor.Type)
	}
	width := scalarBitWidth(f.descriptor.Type)
	if !value.FitsUnsigned(width) {
		return perrors.New(perrors.OutOfRange, "value does not fit in %d unsigned bits for field %q", width, name)
	}
	return s.writeFixedPayload(f, value.Bytes(width))
}

func (s *Structure) GetFloat32(name string) (float32, error) {
	f, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	if err := s.requireType(f, schema.Float32); err != nil {
		return 0, err
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return 0, err
	}
	return float32FromBytes(buf), nil
}

func (s *Structure) SetFloat32(name string, value float32) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.requireType(f, schema.Float32); err != nil {
		return err
	}
	return s.writeFixedPayload(f, float32ToBytes(value))
}

func (s *Structure) GetFloat64(name string) (float64, error) {
	f, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	if err := s.requireType(f, schema.Float64); err != nil {
		return 0, err
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return 0, err
	}
	return float64FromBytes(buf), nil
}

func (s *Structure) SetFloat64(name string, value float64) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.requireType(f, schema.Float64); err != nil {
		return err
	}
	return s.writeFixedPayload(f, float64ToBytes(value))
}

// GetFloat128 reads a FLOAT128 field. Go has no native 128-bit float;
// the low 8 bytes carry an IEEE-754 double (see DESIGN.md).
func (s *Structure) GetFloat128(name string) (float64, error) {
	f, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	if err := s.requireType(f, schema.Float128); err != nil {
		return 0, err
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return 0, err
	}
	return float64FromBytes(buf[:8]), nil
}

func (s *Structure) SetFloat128(name string, value float64) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.requireType(f, schema.Float128); err != nil {
		return err
	}
	buf := make([]byte, 16)
	copy(buf, float64ToBytes(value))
	return s.writeFixedPayload(f, buf)
}

func (s *Structure) readPayload(f *field) ([]byte, error) {
	buf := make([]byte, f.payloadSize())
	if _, err := s.buffer.PRead(buf, int64(f.payloadOffset()), true); err != nil {
		return nil, perrors.Wrap(perrors.OutOfRange, err, "reading field payload")
	}
	return buf, nil
}

func (s *Structure) writeFixedPayload(f *field, data []byte) error {
	if len(data) != f.payloadSize() {
		return perrors.New(perrors.InvalidSize, "fixed-size field write of %d bytes does not match field size %d", len(data), f.payloadSize())
	}
	_, err := s.buffer.PWrite(data, int64(f.payloadOffset()), false)
	return err
}

func isSmallSignedInteger(t schema.Type) bool {
	switch t {
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		return true
	}
	return false
}

func isSmallUnsignedInteger(t schema.Type) bool {
	switch t {
	case schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64,
		schema.Reference, schema.OID, schema.Magic, schema.Version, schema.StructureVersion,
		schema.Time, schema.MSTime, schema.USTime,
		schema.Bits8, schema.Bits16, schema.Bits32, schema.Bits64:
		return true
	}
	return false
}

func isLargeSignedInteger(t schema.Type) bool {
	switch t {
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64, schema.Int128, schema.Int256, schema.Int512:
		return true
	}
	return false
}

func isLargeUnsignedInteger(t schema.Type) bool {
	switch t {
	case schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64, schema.Uint128, schema.Uint256, schema.Uint512,
		schema.Bits8, schema.Bits16, schema.Bits32, schema.Bits64, schema.Bits128, schema.Bits256, schema.Bits512:
		return true
	}
	return false
}

func signExtend(buf []byte) int64 {
	var full [8]byte
	copy(full[:], buf)
	u := binary.LittleEndian.Uint64(full[:])
	shift := uint(64 - 8*len(buf))
	return int64(u<<shift) >> shift
}
