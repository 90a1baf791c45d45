package structure

import (
	"strings"

	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
)

// GetString reads a CHAR or P*STRING field.
func (s *Structure) GetString(name string) (string, error) {
	f, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	switch f.descriptor.Type {
	case schema.Char:
		buf, err := s.readPayload(f)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(buf), "\x00"), nil
	case schema.P8String, schema.P16String, schema.P32String:
		buf, err := s.readPayload(f)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	}
	return "", perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a string accessor target", name, f.descriptor.Type)
}

// SetString writes a CHAR or P*STRING field. For P*STRING this may
// change the field's byte length and triggers offset propagation.
func (s *Structure) SetString(name string, value string) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	switch f.descriptor.Type {
	case schema.Char:
		if len(value) > f.size {
			return perrors.New(perrors.InvalidSize, "string %q is longer than CHAR field %q's declared size %d", value, name, f.size)
		}
		buf := make([]byte, f.size)
		copy(buf, value)
		return s.writeFixedPayload(f, buf)
	case schema.P8String, schema.P16String, schema.P32String:
		return s.applyVariableEdit(f, []byte(value))
	}
	return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a string accessor target", name, f.descriptor.Type)
}

// GetBuffer reads a BUFFER* field.
func (s *Structure) GetBuffer(name string) ([]byte, error) {
	f, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := s.requireBuffer(f); err != nil {
		return nil, err
	}
	return s.readPayload(f)
}

// SetBuffer writes a BUFFER* field, which may change its byte length.
func (s *Structure) SetBuffer(name string, value []byte) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.requireBuffer(f); err != nil {
		return err
	}
	return s.applyVariableEdit(f, value)
}

func (s *Structure) requireBuffer(f *field) error {
	switch f.descriptor.Type {
	case schema.Buffer8, schema.Buffer16, schema.Buffer32:
		return nil
	}
	return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not a BUFFER* accessor target", f.descriptor.Name, f.descriptor.Type)
}

// GetNstime reads an NSTIME field as {seconds, nanoseconds}.
func (s *Structure) GetNstime(name string) (seconds int64, nanoseconds int64, err error) {
	f, err := s.lookup(name)
	if err != nil {
		return 0, 0, err
	}
	if err := s.requireType(f, schema.NSTime); err != nil {
		return 0, 0, err
	}
	buf, err := s.readPayload(f)
	if err != nil {
		return 0, 0, err
	}
	sec := int64(leUint64(buf[0:8]))
	nsec := int64(leUint64(buf[8:16]))
	return sec, nsec, nil
}

// SetNstime writes an NSTIME field.
func (s *Structure) SetNstime(name string, seconds, nanoseconds int64) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.requireType(f, schema.NSTime); err != nil {
		return err
	}
	buf := make([]byte, 16)
	putLeUint64(buf[0:8], uint64(seconds))
	putLeUint64(buf[8:16], uint64(nanoseconds))
	return s.writeFixedPayload(f, buf)
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putLeUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}

