package structure

import (
	"strings"

	"github.com/m2osw/prinbee/pkg/perrors"
)

// GetBits reads one named flag out of a BITS* field. flagPath has the
// form "field.flag" (spec.md §4.4 "Bit accessors").
func (s *Structure) GetBits(flagPath string) (uint64, error) {
	f, fl, err := s.resolveFlag(flagPath)
	if err != nil {
		return 0, err
	}
	raw, err := s.GetUinteger(f.descriptor.Name)
	if err != nil {
		return 0, err
	}
	mask := uint64(1)<<uint(fl.Size) - 1
	return (raw >> uint(fl.Pos)) & mask, nil
}

// SetBits writes one named flag out of a BITS* field, failing with
// invalid_number if value doesn't fit the flag's declared width.
func (s *Structure) SetBits(flagPath string, value uint64) error {
	f, fl, err := s.resolveFlag(flagPath)
	if err != nil {
		return err
	}
	mask := uint64(1)<<uint(fl.Size) - 1
	if value > mask {
		return perrors.New(perrors.InvalidNumber, "value %d does not fit in %d-bit flag %q", value, fl.Size, flagPath)
	}
	raw, err := s.GetUinteger(f.descriptor.Name)
	if err != nil {
		return err
	}
	raw &^= mask << uint(fl.Pos)
	raw |= (value & mask) << uint(fl.Pos)
	return s.SetUinteger(f.descriptor.Name, raw)
}

func (s *Structure) resolveFlag(flagPath string) (*field, *struct {
	Pos  int
	Size int
}, error) {
	dot := strings.IndexByte(flagPath, '.')
	if dot < 0 {
		return nil, nil, perrors.New(perrors.InvalidParameter, "flag path %q must be \"field.flag\"", flagPath)
	}
	fieldName, flagName := flagPath[:dot], flagPath[dot+1:]

	f, err := s.lookup(fieldName)
	if err != nil {
		return nil, nil, err
	}
	if !isSmallUnsignedInteger(f.descriptor.Type) || !strings.HasPrefix(f.descriptor.Type.String(), "BITS") {
		return nil, nil, perrors.New(perrors.TypeMismatch, "field %q is not a BITS* field", fieldName)
	}

	for _, flag := range f.descriptor.Flags {
		if flag.Name == flagName {
			return f, &struct {
				Pos  int
				Size int
			}{Pos: flag.Pos, Size: flag.Size}, nil
		}
	}
	return nil, nil, perrors.New(perrors.FieldNotFound, "flag %q not found in field %q", flagName, fieldName)
}
