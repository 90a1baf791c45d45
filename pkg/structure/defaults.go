package structure

import (
	"fmt"

	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/valueconv"
)

// InitBuffer writes every field's default value into a freshly parsed
// structure (spec.md §4.4 "Default values"): each field's default text is
// parsed with the typed converter and written at the field's current
// offset. STRUCTURE_VERSION defaults to the descriptor's min_version when
// no explicit default was given. A default whose byte length exceeds the
// field's current placeholder goes through the same offset-shifting path
// as a runtime variable-size edit.
func (s *Structure) InitBuffer() error {
	for f := s.head; f != nil; f = f.next {
		if err := s.initField(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *Structure) initField(f *field) error {
	d := f.descriptor

	if d.Type == schema.Structure {
		return f.children[0].InitBuffer()
	}
	if isArrayType(d.Type) {
		for _, child := range f.children {
			if err := child.InitBuffer(); err != nil {
				return err
			}
		}
		return nil
	}

	text := d.DefaultValueText
	if text == "" && d.Type == schema.StructureVersion {
		text = fmt.Sprintf("%d.%d", d.MinVersion.Major, d.MinVersion.Minor)
	}
	if text == "" {
		return nil
	}

	width := scalarBitWidth(d.Type)
	if d.Type == schema.Char {
		width = d.CharSize * 8
	}

	payload, err := valueconv.FromText(d.Type, text, width)
	if err != nil {
		return err
	}

	if f.isVariableSize() {
		return s.applyVariableEdit(f, payload)
	}
	return s.writeFixedPayload(f, payload)
}
