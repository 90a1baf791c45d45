package structure

import (
	"strconv"

	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/valueconv"
)

// FieldSummary is a flattened, human-readable view of one parsed field,
// used by the CLI's "structure dump" command (SPEC_FULL.md §B.1 "CLI").
type FieldSummary struct {
	Name  string
	Type  schema.Type
	Text  string
	Depth int
}

// Describe walks the structure's field chain and renders every scalar
// field as text, recursing into STRUCTURE and ARRAY* children with an
// increasing Depth so a caller can indent nested output.
func (s *Structure) Describe() ([]FieldSummary, error) {
	return s.describeAt(0)
}

func (s *Structure) describeAt(depth int) ([]FieldSummary, error) {
	var out []FieldSummary
	for f := s.head; f != nil; f = f.next {
		switch f.descriptor.Type {
		case schema.Structure:
			out = append(out, FieldSummary{Name: f.descriptor.Name, Type: f.descriptor.Type, Depth: depth})
			sub, err := f.children[0].describeAt(depth + 1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)

		case schema.Array8, schema.Array16, schema.Array32:
			out = append(out, FieldSummary{Name: f.descriptor.Name, Type: f.descriptor.Type, Text: strconv.Itoa(len(f.children)), Depth: depth})
			for _, child := range f.children {
				sub, err := child.describeAt(depth + 1)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
			}

		default:
			payload, err := s.readPayload(f)
			if err != nil {
				return nil, err
			}
			text, err := valueconv.ToText(f.descriptor.Type, payload)
			if err != nil {
				return nil, err
			}
			out = append(out, FieldSummary{Name: f.descriptor.Name, Type: f.descriptor.Type, Text: text, Depth: depth})
		}
	}
	return out, nil
}
