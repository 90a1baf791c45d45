package structure

import (
	"github.com/m2osw/prinbee/pkg/elog"
	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/vbuffer"
)

// PlaceholderSize returns the byte size of a zero-valued placeholder
// buffer for descriptor: the sum of each field's static size, with
// variable-size fields (P*STRING/BUFFER*/ARRAY*) contributing only their
// empty length prefix. Callers use this to size a fresh buffer before
// New/InitBuffer fill in real defaults.
func PlaceholderSize(descriptor []*schema.Descriptor) int {
	total := 0
	for _, d := range descriptor {
		if d.Type == schema.End {
			break
		}
		switch {
		case d.Type == schema.Char:
			total += d.CharSize
		case d.Type == schema.Structure:
			total += PlaceholderSize(d.SubDescription)
		default:
			total += schema.StaticSizeOf(d.Type) + schema.PrefixBytesOf(d.Type)
		}
	}
	return total
}

// NewFresh allocates a zero-valued buffer sized for descriptor, parses it
// into a root structure, and writes every field's default value
// (spec.md §4.4 "Default values") in one step. This is the entry point
// callers use to create a brand-new file-backed structure, as opposed to
// New which parses an existing buffer.
func NewFresh(descriptor []*schema.Descriptor, log elog.Logger) (*Structure, *vbuffer.Buffer, error) {
	buf := vbuffer.New(log)
	placeholder := make([]byte, PlaceholderSize(descriptor))
	if _, err := buf.PWrite(placeholder, 0, true); err != nil {
		return nil, nil, err
	}
	s, err := New(descriptor, buf, log)
	if err != nil {
		return nil, nil, err
	}
	if err := s.InitBuffer(); err != nil {
		return nil, nil, err
	}
	return s, buf, nil
}
