package structure

import "github.com/m2osw/prinbee/pkg/schema"

// shiftOffsets implements spec.md §4.4 step 3: walk the entire structure
// tree from the root and, for every field or sub-structure whose
// start-offset is strictly greater than cutoff, shift it by delta
// (positive or negative).
func (s *Structure) shiftOffsets(cutoff, delta int) {
	root := s.Root()
	root.walkAndShift(cutoff, delta)
}

func (s *Structure) walkAndShift(cutoff, delta int) {
	if s.parent != nil && s.start > cutoff {
		s.start += delta
	}
	for f := s.head; f != nil; f = f.next {
		if f.offset > cutoff {
			f.offset += delta
		}
		for _, child := range f.children {
			child.walkAndShift(cutoff, delta)
		}
	}
}

// applyVariableEdit performs the full sequence spec.md §4.4 describes
// for a variable-size edit: write the new payload and/or prefix, update
// the field's recorded size, then propagate the offset shift.
func (s *Structure) applyVariableEdit(f *field, newPayload []byte) error {
	oldSize := f.size
	prefixLen := prefixWidthOf(f)
	newSize := prefixLen + len(newPayload)
	delta := newSize - oldSize

	if delta > 0 {
		if err := s.buffer.PInsert(make([]byte, delta), int64(f.offset+oldSize)); err != nil {
			return err
		}
	} else if delta < 0 {
		if _, err := s.buffer.PErase(-delta, int64(f.offset+oldSize+delta)); err != nil {
			return err
		}
	}

	if err := s.writePrefix(f.offset, prefixLen, len(newPayload)); err != nil {
		return err
	}
	if _, err := s.buffer.PWrite(newPayload, int64(f.offset+prefixLen), false); err != nil {
		return err
	}

	f.size = newSize
	s.shiftOffsets(f.offset, delta)

	if err := s.Root().VerifyBufferSize(); err != nil {
		s.log.Warnf("structure: post-edit size check failed: %v", err)
	}
	return nil
}

func prefixWidthOf(f *field) int {
	return schema.PrefixBytesOf(f.descriptor.Type)
}
