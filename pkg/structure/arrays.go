package structure

import (
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
)

// GetStructure returns the single child structure of a STRUCTURE field.
func (s *Structure) GetStructure(name string) (*Structure, error) {
	f, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := s.requireType(f, schema.Structure); err != nil {
		return nil, err
	}
	return f.children[0], nil
}

// GetArray returns the child structures of an ARRAY* field, in order.
func (s *Structure) GetArray(name string) ([]*Structure, error) {
	f, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if !isArrayType(f.descriptor.Type) {
		return nil, perrors.New(perrors.TypeMismatch, "field %q (type %s) is not an ARRAY* field", name, f.descriptor.Type)
	}
	return f.children, nil
}

// NewArrayItem appends one element to an ARRAY* field, growing the
// buffer and propagating offsets exactly like any other variable-size
// edit (spec.md §4.4).
func (s *Structure) NewArrayItem(name string) (*Structure, error) {
	f, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if !isArrayType(f.descriptor.Type) {
		return nil, perrors.New(perrors.TypeMismatch, "field %q (type %s) is not an ARRAY* field", name, f.descriptor.Type)
	}

	itemStart := f.offset + f.size
	itemSize := staticSizeOfDescriptorList(f.descriptor.SubDescription)
	if err := s.buffer.PInsert(make([]byte, itemSize), int64(itemStart)); err != nil {
		return nil, err
	}

	count, err := s.readPrefix(f.offset, schema.PrefixBytesOf(f.descriptor.Type))
	if err != nil {
		return nil, err
	}
	if err := s.writePrefix(f.offset, schema.PrefixBytesOf(f.descriptor.Type), count+1); err != nil {
		return nil, err
	}

	f.size += itemSize
	s.shiftOffsets(itemStart-1, itemSize)

	child, err := newChild(f.descriptor.SubDescription, s.buffer, itemStart, s)
	if err != nil {
		return nil, err
	}
	if err := child.InitBuffer(); err != nil {
		return nil, err
	}
	f.children = append(f.children, child)
	return child, nil
}

// DeleteArrayItem removes the element at index from an ARRAY* field.
func (s *Structure) DeleteArrayItem(name string, index int) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !isArrayType(f.descriptor.Type) {
		return perrors.New(perrors.TypeMismatch, "field %q (type %s) is not an ARRAY* field", name, f.descriptor.Type)
	}
	if index < 0 || index >= len(f.children) {
		return perrors.New(perrors.OutOfBounds, "array index %d out of range for field %q (len %d)", index, name, len(f.children))
	}

	child := f.children[index]
	itemSize := child.GetCurrentSize()
	if _, err := s.buffer.PErase(itemSize, int64(child.start)); err != nil {
		return err
	}

	count, err := s.readPrefix(f.offset, schema.PrefixBytesOf(f.descriptor.Type))
	if err != nil {
		return err
	}
	if err := s.writePrefix(f.offset, schema.PrefixBytesOf(f.descriptor.Type), count-1); err != nil {
		return err
	}

	f.size -= itemSize
	s.shiftOffsets(child.start, -itemSize)
	f.children = append(f.children[:index], f.children[index+1:]...)
	return nil
}

func isArrayType(t schema.Type) bool {
	return t == schema.Array8 || t == schema.Array16 || t == schema.Array32
}

func staticSizeOfDescriptorList(descriptors []*schema.Descriptor) int {
	return PlaceholderSize(descriptors)
}
