// Package structure implements prinbee's structure codec (spec.md §4.4):
// parsing a static field descriptor array against a virtual buffer into
// an ordered, named field map, typed accessors over that map, and the
// offset-propagation discipline that keeps every field's byte offset
// correct across variable-size edits.
//
// Grounded on original_source/prinbee/data/structure.cpp's parsing walk
// and field-access switch, and on direktiv-vorteil/pkg/ext4's pattern of
// a fixed descriptor table driving binary encode/decode.
package structure

import (
	"encoding/binary"

	"github.com/m2osw/prinbee/pkg/elog"
	"github.com/m2osw/prinbee/pkg/perrors"
	"github.com/m2osw/prinbee/pkg/schema"
	"github.com/m2osw/prinbee/pkg/vbuffer"
)

// Structure is a descriptor pointer, the virtual buffer it reads/writes,
// a start offset inside that buffer, the parsed field map, and a weak
// back-reference to its parent (spec.md §3 "Structure").
type Structure struct {
	descriptor []*schema.Descriptor
	buffer     *vbuffer.Buffer
	start      int
	parent     *Structure
	log        elog.Logger

	byName map[string]*field
	head   *field
	tail   *field
}

// New creates a root structure. A root descriptor's first two entries
// must be MAGIC then STRUCTURE_VERSION (spec.md §4.4 "Construction
// contract"); child structures use newChild instead and skip this check.
func New(descriptor []*schema.Descriptor, buf *vbuffer.Buffer, log elog.Logger) (*Structure, error) {
	if len(descriptor) < 2 || descriptor[0].Type != schema.Magic || descriptor[1].Type != schema.StructureVersion {
		return nil, perrors.New(perrors.InvalidParameter, "root structure descriptor must start with MAGIC then STRUCTURE_VERSION")
	}
	s := &Structure{descriptor: descriptor, buffer: buf, log: elog.Or(log)}
	if err := s.parse(); err != nil {
		return nil, err
	}
	return s, nil
}

func newChild(descriptor []*schema.Descriptor, buf *vbuffer.Buffer, start int, parent *Structure) (*Structure, error) {
	s := &Structure{descriptor: descriptor, buffer: buf, start: start, parent: parent, log: parent.log}
	if err := s.parse(); err != nil {
		return nil, err
	}
	return s, nil
}

// Buffer returns the virtual buffer backing this structure. Sub-structures
// share their parent's buffer (spec.md §5 "Shared-resource policy").
func (s *Structure) Buffer() *vbuffer.Buffer {
	return s.buffer
}

// Root walks up the parent chain and returns the top-level structure.
func (s *Structure) Root() *Structure {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// parse implements spec.md §4.4's "Parsing algorithm": a linear walk of
// the descriptor building the next/previous chain and the name index.
func (s *Structure) parse() error {
	s.byName = make(map[string]*field)
	cursor := s.start

	for _, d := range s.descriptor {
		if d.Type == schema.End {
			break
		}

		name := d.Name
		if d.Type == schema.Renamed {
			name = d.RenamedTo
		}

		f := &field{descriptor: d, offset: cursor}

		switch {
		case d.Type == schema.Renamed:
			// RENAMED carries no data of its own; it aliases an
			// already-parsed field under its old name (spec.md §4.4
			// step 6). The aliased field must already exist.
			target, ok := s.byName[d.RenamedTo]
			if !ok {
				return perrors.New(perrors.FieldNotFound, "RENAMED field %q points at unknown field %q", d.Name, d.RenamedTo)
			}
			s.byName[d.Name] = target
			continue

		case d.Type == schema.Char:
			f.size = d.CharSize
			cursor += f.size

		case d.Type == schema.Structure:
			child, err := newChild(subDescriptorOf(d), s.buffer, cursor, s)
			if err != nil {
				return err
			}
			f.children = []*Structure{child}
			f.size = child.GetCurrentSize()
			cursor += f.size

		case d.Type == schema.Array8 || d.Type == schema.Array16 || d.Type == schema.Array32:
			prefixLen := schema.PrefixBytesOf(d.Type)
			count, err := s.readPrefix(cursor, prefixLen)
			if err != nil {
				return err
			}
			itemCursor := cursor + prefixLen
			children := make([]*Structure, 0, count)
			for i := 0; i < count; i++ {
				child, err := newChild(subDescriptorOf(d), s.buffer, itemCursor, s)
				if err != nil {
					return err
				}
				itemCursor += child.GetCurrentSize()
				children = append(children, child)
			}
			f.children = children
			f.size = itemCursor - cursor
			f.flags |= flagVariableSize
			cursor += f.size

		case schema.IsVariableSize(d.Type):
			prefixLen := schema.PrefixBytesOf(d.Type)
			payloadLen, err := s.readPrefix(cursor, prefixLen)
			if err != nil {
				return err
			}
			f.size = prefixLen + payloadLen
			f.flags |= flagVariableSize
			cursor += f.size

		default:
			f.size = schema.StaticSizeOf(d.Type)
			cursor += f.size
		}

		s.linkField(f)
		s.byName[name] = f
	}

	return nil
}

func (s *Structure) linkField(f *field) {
	if s.head == nil {
		s.head = f
		s.tail = f
		return
	}
	f.prev = s.tail
	s.tail.next = f
	s.tail = f
}

func (s *Structure) readPrefix(offset, width int) (int, error) {
	if width == 0 {
		return 0, nil
	}
	buf := make([]byte, width)
	if _, err := s.buffer.PRead(buf, int64(offset), true); err != nil {
		return 0, perrors.Wrap(perrors.CorruptedData, err, "reading length prefix at offset %d", offset)
	}
	var v uint32
	switch width {
	case 1:
		v = uint32(buf[0])
	case 2:
		v = uint32(binary.LittleEndian.Uint16(buf))
	case 4:
		v = binary.LittleEndian.Uint32(buf)
	}
	return int(v), nil
}

func (s *Structure) writePrefix(offset, width, value int) error {
	if width == 0 {
		return nil
	}
	buf := make([]byte, width)
	switch width {
	case 1:
		buf[0] = byte(value)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(value))
	}
	_, err := s.buffer.PWrite(buf, int64(offset), true)
	return err
}

// subDescriptorOf returns the sub-descriptor for STRUCTURE/ARRAY*/RENAMED
// fields, terminated implicitly (the slice itself is the full list).
func subDescriptorOf(d *schema.Descriptor) []*schema.Descriptor {
	return d.SubDescription
}

// lookup resolves a field by name, logging a deprecation warning when
// name is a RENAMED alias rather than the field's current name
// (spec.md §4.4 step 6).
func (s *Structure) lookup(name string) (*field, error) {
	f, ok := s.byName[name]
	if ok && f.descriptor.Name != name {
		s.log.Warnf("structure: field %q was accessed by its deprecated name %q", f.descriptor.Name, name)
	}
	if !ok {
		return nil, perrors.New(perrors.FieldNotFound, "field %q not found", name)
	}
	return f, nil
}

func (s *Structure) requireType(f *field, want schema.Type) error {
	if f.descriptor.Type != want {
		return perrors.New(perrors.TypeMismatch, "field %q has type %s, expected %s", f.descriptor.Name, f.descriptor.Type, want)
	}
	return nil
}

// GetStaticSize returns 0 if any field in the tree is variable-size,
// else the sum of static sizes (spec.md §4.4 "Static vs current size").
func (s *Structure) GetStaticSize() int {
	total := 0
	for f := s.head; f != nil; f = f.next {
		if f.isVariableSize() {
			return 0
		}
		if f.descriptor.Type == schema.Structure && len(f.children) == 1 {
			sub := f.children[0].GetStaticSize()
			if sub == 0 {
				return 0
			}
			total += sub
			continue
		}
		total += f.size
	}
	return total
}

// GetCurrentSize walks the tree and returns the exact current byte
// count using runtime sizes.
func (s *Structure) GetCurrentSize() int {
	total := 0
	for f := s.head; f != nil; f = f.next {
		if f.descriptor.Type == schema.Structure && len(f.children) == 1 {
			total += f.children[0].GetCurrentSize()
			continue
		}
		total += f.size
	}
	return total
}

// VerifyBufferSize asserts spec.md §3 invariant 1: the sum of field
// sizes in a non-child structure equals the buffer size. Intended for
// debug builds; callers may ignore the error in production.
func (s *Structure) VerifyBufferSize() error {
	if s.parent != nil {
		return nil
	}
	expect := int64(s.start + s.GetCurrentSize())
	if expect != s.buffer.Size() {
		return perrors.New(perrors.CorruptedData, "structure size %d does not match buffer size %d", expect, s.buffer.Size())
	}
	return nil
}
