// Package vbuffer implements prinbee's virtual buffer (spec.md §4.2): a
// logically contiguous byte sequence built from a list of physically
// independent segments, each either memory the buffer owns or a window
// into an externally-owned block. It is modeled on the partialIO
// abstraction in direktiv-vorteil/pkg/vdecompiler/io.go, generalized from a
// single-segment reader/writer/seeker to a segment list supporting
// mid-stream insertion and erasure.
package vbuffer

import (
	"container/list"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/m2osw/prinbee/pkg/elog"
	"github.com/m2osw/prinbee/pkg/perrors"
)

// Block is an externally-owned page of memory a structure can read/write
// into without copying, e.g. a cached database block held above this
// package.
type Block interface {
	// Bytes returns the full backing array of the block. Writes through a
	// block-backed segment mutate this slice directly.
	Bytes() []byte
}

type segmentKind int

const (
	ownedSegment segmentKind = iota
	blockBackedSegment
)

// segment is one physically independent chunk of the logical buffer.
type segment struct {
	kind   segmentKind
	owned  []byte
	block  Block
	bStart int
	bSize  int
}

func (s *segment) length() int {
	if s.kind == ownedSegment {
		return len(s.owned)
	}
	return s.bSize
}

func (s *segment) readAt(p []byte, off int) int {
	if s.kind == ownedSegment {
		return copy(p, s.owned[off:])
	}
	data := s.block.Bytes()[s.bStart+off:]
	return copy(p, data[:s.bSize-off])
}

func (s *segment) writeAt(p []byte, off int) int {
	if s.kind == ownedSegment {
		return copy(s.owned[off:], p)
	}
	data := s.block.Bytes()[s.bStart+off:]
	return copy(data[:s.bSize-off], p)
}

// split breaks a segment into [0,at) and [at,length) owned independently
// (block-backed segments split into two block-backed windows sharing the
// same backing block, so no bytes are copied).
func (s *segment) split(at int) (*segment, *segment) {
	if s.kind == ownedSegment {
		left := &segment{kind: ownedSegment, owned: s.owned[:at]}
		right := &segment{kind: ownedSegment, owned: s.owned[at:]}
		return left, right
	}
	left := &segment{kind: blockBackedSegment, block: s.block, bStart: s.bStart, bSize: at}
	right := &segment{kind: blockBackedSegment, block: s.block, bStart: s.bStart + at, bSize: s.bSize - at}
	return left, right
}

// Buffer is the virtual buffer described in spec.md §4.2.
type Buffer struct {
	segments   *list.List // of *segment
	compressed bool       // gate for the zstd-on-save extension, SPEC_FULL.md B.2
	log        elog.Logger
}

// New creates an empty virtual buffer.
func New(log elog.Logger) *Buffer {
	return &Buffer{segments: list.New(), log: elog.Or(log)}
}

// EnableCompression turns on zstd compression of the logical content when
// SaveFile is called, and transparent decompression in LoadFile. This is a
// domain-stack extension (SPEC_FULL.md §B.2); the default (disabled) path
// writes the exact byte-for-byte format spec.md §6 describes.
func (b *Buffer) EnableCompression(on bool) {
	b.compressed = on
}

// Size returns the total logical length of the buffer.
func (b *Buffer) Size() int64 {
	var total int64
	for e := b.segments.Front(); e != nil; e = e.Next() {
		total += int64(e.Value.(*segment).length())
	}
	return total
}

// CountBuffers is a diagnostic reporting the number of physical segments
// currently backing the buffer.
func (b *Buffer) CountBuffers() int {
	return b.segments.Len()
}

// AppendBlock appends a block-backed segment referencing an externally
// owned page, without copying its bytes.
func (b *Buffer) AppendBlock(blk Block, offset, size int) {
	b.segments.PushBack(&segment{kind: blockBackedSegment, block: blk, bStart: offset, bSize: size})
}

// locate walks the segment list to find the element containing the given
// logical offset, returning it along with the offset within that segment.
// offset == Size() is a valid "end of buffer" location with a nil element.
func (b *Buffer) locate(offset int64) (*list.Element, int, error) {
	if offset < 0 {
		return nil, 0, perrors.New(perrors.OutOfRange, "negative offset %d", offset)
	}
	remaining := offset
	for e := b.segments.Front(); e != nil; e = e.Next() {
		l := int64(e.Value.(*segment).length())
		if remaining < l {
			return e, int(remaining), nil
		}
		remaining -= l
	}
	if remaining == 0 {
		return nil, 0, nil
	}
	return nil, 0, perrors.New(perrors.OutOfRange, "offset %d is past the end of the buffer (size %d)", offset, b.Size())
}

// PWrite writes size bytes of data at offset. If grow is true and the
// write extends past the current size, owned segments are appended to
// cover the gap and the new data; otherwise writing past the end fails.
func (b *Buffer) PWrite(data []byte, offset int64, grow bool) (int, error) {
	size := len(data)
	if size == 0 {
		return 0, nil
	}

	total := b.Size()
	if offset+int64(size) > total {
		if !grow {
			return 0, perrors.New(perrors.OutOfRange, "pwrite at %d+%d exceeds buffer size %d and grow is false", offset, size, total)
		}

		var overlap []byte
		switch {
		case offset < total:
			overlap = data[:total-offset]
		case offset > total:
			b.segments.PushBack(&segment{kind: ownedSegment, owned: make([]byte, offset-total)})
		}

		if len(overlap) > 0 {
			if _, err := b.pwriteInPlace(overlap, offset); err != nil {
				return 0, err
			}
		}

		tail := data[len(overlap):]
		if len(tail) > 0 {
			b.segments.PushBack(&segment{kind: ownedSegment, owned: append([]byte(nil), tail...)})
		}
		b.log.Debugf("vbuffer: grew buffer to %d bytes via pwrite at %d", offset+int64(size), offset)
		return size, nil
	}

	return b.pwriteInPlace(data, offset)
}

// pwriteInPlace writes data entirely within the buffer's existing
// segments; callers must ensure offset+len(data) <= Size().
func (b *Buffer) pwriteInPlace(data []byte, offset int64) (int, error) {
	written := 0
	cur := offset
	for written < len(data) {
		e, segOff, err := b.locate(cur)
		if err != nil {
			return written, err
		}
		seg := e.Value.(*segment)
		n := seg.writeAt(data[written:], segOff)
		written += n
		cur += int64(n)
	}
	return written, nil
}

// PRead reads up to len(data) bytes starting at offset, returning the
// number of bytes actually read. If requireFull is true and fewer bytes
// are available, perrors.OutOfRange is raised.
func (b *Buffer) PRead(data []byte, offset int64, requireFull bool) (int, error) {
	size := len(data)
	total := b.Size()
	if offset >= total {
		if requireFull && size > 0 {
			return 0, perrors.New(perrors.OutOfRange, "pread at %d: buffer only has %d bytes", offset, total)
		}
		return 0, nil
	}

	read := 0
	cur := offset
	for read < size {
		if cur >= total {
			break
		}
		e, segOff, err := b.locate(cur)
		if err != nil {
			return read, err
		}
		seg := e.Value.(*segment)
		n := seg.readAt(data[read:], segOff)
		if n == 0 {
			break
		}
		read += n
		cur += int64(n)
	}

	if requireFull && read < size {
		return read, perrors.New(perrors.OutOfRange, "pread at %d wanted %d bytes, only %d available", offset, size, read)
	}
	return read, nil
}

// PInsert shifts content at offset and beyond forward by len(data) bytes,
// then writes data into the resulting hole. Neighbouring segments are
// split rather than reallocated.
func (b *Buffer) PInsert(data []byte, offset int64) error {
	size := len(data)
	if size == 0 {
		return nil
	}

	total := b.Size()
	if offset > total {
		return perrors.New(perrors.OutOfRange, "pinsert at %d exceeds buffer size %d", offset, total)
	}

	newSeg := &segment{kind: ownedSegment, owned: append([]byte(nil), data...)}

	if offset == total {
		b.segments.PushBack(newSeg)
		return nil
	}

	e, segOff, err := b.locate(offset)
	if err != nil {
		return err
	}
	seg := e.Value.(*segment)

	if segOff == 0 {
		b.segments.InsertBefore(newSeg, e)
		return nil
	}

	left, right := seg.split(segOff)
	b.segments.InsertBefore(left, e)
	b.segments.InsertBefore(newSeg, e)
	b.segments.InsertBefore(right, e)
	b.segments.Remove(e)
	return nil
}

// PErase removes size bytes starting at offset. If offset+size exceeds
// the buffer, the excess is clamped and the actual number of bytes
// removed is returned (per spec.md §4.2 and §8's boundary behavior).
func (b *Buffer) PErase(size int, offset int64) (int, error) {
	if size <= 0 {
		return 0, nil
	}
	total := b.Size()
	if offset >= total {
		return 0, nil
	}

	end := offset + int64(size)
	if end > total {
		end = total
	}
	actual := int(end - offset)

	remaining := actual
	cur := offset
	for remaining > 0 {
		e, segOff, err := b.locate(cur)
		if err != nil {
			return actual - remaining, err
		}
		seg := e.Value.(*segment)
		segLen := seg.length()
		avail := segLen - segOff
		take := remaining
		if take > avail {
			take = avail
		}

		switch {
		case segOff == 0 && take == segLen:
			b.segments.Remove(e)
		case segOff == 0:
			_, right := seg.split(take)
			b.segments.InsertBefore(right, e)
			b.segments.Remove(e)
		case segOff+take == segLen:
			left, _ := seg.split(segOff)
			b.segments.InsertBefore(left, e)
			b.segments.Remove(e)
		default:
			left, rightFull := seg.split(segOff)
			_, right := rightFull.split(take)
			b.segments.InsertBefore(left, e)
			b.segments.InsertBefore(right, e)
			b.segments.Remove(e)
		}

		remaining -= take
		// cur stays put: the next iteration re-locates at the same
		// logical offset, which now points just past the removed bytes.
	}

	return actual, nil
}

// LoadFile replaces the buffer's content with the file at path. If the
// file doesn't exist and required is false, the buffer becomes empty
// instead of failing.
func (b *Buffer) LoadFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			b.segments = list.New()
			return nil
		}
		return perrors.Wrap(perrors.IOError, err, "loading %q", path)
	}
	defer f.Close()

	var r io.Reader = f
	if b.compressed {
		zr, derr := zstd.NewReader(f)
		if derr != nil {
			return perrors.Wrap(perrors.IOError, derr, "initializing decompressor for %q", path)
		}
		defer zr.Close()
		r = zr
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return perrors.Wrap(perrors.IOError, err, "reading %q", path)
	}

	b.segments = list.New()
	b.segments.PushBack(&segment{kind: ownedSegment, owned: content})
	b.log.Debugf("vbuffer: loaded %d bytes from %q", len(content), path)
	return nil
}

// SaveFile writes the buffer's full logical content to path atomically
// (write to a temp file in the same directory, then rename).
func (b *Buffer) SaveFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return perrors.Wrap(perrors.IOError, err, "creating %q", tmp)
	}

	var w io.Writer = f
	var zw *zstd.Encoder
	if b.compressed {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			os.Remove(tmp)
			return perrors.Wrap(perrors.IOError, err, "initializing compressor for %q", tmp)
		}
		w = zw
	}

	for e := b.segments.Front(); e != nil; e = e.Next() {
		seg := e.Value.(*segment)
		buf := make([]byte, seg.length())
		seg.readAt(buf, 0)
		if _, werr := w.Write(buf); werr != nil {
			if zw != nil {
				zw.Close()
			}
			f.Close()
			os.Remove(tmp)
			return perrors.Wrap(perrors.IOError, werr, "writing %q", tmp)
		}
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			os.Remove(tmp)
			return perrors.Wrap(perrors.IOError, err, "flushing compressor for %q", tmp)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return perrors.Wrap(perrors.IOError, err, "closing %q", tmp)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return perrors.Wrap(perrors.IOError, err, "renaming %q to %q", tmp, path)
	}

	b.log.Debugf("vbuffer: saved %d bytes to %q", b.Size(), path)
	return nil
}
