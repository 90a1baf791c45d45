package schema

import "encoding/binary"

// Magic is a 4-byte ASCII file/block tag stored on disk as a
// little-endian 32-bit integer (spec.md §6), grounded on
// original_source/prinbee/data/dbtype.h's dbtype_t enum.
type Magic uint32

const (
	MagicUnknown            Magic = 0x3f3f3f3f // "????"
	MagicComplexType        Magic = 0x50545843 // "CXTP"
	MagicContext            Magic = 0x54585443 // "CTXT"
	MagicSchema             Magic = 0x4d484353 // "SCHM"
	MagicTable              Magic = 0x4c425450 // "PTBL"
	MagicPrimaryIndex       Magic = 0x58444950 // "PIDX"
	MagicIndex              Magic = 0x58444e49 // "INDX"
	MagicBloomFilter        Magic = 0x464d4c42 // "BLMF"
	MagicBlockBlob          Magic = 0x424f4c42 // "BLOB"
	MagicBlockData          Magic = 0x41544144 // "DATA"
	MagicBlockEntryIndex    Magic = 0x58444945 // "EIDX"
	MagicBlockFreeBlock     Magic = 0x45455246 // "FREE"
	MagicBlockFreeSpace     Magic = 0x43505346 // "FSPC"
	MagicBlockIndexPointers Magic = 0x50584449 // "IDXP"
	MagicBlockIndirectIndex Magic = 0x52444e49 // "INDR"
	MagicBlockSecondary     Magic = 0x58444953 // "SIDX"
	MagicBlockSchemaList    Magic = 0x4c484353 // "SCHL"
	MagicBlockTopIndex      Magic = 0x58444954 // "TIDX"
	MagicBlockTopIndirect   Magic = 0x444e4954 // "TIND"
)

var magicNames = map[Magic]string{
	MagicUnknown:            "????",
	MagicComplexType:        "CXTP",
	MagicContext:            "CTXT",
	MagicSchema:             "SCHM",
	MagicTable:              "PTBL",
	MagicPrimaryIndex:       "PIDX",
	MagicIndex:              "INDX",
	MagicBloomFilter:        "BLMF",
	MagicBlockBlob:          "BLOB",
	MagicBlockData:          "DATA",
	MagicBlockEntryIndex:    "EIDX",
	MagicBlockFreeBlock:     "FREE",
	MagicBlockFreeSpace:     "FSPC",
	MagicBlockIndexPointers: "IDXP",
	MagicBlockIndirectIndex: "INDR",
	MagicBlockSecondary:     "SIDX",
	MagicBlockSchemaList:    "SCHL",
	MagicBlockTopIndex:      "TIDX",
	MagicBlockTopIndirect:   "TIND",
}

var namesToMagic = func() map[string]Magic {
	m := make(map[string]Magic, len(magicNames))
	for tag, name := range magicNames {
		m[name] = tag
	}
	return m
}()

func (m Magic) String() string {
	if s, ok := magicNames[m]; ok {
		return s
	}
	return "????"
}

// NewMagic builds a Magic from its 4-character ASCII spelling, matching
// dbtype.h's DBTYPE_NAME little-endian packing.
func NewMagic(tag string) Magic {
	if len(tag) != 4 {
		return MagicUnknown
	}
	return Magic(uint32(tag[0]) | uint32(tag[1])<<8 | uint32(tag[2])<<16 | uint32(tag[3])<<24)
}

// ParseMagic looks a magic up by its canonical 4-character name.
func ParseMagic(name string) (Magic, bool) {
	m, ok := namesToMagic[name]
	return m, ok
}

// Bytes renders the magic as it appears on disk: 4 little-endian bytes.
func (m Magic) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(m))
	return b
}
