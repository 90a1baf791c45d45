package bigint

import (
	"sort"
	"strings"
)

// unitEntry pairs a size-unit name with its multiplicator, following the
// frozen alphabetical table in original_source/prinbee/data/convert.cpp
// (g_size_name_to_multiplicator). Entries whose true value exceeds 64 bits
// carry both a low and high 64-bit word, exactly like the original's
// two-word f_multiplicator.
type unitEntry struct {
	name string
	lo   uint64
	hi   uint64
}

// unitTable must stay alphabetically sorted: lookups use binary search,
// per spec.md §4.1 and the original's debug-mode order assertion.
var unitTable = []unitEntry{
	{"EB", 1000000000000000000, 0},          // 1000^6
	{"EIB", 0x1000000000000000, 0},           // 2^60
	{"EXA", 1000000000000000000, 0},          // 1000^6
	{"EXBI", 0x1000000000000000, 0},          // 2^60
	{"GB", 1000000000, 0},                    // 1000^3
	{"GIB", 0x40000000, 0},                   // 2^30
	{"GIBI", 0x40000000, 0},                  // 2^30
	{"GIGA", 1000000000, 0},                  // 1000^3
	{"KB", 1000, 0},                          // 1000^1
	{"KIB", 0x400, 0},                        // 2^10
	{"KIBI", 0x400, 0},                       // 2^10
	{"KILO", 1000, 0},                        // 1000^1
	{"MB", 1000000, 0},                       // 1000^2
	{"MEBI", 0x100000, 0},                    // 2^20
	{"MEGA", 1000000, 0},                     // 1000^2
	{"MIB", 0x100000, 0},                     // 2^20
	{"PB", 1000000000000000, 0},              // 1000^5
	{"PEBI", 0x0004000000000000, 0},          // 2^50
	{"PETA", 1000000000000000, 0},            // 1000^5
	{"PIB", 0x0004000000000000, 0},           // 2^50
	{"QUETTA", 0x4674EDEA40000000, 0x0000000C9F2C9CD0},  // 1000^10
	{"QUETTAI", 0, 0x0000001000000000},                  // 2^100
	{"RONNAB", 0x9FD0803CE8000000, 0x00000000033B2E3C},  // 1000^9
	{"RONNAIB", 0, 0x0000000004000000},                  // 2^90
	{"TB", 1000000000000, 0},                 // 1000^4
	{"TEBI", 0x0000010000000000, 0},          // 2^40
	{"TERA", 1000000000000, 0},               // 1000^4
	{"TIB", 0x0000010000000000, 0},           // 2^40
	{"YB", 0x1BCECCEDA1000000, 0x000000000000D3C2},      // 1000^8
	{"YIB", 0, 0x0000000000010000},                      // 2^80
	{"YOBI", 0, 0x0000000000010000},                     // 2^80
	{"YOTTA", 0x1BCECCEDA1000000, 0x000000000000D3C2},   // 1000^8
	{"ZB", 0x35C9ADC5DEA00000, 0x0000000000000036},      // 1000^7
	{"ZEBI", 0, 0x0000000000000040},                     // 2^70
	{"ZETTA", 0x35C9ADC5DEA00000, 0x0000000000000036},   // 1000^7
	{"ZIB", 0, 0x0000000000000040},                      // 2^70
}

func init() {
	if !sort.SliceIsSorted(unitTable, func(i, j int) bool {
		return unitTable[i].name < unitTable[j].name
	}) {
		panic("bigint: unit table is not sorted alphabetically")
	}
}

// lookupUnit performs a binary search over unitTable, trimming a trailing
// "BYTE"/"BYTES" suffix first the way convert.cpp does before the search.
func lookupUnit(s string) (Uint512, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return FromUint64(1), true
	}
	switch {
	case strings.HasSuffix(s, "BYTES"):
		s = strings.TrimSpace(s[:len(s)-5])
	case strings.HasSuffix(s, "BYTE"):
		s = strings.TrimSpace(s[:len(s)-4])
	}
	if s == "" {
		return FromUint64(1), true
	}
	i := sort.Search(len(unitTable), func(i int) bool { return unitTable[i].name >= s })
	if i < len(unitTable) && unitTable[i].name == s {
		e := unitTable[i]
		var u Uint512
		u.SetLimb(0, e.lo)
		u.SetLimb(1, e.hi)
		return u, true
	}
	return Uint512{}, false
}
