package structure

import (
	"encoding/binary"
	"math"
)

func float32ToBytes(f float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
	return buf
}

func float32FromBytes(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

func float64ToBytes(f float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	return buf
}

func float64FromBytes(buf []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}
