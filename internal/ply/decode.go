package ply

import (
	"encoding/binary"
	"math"
)

// Bodies are decoded as little-endian regardless of the declared format. Each type has its
// own decoder so another byte order only touches these functions.

// DecodeFloat32 reinterprets the first 4 bytes of b as an IEEE-754 float
func DecodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// DecodeInt32 reads the first 4 bytes of b as a two's complement integer
func DecodeInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

// DecodeUInt8 reads the first byte of b
func DecodeUInt8(b []byte) uint8 {
	return b[0]
}
