package sensor

import (
	"encoding/binary"
	"math"
)

const (
	NumChannels = 25

	SOF0 = 0xAB
	SOF1 = 0xCD

	rollOffset     = 2
	pressureOffset = 16
	pressureStride = 2

	// MinPayloadLen is the smallest notification that carries a full reading:
	// 16 bytes of header/roll/reserved plus 25 big-endian uint16 pressures.
	MinPayloadLen = pressureOffset + NumChannels*pressureStride
)

// Snapshot is one reading of every glove channel: 25 pressure magnitudes plus
// the wrist roll angle in degrees. It is a plain value; the engine copies it
// and never mutates the original.
type Snapshot struct {
	Pressures [NumChannels]uint16
	Roll      float32
}

// Decode parses a BLE notification payload:
//
//	[SOF0][SOF1][roll float32 LE][reserved...][p0 u16 BE][p1]...[p24]
//
// Malformed payloads (short, or wrong start-of-frame bytes) return ok=false.
// Callers drop those silently; a bad radio packet is not an error condition.
func Decode(payload []byte) (Snapshot, bool) {
	var s Snapshot
	if len(payload) < MinPayloadLen {
		return s, false
	}
	if payload[0] != SOF0 || payload[1] != SOF1 {
		return s, false
	}
	s.Roll = math.Float32frombits(binary.LittleEndian.Uint32(payload[rollOffset:]))
	for i := 0; i < NumChannels; i++ {
		off := pressureOffset + i*pressureStride
		s.Pressures[i] = binary.BigEndian.Uint16(payload[off:])
	}
	return s, true
}
