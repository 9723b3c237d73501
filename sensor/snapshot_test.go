package sensor

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildPayload(roll float32, pressures map[int]uint16) []byte {
	buf := make([]byte, MinPayloadLen)
	buf[0] = SOF0
	buf[1] = SOF1
	binary.LittleEndian.PutUint32(buf[rollOffset:], math.Float32bits(roll))
	for ch, p := range pressures {
		binary.BigEndian.PutUint16(buf[pressureOffset+ch*pressureStride:], p)
	}
	return buf
}

func TestDecodeRoundTrip(t *testing.T) {
	payload := buildPayload(42.5, map[int]uint16{0: 200, 5: 80, 24: 1000})

	s, ok := Decode(payload)

	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(float32(42.5), s.Roll)
	assert.Equal(uint16(200), s.Pressures[0])
	assert.Equal(uint16(80), s.Pressures[5])
	assert.Equal(uint16(1000), s.Pressures[24])
	assert.Equal(uint16(0), s.Pressures[12])
}

func TestDecodeNegativeRoll(t *testing.T) {
	payload := buildPayload(-61.25, nil)

	s, ok := Decode(payload)

	assert.True(t, ok)
	assert.Equal(t, float32(-61.25), s.Roll)
}

func TestDecodeRejectsShortPayload(t *testing.T) {
	payload := buildPayload(10, map[int]uint16{0: 100})

	_, ok := Decode(payload[:MinPayloadLen-1])
	assert.False(t, ok)

	_, ok = Decode(nil)
	assert.False(t, ok)
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	payload := buildPayload(10, nil)
	payload[0] = 0xAA

	_, ok := Decode(payload)
	assert.False(t, ok)

	payload[0] = SOF0
	payload[1] = 0x55
	_, ok = Decode(payload)
	assert.False(t, ok)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	payload := buildPayload(5, map[int]uint16{3: 321})
	payload = append(payload, 0xDE, 0xAD)

	s, ok := Decode(payload)
	assert.True(t, ok)
	assert.Equal(t, uint16(321), s.Pressures[3])
}
