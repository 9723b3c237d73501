package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var arpSeq = []uint8{60, 64, 67}

func TestArpeggiatorCycles(t *testing.T) {
	a := newArpeggiator(200 * time.Millisecond)
	assert := assert.New(t)

	step, ok := a.Advance(arpSeq, at(0))
	assert.True(ok)
	assert.Equal(uint8(60), step.On)
	assert.Equal(0, step.Index)
	assert.False(step.HasOff)

	step, ok = a.Advance(arpSeq, at(201))
	assert.True(ok)
	assert.Equal(uint8(64), step.On)
	assert.True(step.HasOff)
	assert.Equal(uint8(60), step.Off)

	a.Advance(arpSeq, at(402))
	step, ok = a.Advance(arpSeq, at(603)) // wraps
	assert.True(ok)
	assert.Equal(0, step.Index)
	assert.Equal(uint8(60), step.On)
	assert.Equal(uint8(67), step.Off)
}

func TestArpeggiatorGatesOnDelay(t *testing.T) {
	a := newArpeggiator(200 * time.Millisecond)
	a.Advance(arpSeq, at(0))

	_, ok := a.Advance(arpSeq, at(150))
	assert.False(t, ok)

	_, ok = a.Advance(arpSeq, at(200)) // strictly greater, not equal
	assert.False(t, ok)

	_, ok = a.Advance(arpSeq, at(201))
	assert.True(t, ok)
}

func TestArpeggiatorReset(t *testing.T) {
	a := newArpeggiator(200 * time.Millisecond)
	a.Advance(arpSeq, at(0))
	a.Advance(arpSeq, at(201))

	a.Reset()

	step, ok := a.Advance(arpSeq, at(402))
	assert.True(t, ok)
	assert.Equal(t, 0, step.Index)
	assert.False(t, step.HasOff, "previous-step memory must clear on reset")
}

func TestArpeggiatorSequenceShrink(t *testing.T) {
	a := newArpeggiator(200 * time.Millisecond)
	four := []uint8{60, 64, 67, 70}
	a.Advance(four, at(0))
	a.Advance(four, at(201))
	a.Advance(four, at(402)) // cursor now sits at index 3

	// Quality change mid-flight shortens the sequence; cursor clamps.
	step, ok := a.Advance(arpSeq, at(603))
	assert.True(t, ok)
	assert.Equal(t, 0, step.Index)
}

func TestArpeggiatorEmptySequence(t *testing.T) {
	a := newArpeggiator(200 * time.Millisecond)
	_, ok := a.Advance(nil, at(0))
	assert.False(t, ok)
}

func TestArpeggiatorSetDelay(t *testing.T) {
	a := newArpeggiator(200 * time.Millisecond)
	a.Advance(arpSeq, at(0))
	a.SetDelay(50 * time.Millisecond)

	_, ok := a.Advance(arpSeq, at(40))
	assert.False(t, ok)
	_, ok = a.Advance(arpSeq, at(51))
	assert.True(t, ok)
}
