// Package midiout serializes note events to the receiving synthesizer,
// either raw MIDI bytes over a serial port or a system MIDI out port.
package midiout

import (
	"strings"
	"time"
)

// Channel is the fixed wire channel for every event (MIDI channel 1).
const Channel = 0

// Sink accepts the events the engine emits plus the startup-only
// program change. Implementations own the transport.
type Sink interface {
	NoteOn(pitch, velocity uint8)
	NoteOff(pitch uint8)
	ControlChange(controller, value uint8)
	ProgramChange(patch uint8)
	Close() error
}

// Startup selects the instrument and plays a short audible self-test pulse
// so the wearer can confirm the output path before the glove connects.
func Startup(s Sink, patch uint8) {
	s.ProgramChange(patch)
	s.NoteOn(60, 100)
	time.Sleep(150 * time.Millisecond)
	s.NoteOff(60)
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
