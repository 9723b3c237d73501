package midiout

import (
	"fmt"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Ports matching any of these patterns are never auto-selected
// (virtual/system ports).
var excludedPortPatterns = []string{"Midi Through", "Through Port", "Dummy"}

// PortSink sends events to a system MIDI out port via rtmidi. Useful when no
// serial synthesizer is attached and a soft synth should receive the glove.
type PortSink struct {
	drv  *rtmididrv.Driver
	out  drivers.Out
	name string
}

// OpenPort opens the first MIDI out port whose name contains pattern
// (case-insensitive). An empty pattern picks the first non-excluded port.
func OpenPort(pattern string) (*PortSink, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list MIDI outs: %w", err)
	}
	var found drivers.Out
	for _, out := range outs {
		name := out.String()
		if excludedPort(name) {
			slog.Debug("midi: out port excluded", "port", name)
			continue
		}
		if pattern == "" || containsCI(name, pattern) {
			found = out
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("no MIDI out port matching %q", pattern)
	}
	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open MIDI out %q: %w", found.String(), err)
	}
	slog.Info("midi: out port opened", "port", found.String())
	return &PortSink{drv: drv, out: found, name: found.String()}, nil
}

// ListMIDIPorts returns the names of all system MIDI out ports.
func ListMIDIPorts() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	defer drv.Close()
	outs, err := drv.Outs()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names, nil
}

func excludedPort(name string) bool {
	for _, pat := range excludedPortPatterns {
		if containsCI(name, pat) {
			return true
		}
	}
	return false
}

func (s *PortSink) send(msg midi.Message) {
	if err := s.out.Send(msg.Bytes()); err != nil {
		slog.Error("midi: send error", "port", s.name, "err", err)
	}
}

func (s *PortSink) NoteOn(pitch, velocity uint8) {
	s.send(midi.NoteOn(Channel, pitch, velocity))
}

func (s *PortSink) NoteOff(pitch uint8) {
	s.send(midi.NoteOff(Channel, pitch))
}

func (s *PortSink) ControlChange(controller, value uint8) {
	s.send(midi.ControlChange(Channel, controller, value))
}

func (s *PortSink) ProgramChange(patch uint8) {
	s.send(midi.ProgramChange(Channel, patch))
}

func (s *PortSink) Close() error {
	slog.Info("midi: closing out port", "port", s.name)
	if err := s.out.Close(); err != nil {
		return err
	}
	return s.drv.Close()
}
