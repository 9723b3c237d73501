package midiout

import (
	"fmt"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"
)

// SerialSink writes raw MIDI bytes to a serial port. This is the normal
// output path: the synthesizer module hangs off a UART.
type SerialSink struct {
	port serial.Port
	name string
}

// OpenSerial opens the named serial device at the given baud rate.
func OpenSerial(name string, baud int) (*SerialSink, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", name, err)
	}
	slog.Info("serial: port opened", "device", name, "baud", baud)
	return &SerialSink{port: p, name: name}, nil
}

// ListSerialPorts returns the serial device names present on the system.
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

func (s *SerialSink) send(msg midi.Message) {
	if _, err := s.port.Write(msg.Bytes()); err != nil {
		slog.Error("serial: write error", "device", s.name, "err", err)
	}
}

func (s *SerialSink) NoteOn(pitch, velocity uint8) {
	s.send(midi.NoteOn(Channel, pitch, velocity))
}

func (s *SerialSink) NoteOff(pitch uint8) {
	s.send(midi.NoteOff(Channel, pitch))
}

func (s *SerialSink) ControlChange(controller, value uint8) {
	s.send(midi.ControlChange(Channel, controller, value))
}

func (s *SerialSink) ProgramChange(patch uint8) {
	s.send(midi.ProgramChange(Channel, patch))
}

func (s *SerialSink) Close() error {
	slog.Info("serial: closing port", "device", s.name)
	return s.port.Close()
}
