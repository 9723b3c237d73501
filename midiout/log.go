package midiout

import "log/slog"

// LogSink prints events instead of sending them. Backs the monitor command.
type LogSink struct{}

func (LogSink) NoteOn(pitch, velocity uint8) {
	slog.Info("event: note on", "pitch", pitch, "velocity", velocity)
}

func (LogSink) NoteOff(pitch uint8) {
	slog.Info("event: note off", "pitch", pitch)
}

func (LogSink) ControlChange(controller, value uint8) {
	slog.Info("event: control change", "controller", controller, "value", value)
}

func (LogSink) ProgramChange(patch uint8) {
	slog.Info("event: program change", "patch", patch)
}

func (LogSink) Close() error { return nil }
