package engine

import "time"

// arpVelocity is the fixed velocity for arpeggiated notes.
const arpVelocity = 100

// arpeggiator walks a fixed note sequence cyclically, one step each time the
// configured delay has elapsed. It remembers the previous step's pitch so the
// caller can close it before opening the next one.
type arpeggiator struct {
	delay   time.Duration
	index   int
	last    time.Time
	started bool
	prev    uint8
}

// arpStep describes one emitted step: the pitch to turn on, the sequence
// index it came from, and (after the first step) the previous pitch to turn
// off first.
type arpStep struct {
	On     uint8
	Index  int
	Off    uint8
	HasOff bool
}

func newArpeggiator(delay time.Duration) arpeggiator {
	return arpeggiator{delay: delay}
}

// Advance returns the next step if the delay has elapsed since the last one.
// The sequence may change length between calls; the cursor wraps against the
// length passed in.
func (a *arpeggiator) Advance(seq []uint8, now time.Time) (arpStep, bool) {
	if len(seq) == 0 {
		return arpStep{}, false
	}
	if now.Sub(a.last) <= a.delay {
		return arpStep{}, false
	}
	if a.index >= len(seq) {
		a.index = 0
	}
	step := arpStep{On: seq[a.index], Index: a.index}
	if a.started {
		step.Off = a.prev
		step.HasOff = true
	}
	a.prev = step.On
	a.started = true
	a.index = (a.index + 1) % len(seq)
	a.last = now
	return step, true
}

// Reset rewinds the cursor to step 0 and forgets the previous step, so the
// next Advance starts the sequence from the top with no note-off.
func (a *arpeggiator) Reset() {
	a.index = 0
	a.started = false
}

// SetDelay changes the inter-step delay; it takes effect on the next step.
func (a *arpeggiator) SetDelay(d time.Duration) {
	a.delay = d
}
