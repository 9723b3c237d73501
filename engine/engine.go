package engine

import (
	"log/slog"
	"time"

	"glove-midi/sensor"
)

// Sink receives the note-level events the engine decides to emit. All events
// are on a single fixed MIDI channel; the implementation owns the transport.
type Sink interface {
	NoteOn(pitch, velocity uint8)
	NoteOff(pitch uint8)
	ControlChange(controller, value uint8)
}

const (
	// NumSlots is the number of logical finger positions.
	NumSlots = 7

	// ccSustain is the MIDI sustain-pedal controller.
	ccSustain = 64

	// sustainDwell is how long a chord must go without a retrigger before
	// sustain is asserted.
	sustainDwell = 300 * time.Millisecond

	// comboChannel is the pressure channel whose threshold crossing flips
	// the combo latch (the thumb pad).
	comboChannel = 5

	velocityFloor   = 70
	velocityCeiling = 127
	pressureCap     = 1000
)

// slotDef binds a logical finger position to its source pressure channel and
// its fixed output pitch.
type slotDef struct {
	channel int
	pitch   uint8
}

// Slots 0-4 are the single-note positions. Slots 5 and 6 are the combo
// positions: they reinterpret the index and middle finger channels (1 and 2)
// as alternate roots while the combo latch is held.
var slotTable = [NumSlots]slotDef{
	{channel: 0, pitch: 60}, // C4
	{channel: 1, pitch: 62}, // D4
	{channel: 2, pitch: 64}, // E4
	{channel: 3, pitch: 65}, // F4
	{channel: 4, pitch: 67}, // G4
	{channel: 1, pitch: 69}, // A4, combo root A
	{channel: 2, pitch: 71}, // B4, combo root B
}

// Params are the tunable thresholds and timings. Zero values are replaced by
// the defaults from DefaultParams.
type Params struct {
	PressureThreshold uint16
	RollThreshold     float64 // degrees; arpeggio gate
	ArpDelay          time.Duration
	Quality           Quality
}

func DefaultParams() Params {
	return Params{
		PressureThreshold: 50,
		RollThreshold:     30,
		ArpDelay:          200 * time.Millisecond,
		Quality:           Major,
	}
}

// Engine is the performance state machine. It owns every piece of mutable
// performance state: the per-slot active flags, the combo latch, the active
// chord, the sustain flag and the arpeggio cursor. It must only ever be
// driven from a single goroutine; snapshot and command producers marshal
// into that goroutine over channels rather than calling in directly.
type Engine struct {
	sink Sink

	pressures [sensor.NumChannels]uint16
	roll      float32
	haveSnap  bool

	slotActive [NumSlots]bool
	combo      bool

	chordActive bool
	chordSlot   int
	chordRoot   uint8
	lastTrigger time.Time
	sounded     [4]bool

	sustain bool
	arp     arpeggiator

	quality     Quality
	pressThresh uint16
	rollThresh  float64

	// Per-pass event buffers. Each pass flushes note-offs before note-ons,
	// with the sustain control change last.
	offs []uint8
	ons  []noteOnEvent
	ccs  []ccEvent
}

type noteOnEvent struct {
	pitch    uint8
	velocity uint8
}

type ccEvent struct {
	controller uint8
	value      uint8
}

func New(sink Sink, p Params) *Engine {
	def := DefaultParams()
	if p.PressureThreshold == 0 {
		p.PressureThreshold = def.PressureThreshold
	}
	if p.PressureThreshold >= pressureCap {
		// The velocity map is anchored at the cap; a threshold at or past it
		// has no pressure range left to play in.
		slog.Warn("engine: pressure threshold clamped below cap",
			"threshold", p.PressureThreshold, "cap", pressureCap)
		p.PressureThreshold = pressureCap - 1
	}
	if p.RollThreshold == 0 {
		p.RollThreshold = def.RollThreshold
	}
	if p.ArpDelay == 0 {
		p.ArpDelay = def.ArpDelay
	}
	return &Engine{
		sink:        sink,
		arp:         newArpeggiator(p.ArpDelay),
		quality:     p.Quality,
		pressThresh: p.PressureThreshold,
		rollThresh:  p.RollThreshold,
	}
}

// OnSnapshot stores the new reading and runs one full evaluation pass:
// combo latch, slot triggers/releases, chord update, arpeggio step, sustain.
// Events reach the sink in a fixed order per pass: note-offs from releases
// and takeovers, then note-ons, then the sustain control change.
func (e *Engine) OnSnapshot(s sensor.Snapshot, now time.Time) {
	e.pressures = s.Pressures
	e.roll = s.Roll
	e.haveSnap = true

	e.updateLatch()
	if e.combo {
		e.evalCombo(now)
	} else {
		e.evalSingle(now)
	}
	e.evalArp(now)
	e.evalSustain(now)
	e.flush()
}

// OnTick re-runs the time-driven stages (arpeggio advance, sustain dwell)
// against the last stored snapshot. Notifications can pause; the last reading
// stands in for current finger state until superseded.
func (e *Engine) OnTick(now time.Time) {
	if !e.haveSnap {
		return
	}
	e.evalArp(now)
	e.evalSustain(now)
	e.flush()
}

// AllNotesOff releases everything: one note-off per active slot, the active
// chord's sounded arpeggio notes, a sustain-off if asserted. All flags clear
// and the arpeggio cursor rewinds, so a second consecutive call emits
// nothing. This is the single defense against stuck notes and must run on
// transport disconnect.
func (e *Engine) AllNotesOff() {
	for i := range e.slotActive {
		if e.slotActive[i] {
			e.slotActive[i] = false
			e.noteOff(slotTable[i].pitch)
		}
	}
	if e.chordActive {
		e.releaseChordNotes(e.chordSlot)
		e.chordActive = false
	}
	if e.sustain {
		e.sustain = false
		e.control(ccSustain, 0)
	}
	e.combo = false
	e.arp.Reset()
	e.flush()
}

// SetQuality changes the session chord quality. The note set of the active
// chord is recomputed from the new quality on its next use; notes already
// sounding are left alone until the next trigger.
func (e *Engine) SetQuality(q Quality) {
	e.quality = q
	slog.Info("engine: chord quality set", "quality", q.String())
}

// SetArpDelay changes the arpeggio inter-step delay.
func (e *Engine) SetArpDelay(d time.Duration) {
	e.arp.SetDelay(d)
	slog.Info("engine: arp delay set", "delay_ms", d.Milliseconds())
}

// Quality returns the session chord quality.
func (e *Engine) Quality() Quality { return e.quality }

// -------------------- latch --------------------

func (e *Engine) updateLatch() {
	was := e.combo
	e.combo = e.pressures[comboChannel] > e.pressThresh
	if was && !e.combo {
		// Falling edge: combo slots release regardless of their pressure.
		e.forceRelease(5)
		e.forceRelease(6)
	}
}

func (e *Engine) forceRelease(slot int) {
	if e.slotActive[slot] {
		e.slotActive[slot] = false
		e.noteOff(slotTable[slot].pitch)
	}
	if e.chordActive && e.chordRoot == slotTable[slot].pitch {
		e.stopChord()
	}
}

// -------------------- slot evaluation --------------------

func (e *Engine) evalSingle(now time.Time) {
	for i := 0; i < 5; i++ {
		p := e.pressures[slotTable[i].channel]
		if p > e.pressThresh {
			e.trigger(i, p, now)
		} else if e.slotActive[i] {
			e.release(i)
		}
	}
}

// evalCombo is first-match-wins: when both combo channels exceed the
// threshold only root A's branch runs. Triggering a combo slot suppresses
// the single-note slot that shares its channel.
func (e *Engine) evalCombo(now time.Time) {
	pA := e.pressures[slotTable[5].channel]
	pB := e.pressures[slotTable[6].channel]
	switch {
	case pA > e.pressThresh:
		e.suppress(1)
		e.trigger(5, pA, now)
	case pB > e.pressThresh:
		e.suppress(2)
		e.trigger(6, pB, now)
	default:
		if e.slotActive[5] {
			e.release(5)
		}
		if e.slotActive[6] {
			e.release(6)
		}
	}
}

func (e *Engine) suppress(slot int) {
	if e.slotActive[slot] {
		e.slotActive[slot] = false
		e.noteOff(slotTable[slot].pitch)
	}
}

func (e *Engine) trigger(slot int, pressure uint16, now time.Time) {
	root := slotTable[slot].pitch
	if !e.chordActive || e.chordRoot != root {
		if e.chordActive {
			e.stopChord()
		}
		e.chordActive = true
		e.chordSlot = slot
		e.chordRoot = root
		e.lastTrigger = now
		e.sounded = [4]bool{}
	}
	if !e.slotActive[slot] {
		e.slotActive[slot] = true
		e.noteOn(root, velocity(pressure, e.pressThresh))
	}
}

func (e *Engine) release(slot int) {
	e.slotActive[slot] = false
	e.noteOff(slotTable[slot].pitch)
	if e.chordActive && e.chordRoot == slotTable[slot].pitch {
		e.stopChord()
	}
}

// -------------------- chord --------------------

// stopChord turns off the sounded arpeggio notes and deactivates the chord.
// The note set is resolved from whichever slot currently reads nonzero
// pressure: combo slots first while the latch is held, otherwise the last
// matching single-note slot by ascending scan. This last-nonzero-wins policy
// is deliberate; downstream behavior depends on it (see DESIGN.md).
func (e *Engine) stopChord() {
	e.releaseChordNotes(e.stopResolveSlot())
	e.chordActive = false
	e.arp.Reset()
}

func (e *Engine) stopResolveSlot() int {
	if e.combo {
		if e.pressures[slotTable[5].channel] > 0 {
			return 5
		}
		if e.pressures[slotTable[6].channel] > 0 {
			return 6
		}
	}
	pick := e.chordSlot
	for i := 0; i < 5; i++ {
		if e.pressures[slotTable[i].channel] > 0 {
			pick = i
		}
	}
	return pick
}

func (e *Engine) releaseChordNotes(slot int) {
	notes := chordNotes(slotTable[slot].pitch, e.quality)
	for i, n := range notes {
		if i < len(e.sounded) && e.sounded[i] {
			e.sounded[i] = false
			e.noteOff(n)
		}
	}
}

// -------------------- arpeggio --------------------

func (e *Engine) evalArp(now time.Time) {
	gate := e.chordActive && abs32(e.roll) > e.rollThresh
	if !gate {
		e.arp.Reset()
		return
	}
	seq := chordNotes(e.chordRoot, e.quality)
	step, ok := e.arp.Advance(seq, now)
	if !ok {
		return
	}
	if step.HasOff {
		e.noteOff(step.Off)
	}
	e.noteOn(step.On, arpVelocity)
	if step.Index < len(e.sounded) {
		e.sounded[step.Index] = true
	}
}

// -------------------- sustain --------------------

func (e *Engine) evalSustain(now time.Time) {
	if !e.chordActive {
		if e.sustain {
			e.sustain = false
			e.control(ccSustain, 0)
		}
		return
	}
	if now.Sub(e.lastTrigger) > sustainDwell {
		if !e.sustain {
			e.sustain = true
			e.control(ccSustain, 127)
		}
	} else if e.sustain {
		// A retrigger pulled the dwell clock back under the threshold.
		e.sustain = false
		e.control(ccSustain, 0)
	}
}

// -------------------- event buffer --------------------

func (e *Engine) noteOff(pitch uint8) {
	e.offs = append(e.offs, pitch)
}

func (e *Engine) noteOn(pitch, velocity uint8) {
	e.ons = append(e.ons, noteOnEvent{pitch: pitch, velocity: velocity})
}

func (e *Engine) control(controller, value uint8) {
	e.ccs = append(e.ccs, ccEvent{controller: controller, value: value})
}

// flush drains the pass's buffered events to the sink: offs, ons, controls.
func (e *Engine) flush() {
	for _, p := range e.offs {
		e.sink.NoteOff(p)
	}
	for _, n := range e.ons {
		e.sink.NoteOn(n.pitch, n.velocity)
	}
	for _, cc := range e.ccs {
		e.sink.ControlChange(cc.controller, cc.value)
	}
	e.offs = e.offs[:0]
	e.ons = e.ons[:0]
	e.ccs = e.ccs[:0]
}

// -------------------- velocity --------------------

// velocity maps pressure linearly from [threshold, 1000] onto [70, 127],
// clamping the input at 1000. Callers only pass pressures above threshold.
func velocity(pressure, threshold uint16) uint8 {
	p := pressure
	if p > pressureCap {
		p = pressureCap
	}
	span := int(pressureCap) - int(threshold)
	v := velocityFloor + int(p-threshold)*(velocityCeiling-velocityFloor)/span
	if v > velocityCeiling {
		v = velocityCeiling
	}
	return uint8(v)
}

func abs32(f float32) float64 {
	if f < 0 {
		return float64(-f)
	}
	return float64(f)
}
