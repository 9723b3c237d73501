package engine

import "fmt"

// Quality selects the interval structure of every chord the glove triggers.
// It is a session-wide setting changed from the console.
type Quality int

const (
	Major Quality = iota
	Minor
	Augmented
	Diminished
	Sus4
	Seventh
)

var qualityNames = map[Quality]string{
	Major:      "major",
	Minor:      "minor",
	Augmented:  "aug",
	Diminished: "dim",
	Sus4:       "sus4",
	Seventh:    "7",
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// ParseQuality maps the console spellings to a Quality.
func ParseQuality(s string) (Quality, bool) {
	for q, name := range qualityNames {
		if name == s {
			return q, true
		}
	}
	return 0, false
}

type intervals struct {
	third      int
	fifth      int
	seventh    int
	hasSeventh bool
}

var intervalTable = map[Quality]intervals{
	Major:      {third: 4, fifth: 7},
	Minor:      {third: 3, fifth: 7},
	Augmented:  {third: 4, fifth: 8},
	Diminished: {third: 3, fifth: 6},
	Sus4:       {third: 5, fifth: 7},
	Seventh:    {third: 4, fifth: 7, seventh: 10, hasSeventh: true},
}

// Intervals returns the semitone offsets above the root for q. The seventh
// offset is only meaningful when hasSeventh is true. Passing an undefined
// quality is a programming error, not a runtime condition.
func (q Quality) Intervals() (third, fifth, seventh int, hasSeventh bool) {
	iv, ok := intervalTable[q]
	if !ok {
		panic(fmt.Sprintf("engine: undefined chord quality %d", int(q)))
	}
	return iv.third, iv.fifth, iv.seventh, iv.hasSeventh
}

// chordNotes builds the sounding note set for a chord rooted at root: three
// notes for triads, four when the quality carries a seventh. Offsets are added
// without octave clamping; roots near the top of the pitch range can push the
// upper voices past 127 (see DESIGN.md).
func chordNotes(root uint8, q Quality) []uint8 {
	third, fifth, seventh, has := q.Intervals()
	notes := []uint8{root, root + uint8(third), root + uint8(fifth)}
	if has {
		notes = append(notes, root+uint8(seventh))
	}
	return notes
}
