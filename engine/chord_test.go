package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalTable(t *testing.T) {
	cases := []struct {
		quality Quality
		third   int
		fifth   int
		seventh int
		has     bool
	}{
		{Major, 4, 7, 0, false},
		{Minor, 3, 7, 0, false},
		{Augmented, 4, 8, 0, false},
		{Diminished, 3, 6, 0, false},
		{Sus4, 5, 7, 0, false},
		{Seventh, 4, 7, 10, true},
	}

	for _, c := range cases {
		t.Run(c.quality.String(), func(t *testing.T) {
			third, fifth, seventh, has := c.quality.Intervals()
			assert := assert.New(t)
			assert.Equal(c.third, third)
			assert.Equal(c.fifth, fifth)
			assert.Equal(c.has, has)
			if has {
				assert.Equal(c.seventh, seventh)
			}
		})
	}
}

func TestIntervalsPanicsOnUndefinedQuality(t *testing.T) {
	assert.Panics(t, func() {
		Quality(99).Intervals()
	})
}

func TestChordNotes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]uint8{60, 64, 67}, chordNotes(60, Major))
	assert.Equal([]uint8{60, 63, 66}, chordNotes(60, Diminished))
	assert.Equal([]uint8{60, 65, 67}, chordNotes(60, Sus4))
	assert.Equal([]uint8{60, 64, 67, 70}, chordNotes(60, Seventh))
}

func TestParseQuality(t *testing.T) {
	cases := map[string]Quality{
		"major": Major,
		"minor": Minor,
		"aug":   Augmented,
		"dim":   Diminished,
		"sus4":  Sus4,
		"7":     Seventh,
	}
	for in, want := range cases {
		q, ok := ParseQuality(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, q)
	}

	_, ok := ParseQuality("maj7")
	assert.False(t, ok)
}

func TestQualityString(t *testing.T) {
	assert.Equal(t, "sus4", Sus4.String())
	assert.Equal(t, "Quality(99)", Quality(99).String())
}
