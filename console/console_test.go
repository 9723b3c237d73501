package console

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"glove-midi/engine"
)

func TestParsePanic(t *testing.T) {
	cmd, err := Parse("c")
	assert.NoError(t, err)
	assert.Equal(t, AllNotesOff, cmd.Kind)
}

func TestParseQualities(t *testing.T) {
	cases := map[string]engine.Quality{
		"major": engine.Major,
		"minor": engine.Minor,
		"aug":   engine.Augmented,
		"dim":   engine.Diminished,
		"sus4":  engine.Sus4,
		"7":     engine.Seventh,
		"MAJOR": engine.Major, // case-insensitive
	}
	for in, want := range cases {
		cmd, err := Parse(in)
		assert.NoError(t, err, in)
		assert.Equal(t, SetQuality, cmd.Kind)
		assert.Equal(t, want, cmd.Quality)
	}
}

func TestParseArpDelay(t *testing.T) {
	cmd, err := Parse("arp 150")
	assert.NoError(t, err)
	assert.Equal(t, SetArpDelay, cmd.Kind)
	assert.Equal(t, 150*time.Millisecond, cmd.ArpDelay)
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, line := range []string{"", "  ", "arp", "arp fast", "arp -5", "arp 0", "chord", "maj7"} {
		_, err := Parse(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestRunStreamsCommands(t *testing.T) {
	in := strings.NewReader("c\nbogus\narp 250\nminor\n")
	out := make(chan Command, 8)

	Run(context.Background(), in, out)
	close(out)

	var got []Command
	for cmd := range out {
		got = append(got, cmd)
	}
	assert.Equal(t, []Command{
		{Kind: AllNotesOff},
		{Kind: SetArpDelay, ArpDelay: 250 * time.Millisecond},
		{Kind: SetQuality, Quality: engine.Minor},
	}, got)
}
