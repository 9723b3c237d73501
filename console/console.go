// Package console reads runtime commands from an interactive reader and
// turns them into typed commands for the run loop. One command per line:
//
//	c           release everything (panic)
//	major|minor|aug|dim|sus4|7
//	            set the chord quality
//	arp <ms>    set the arpeggio step delay
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"glove-midi/engine"
)

type Kind int

const (
	AllNotesOff Kind = iota
	SetQuality
	SetArpDelay
)

type Command struct {
	Kind     Kind
	Quality  engine.Quality
	ArpDelay time.Duration
}

// Parse interprets one console line.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	switch fields[0] {
	case "c":
		return Command{Kind: AllNotesOff}, nil
	case "arp":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: arp <milliseconds>")
		}
		ms, err := strconv.Atoi(fields[1])
		if err != nil || ms <= 0 {
			return Command{}, fmt.Errorf("arp delay must be a positive integer, got %q", fields[1])
		}
		return Command{
			Kind:     SetArpDelay,
			ArpDelay: time.Duration(ms) * time.Millisecond,
		}, nil
	default:
		if q, ok := engine.ParseQuality(fields[0]); ok {
			return Command{Kind: SetQuality, Quality: q}, nil
		}
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// Run scans lines from in and sends parsed commands to out until in closes
// or ctx is cancelled. Unknown input is logged and ignored. Blocking; run in
// a goroutine.
func Run(ctx context.Context, in io.Reader, out chan<- Command) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := Parse(line)
		if err != nil {
			slog.Warn("console: ignored input", "line", line, "err", err)
			continue
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("console: read error", "err", err)
	}
}
