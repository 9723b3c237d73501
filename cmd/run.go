package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"glove-midi/ble"
	"glove-midi/config"
	"glove-midi/console"
	"glove-midi/engine"
	"glove-midi/midiout"
)

const tickInterval = 10 * time.Millisecond

var (
	flagDevice    string
	flagSerial    string
	flagBaud      int
	flagMIDIPort  string
	flagPatch     int
	flagArpMS     int
	flagThreshold int
	flagRollThr   float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the glove-to-MIDI bridge",
	Long: `Connects to the glove over BLE, opens the output transport, and runs
the performance loop. Console commands while running:

  c            release all notes (panic)
  major|minor|aug|dim|sus4|7
               set the chord quality
  arp <ms>     set the arpeggio step delay`,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&flagDevice, "device", "", "BLE advertised name of the glove")
	runCmd.Flags().StringVar(&flagSerial, "serial", "", "serial port device for the synthesizer")
	runCmd.Flags().IntVar(&flagBaud, "baud", 0, "serial baud rate")
	runCmd.Flags().StringVar(&flagMIDIPort, "midi-port", "", "send to a system MIDI out port matching this pattern instead of serial")
	runCmd.Flags().IntVar(&flagPatch, "patch", -1, "startup program change patch")
	runCmd.Flags().IntVar(&flagArpMS, "arp", 0, "arpeggio step delay in milliseconds")
	runCmd.Flags().IntVar(&flagThreshold, "threshold", 0, "pressure trigger threshold")
	runCmd.Flags().Float64Var(&flagRollThr, "roll-threshold", 0, "roll angle (degrees) that gates the arpeggio")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("device") {
		cfg.DeviceName = flagDevice
	}
	if cmd.Flags().Changed("serial") {
		cfg.SerialPort = flagSerial
	}
	if cmd.Flags().Changed("baud") {
		cfg.BaudRate = flagBaud
	}
	if cmd.Flags().Changed("midi-port") {
		cfg.MIDIPortPattern = flagMIDIPort
	}
	if cmd.Flags().Changed("patch") {
		cfg.Patch = flagPatch
	}
	if cmd.Flags().Changed("arp") {
		cfg.ArpDelayMS = flagArpMS
	}
	if cmd.Flags().Changed("threshold") {
		cfg.PressureThreshold = flagThreshold
	}
	if cmd.Flags().Changed("roll-threshold") {
		cfg.RollThreshold = flagRollThr
	}
	return cfg, nil
}

func openSink(cfg *config.Config) (midiout.Sink, error) {
	if cfg.MIDIPortPattern != "" {
		return midiout.OpenPort(cfg.MIDIPortPattern)
	}
	return midiout.OpenSerial(cfg.SerialPort, cfg.BaudRate)
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	quality, ok := engine.ParseQuality(cfg.ChordQuality)
	if !ok {
		return fmt.Errorf("config: unknown chord quality %q", cfg.ChordQuality)
	}

	sink, err := openSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	logger.Info("glove-midi starting",
		"device", cfg.DeviceName,
		"threshold", cfg.PressureThreshold,
		"roll_threshold", cfg.RollThreshold,
		"arp_delay_ms", cfg.ArpDelayMS,
		"quality", quality.String(),
	)

	midiout.Startup(sink, uint8(cfg.Patch))

	eng := engine.New(sink, engine.Params{
		PressureThreshold: uint16(cfg.PressureThreshold),
		RollThreshold:     cfg.RollThreshold,
		ArpDelay:          time.Duration(cfg.ArpDelayMS) * time.Millisecond,
		Quality:           quality,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recv := ble.NewReceiver(cfg.DeviceName)
	go func() {
		if err := recv.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("ble receiver stopped", "err", err)
		}
	}()

	cmds := make(chan console.Command, 4)
	go console.Run(ctx, os.Stdin, cmds)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	// Single-owner loop: only this goroutine touches the engine.
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down – releasing all notes")
			eng.AllNotesOff()
			return nil
		case snap := <-recv.Snapshots():
			eng.OnSnapshot(snap, time.Now())
		case <-ticker.C:
			eng.OnTick(time.Now())
		case <-recv.Disconnects():
			logger.Warn("glove disconnected – releasing all notes")
			eng.AllNotesOff()
		case c := <-cmds:
			applyCommand(eng, c)
		}
	}
}

func applyCommand(eng *engine.Engine, c console.Command) {
	switch c.Kind {
	case console.AllNotesOff:
		logger.Info("console: panic release")
		eng.AllNotesOff()
	case console.SetQuality:
		eng.SetQuality(c.Quality)
	case console.SetArpDelay:
		eng.SetArpDelay(c.ArpDelay)
	}
}
