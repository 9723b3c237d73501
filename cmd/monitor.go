package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"glove-midi/ble"
	"glove-midi/config"
	"glove-midi/engine"
	"glove-midi/midiout"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print glove readings and the events they would produce, without MIDI output",
	RunE:  runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().StringVar(&flagDevice, "device", "", "BLE advertised name of the glove")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("device") {
		cfg.DeviceName = flagDevice
	}

	eng := engine.New(midiout.LogSink{}, engine.Params{
		PressureThreshold: uint16(cfg.PressureThreshold),
		RollThreshold:     cfg.RollThreshold,
		ArpDelay:          time.Duration(cfg.ArpDelayMS) * time.Millisecond,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recv := ble.NewReceiver(cfg.DeviceName)
	go func() {
		if err := recv.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("ble receiver stopped", "err", err)
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-recv.Snapshots():
			logger.Debug("snapshot",
				"roll", snap.Roll,
				"p0", snap.Pressures[0],
				"p1", snap.Pressures[1],
				"p2", snap.Pressures[2],
				"p3", snap.Pressures[3],
				"p4", snap.Pressures[4],
				"p5", snap.Pressures[5],
			)
			eng.OnSnapshot(snap, time.Now())
		case <-ticker.C:
			eng.OnTick(time.Now())
		case <-recv.Disconnects():
			logger.Warn("glove disconnected")
			eng.AllNotesOff()
		}
	}
}
