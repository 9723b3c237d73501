package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var debug bool

// logger is the package-wide structured logger. Safe to use before initLogger
// is called; defaults to slog.Default().
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "glove-midi",
	Short: "Bridge a pressure-sensing glove to a MIDI synthesizer",
	Long: `glove-midi receives pressure and roll readings from a wearable glove
over Bluetooth LE and turns them into MIDI performance events (notes,
chord arpeggios, sustain) on a serial synthesizer or a system MIDI port.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (adds source location)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// initLogger configures the shared slog logger and calls slog.SetDefault so
// the stdlib log package also routes through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	logger = slog.New(h)
	slog.SetDefault(logger) // stdlib log.* now routes through slog
}
