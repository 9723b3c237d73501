package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"glove-midi/midiout"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial devices and MIDI out ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		serial, err := midiout.ListSerialPorts()
		if err != nil {
			return fmt.Errorf("list serial ports: %w", err)
		}
		fmt.Println("Serial ports:")
		if len(serial) == 0 {
			fmt.Println("  (none)")
		}
		for _, name := range serial {
			fmt.Printf("  %s\n", name)
		}

		midi, err := midiout.ListMIDIPorts()
		if err != nil {
			return fmt.Errorf("list MIDI ports: %w", err)
		}
		fmt.Println("MIDI out ports:")
		if len(midi) == 0 {
			fmt.Println("  (none)")
		}
		for _, name := range midi {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
