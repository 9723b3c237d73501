package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the persisted bridge configuration. Flags override any of it at
// startup; the console changes quality and arp delay for the session only.
type Config struct {
	DeviceName        string  `json:"deviceName,omitempty"`        // BLE advertised name
	SerialPort        string  `json:"serialPort,omitempty"`        // synth serial device
	BaudRate          int     `json:"baudRate,omitempty"`
	MIDIPortPattern   string  `json:"midiPortPattern,omitempty"`   // system MIDI out instead of serial
	Patch             int     `json:"patch,omitempty"`             // startup program change
	PressureThreshold int     `json:"pressureThreshold,omitempty"` // trigger threshold
	RollThreshold     float64 `json:"rollThreshold,omitempty"`     // arpeggio gate, degrees
	ArpDelayMS        int     `json:"arpDelayMs,omitempty"`
	ChordQuality      string  `json:"chordQuality,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DeviceName:        "PressureGlove",
		SerialPort:        "/dev/ttyUSB0",
		BaudRate:          31250,
		PressureThreshold: 50,
		RollThreshold:     30,
		ArpDelayMS:        200,
		ChordQuality:      "major",
	}
}

// Validate rejects values that would corrupt the MIDI stream or the
// velocity map before the bridge starts.
func (c *Config) Validate() error {
	if c.Patch < 0 || c.Patch > 127 {
		return fmt.Errorf("patch must be 0-127, got %d", c.Patch)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive, got %d", c.BaudRate)
	}
	if c.ArpDelayMS <= 0 {
		return fmt.Errorf("arp delay must be positive, got %d ms", c.ArpDelayMS)
	}
	if c.PressureThreshold < 0 || c.PressureThreshold >= 1000 {
		return fmt.Errorf("pressure threshold must be 0-999, got %d", c.PressureThreshold)
	}
	return nil
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "glove-midi"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path; missing file means
// defaults. Fields absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
