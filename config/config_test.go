package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert := assert.New(t)
	assert.Equal("PressureGlove", cfg.DeviceName)
	assert.Equal(50, cfg.PressureThreshold)
	assert.Equal(float64(30), cfg.RollThreshold)
	assert.Equal(200, cfg.ArpDelayMS)
	assert.Equal("major", cfg.ChordQuality)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.DeviceName = "TestGlove"
	cfg.ArpDelayMS = 120
	assert.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"deviceName":"X"}`), 0644))

	cfg, err := LoadFrom(path)
	assert.NoError(t, err)
	assert.Equal(t, "X", cfg.DeviceName)
	assert.Equal(t, 200, cfg.ArpDelayMS) // untouched default
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(*Config){
		"patch negative":     func(c *Config) { c.Patch = -1 },
		"patch above 127":    func(c *Config) { c.Patch = 128 },
		"zero baud":          func(c *Config) { c.BaudRate = 0 },
		"zero arp delay":     func(c *Config) { c.ArpDelayMS = 0 },
		"threshold at cap":   func(c *Config) { c.PressureThreshold = 1000 },
		"negative threshold": func(c *Config) { c.PressureThreshold = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{nope`), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
