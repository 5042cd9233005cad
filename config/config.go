// SPDX-License-Identifier: GPL-2.0-or-later

// Package config reads the startup YAML file of the gosnd player.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gosnd/cvar"
)

type Config struct {
	Sound  SoundConfig       `yaml:"sound"`
	Paths  []string          `yaml:"paths"`
	Cvars  map[string]string `yaml:"cvars"`
	Exec   []string          `yaml:"exec"`
	Listen ListenerConfig    `yaml:"listener"`
}

type SoundConfig struct {
	Device      string  `yaml:"device"`
	KHz         int     `yaml:"khz"`
	MixAhead    float32 `yaml:"mixahead"`
	Volume      float32 `yaml:"volume"`
	MusicVolume float32 `yaml:"music_volume"`
	Megs        int     `yaml:"megs"`
	Compression int     `yaml:"compression"`
}

// ListenerConfig is the starting position of the listener.
type ListenerConfig struct {
	Entity int        `yaml:"entity"`
	Origin [3]float32 `yaml:"origin"`
	Angles [3]float32 `yaml:"angles"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Sound.Device {
	case "", "oto", "sdl", "memory", "none":
	default:
		return errors.Errorf("unknown sound device %q", c.Sound.Device)
	}
	switch c.Sound.KHz {
	case 0, 11, 22, 44, 48:
	default:
		return errors.Errorf("unsupported khz %d", c.Sound.KHz)
	}
	if c.Sound.Compression < 0 || c.Sound.Compression > 3 {
		return errors.Errorf("unknown compression method %d", c.Sound.Compression)
	}
	return nil
}

func format(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// Apply copies the non zero values into the cvar registry. Entries of the
// cvars map are applied last and win over the typed fields.
func (c *Config) Apply() {
	if c.Sound.Device != "" {
		cvar.Set("s_device", c.Sound.Device)
	}
	if c.Sound.KHz != 0 {
		cvar.Set("s_khz", strconv.Itoa(c.Sound.KHz))
	}
	if c.Sound.MixAhead != 0 {
		cvar.Set("s_mixahead", format(c.Sound.MixAhead))
	}
	if c.Sound.Volume != 0 {
		cvar.Set("s_volume", format(c.Sound.Volume))
	}
	if c.Sound.MusicVolume != 0 {
		cvar.Set("s_musicvolume", format(c.Sound.MusicVolume))
	}
	if c.Sound.Megs != 0 {
		cvar.Set("com_soundmegs", strconv.Itoa(c.Sound.Megs))
	}
	if c.Sound.Compression != 0 {
		cvar.Set("s_compression", strconv.Itoa(c.Sound.Compression))
	}
	for k, v := range c.Cvars {
		cvar.Set(k, v)
	}
}
