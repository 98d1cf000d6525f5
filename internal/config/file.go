package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadFile layers settings from a TOML file onto cfg.
// Keys absent from the file keep their current values.
//
// Example file:
//
//	profile = "loose"
//	timeline_width = 70
//	show_frame_gaps = false
func LoadFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}
