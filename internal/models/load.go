package models

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is looked up in the module root when no config file is given
const ConfigFileName = ".modinstall.toml"

// LoadFile overlays settings from a TOML file onto c. Keys missing from
// the file keep their current values.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config %s: %v", path, undecoded)
	}
	return nil
}
