package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/bamsammich/treecopy/internal/filter"
)

// Config represents the optional treecopy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Filter   FilterConfig   `toml:"filter"`
}

// DefaultsConfig holds persistent flag defaults. A nil field means the key
// was absent and the built-in default applies.
type DefaultsConfig struct {
	Overwrite          *bool `toml:"overwrite"`
	ErrorOnExist       *bool `toml:"error_on_exist"`
	PreserveTimestamps *bool `toml:"preserve_timestamps"`
	Dereference        *bool `toml:"dereference"`
	Sequential         *bool `toml:"sequential"`
	Verify             *bool `toml:"verify"`
	Workers            *int  `toml:"workers"`
}

// FilterConfig holds filter rules applied to every copy.
type FilterConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	MinSize string   `toml:"min_size"`
	MaxSize string   `toml:"max_size"`
}

// Apply appends the configured rules to c. Include rules go first, so an
// include always wins over an exclude from the same file.
func (f FilterConfig) Apply(c *filter.Chain) error {
	for _, p := range f.Include {
		if err := c.AddInclude(p); err != nil {
			return fmt.Errorf("config include %q: %w", p, err)
		}
	}
	for _, p := range f.Exclude {
		if err := c.AddExclude(p); err != nil {
			return fmt.Errorf("config exclude %q: %w", p, err)
		}
	}
	if f.MinSize != "" {
		n, err := filter.ParseSize(f.MinSize)
		if err != nil {
			return fmt.Errorf("config min_size: %w", err)
		}
		c.SetMinSize(n)
	}
	if f.MaxSize != "" {
		n, err := filter.ParseSize(f.MaxSize)
		if err != nil {
			return fmt.Errorf("config max_size: %w", err)
		}
		c.SetMaxSize(n)
	}
	return nil
}

// EnvConfigPath names a config file to use instead of the XDG location.
const EnvConfigPath = "TREECOPY_CONFIG"

// Path returns $TREECOPY_CONFIG if set, otherwise treecopy/config.toml
// under the XDG config home.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "treecopy", "config.toml")
}

// Load reads the config file at Path. The file is optional.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path. A missing file yields a zero Config.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
