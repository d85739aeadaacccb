package cellgrid

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the knobs the simulation exposes. Zero values are filled
// from DefaultConfig, so a partial TOML file only overrides what it
// names.
type Config struct {
	WindowWidth  int     `toml:"window_width"`
	WindowHeight int     `toml:"window_height"`
	Threshold    float32 `toml:"threshold"`
	Seed         int64   `toml:"seed"`
	WarmupSteps  int     `toml:"warmup_steps"`
	SeedImage    string  `toml:"seed_image"`
	Debug        bool    `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		Threshold:    0.7,
		Seed:         42,
		WarmupSteps:  100,
	}
}

func (c Config) validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.WindowWidth, c.WindowHeight)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("threshold %v must be in (0, 1)", c.Threshold)
	}
	if c.WarmupSteps < 0 {
		return fmt.Errorf("warmup steps %d must not be negative", c.WarmupSteps)
	}
	return nil
}

// LoadConfig reads a TOML config from path on top of the defaults. An
// empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as TOML, for generating a starting point file.
func (c Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config %s: %w", path, err)
	}
	return nil
}
