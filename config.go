package motionblur

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/gekko3d/motionblur/motion"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// BoundsSteps is the number of time samples taken when bounding an
	// entity's motion.
	BoundsSteps int    `yaml:"bounds_steps"`
	Workers     int    `yaml:"workers"`
	LogPrefix   string `yaml:"log_prefix"`
	Debug       bool   `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		BoundsSteps: motion.DefaultBoundsSteps,
		Workers:     runtime.GOMAXPROCS(0),
		LogPrefix:   "motionblur",
	}
}

func (c Config) Validate() error {
	if c.BoundsSteps < 2 {
		return fmt.Errorf("%w: bounds_steps must be at least 2, got %d", ErrInvalidConfig, c.BoundsSteps)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// LoadConfig reads a YAML config file. Fields the file leaves out keep
// their DefaultConfig values; unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
