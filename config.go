package sightline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds observation settings that are usually tuned outside code.
//
//	idle_timeout: 120ms
//	track_hovers: true
//	root_margin: "10px 5%"
//	thresholds: [0, 0.5, 1]
type Config struct {
	// IdleTimeout overrides the Controller's idle timeout when set.
	IdleTimeout *Duration `yaml:"idle_timeout"`
	TrackHovers bool      `yaml:"track_hovers"`
	RootMargin  string    `yaml:"root_margin"`
	Thresholds  []float64 `yaml:"thresholds"`
}

// Duration is a time.Duration that decodes from YAML as either a Go duration
// string ("250ms") or an integer number of milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	var ms int64
	if err := value.Decode(&ms); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadConfig parses YAML configuration and validates it.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate checks every field with the same rules NewObserver and
// Controller.SetIdleTimeout apply.
func (c Config) Validate() error {
	if c.IdleTimeout != nil && *c.IdleTimeout < 0 {
		return fmt.Errorf("%w: negative idle timeout %v", ErrInvalidOptions, time.Duration(*c.IdleTimeout))
	}
	if _, err := ParseRootMargin(c.RootMargin); err != nil {
		return err
	}
	if _, err := ParseThresholds(c.Thresholds); err != nil {
		return err
	}
	return nil
}

// Apply copies the controller-wide settings onto ctrl.
func (c Config) Apply(ctrl *Controller) error {
	if c.IdleTimeout != nil {
		if err := ctrl.SetIdleTimeout(time.Duration(*c.IdleTimeout)); err != nil {
			return err
		}
	}
	if c.TrackHovers {
		ctrl.EnableHover()
	} else {
		ctrl.DisableHover()
	}
	return nil
}

// Options returns observer options for root built from this configuration.
func (c Config) Options(root *Node) *Options {
	opts := &Options{Root: root, RootMargin: c.RootMargin}
	if len(c.Thresholds) > 0 {
		opts.Threshold = c.Thresholds
	}
	return opts
}
