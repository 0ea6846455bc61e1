// Package config loads robot configuration from YAML files. Files may
// reference environment variables with ${VAR} syntax; references are
// substituted before decoding.
package config

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"github.com/viam-labs/gotopose/motion"
	"github.com/viam-labs/gotopose/turtle"
)

// Duration wraps time.Duration so configs can spell periods like "50ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, "bad duration %q", raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration back into string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Unwrap returns the underlying time.Duration.
func (d Duration) Unwrap() time.Duration {
	return time.Duration(d)
}

// GainsConfig is the gain triple of the regulator.
type GainsConfig struct {
	Rho   float64 `yaml:"rho"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

// LimitsConfig bounds commanded speeds.
type LimitsConfig struct {
	MaxLinear  float64 `yaml:"max_linear"`
	MinLinear  float64 `yaml:"min_linear"`
	MaxAngular float64 `yaml:"max_angular"`
	MinAngular float64 `yaml:"min_angular"`
}

// TolerancesConfig is the goal acceptance window.
type TolerancesConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
}

// ControlConfig collects the regulator parameters in file form.
type ControlConfig struct {
	Period     Duration         `yaml:"period"`
	Gains      GainsConfig      `yaml:"gains"`
	Limits     LimitsConfig     `yaml:"limits"`
	Tolerances TolerancesConfig `yaml:"tolerances"`
}

// Config is the top level of a robot config file.
type Config struct {
	Mode    string        `yaml:"mode"`
	Control ControlConfig `yaml:"control"`
}

// DefaultConfig is a simulation robot with the stock control parameters.
// Decoding a file starts from here, so omitted fields keep these values.
func DefaultConfig() *Config {
	mc := motion.DefaultConfig()
	return &Config{
		Mode: string(turtle.ModeSimulation),
		Control: ControlConfig{
			Period: Duration(mc.Period),
			Gains:  GainsConfig{Rho: mc.Gains.Rho, Alpha: mc.Gains.Alpha, Beta: mc.Gains.Beta},
			Limits: LimitsConfig{
				MaxLinear:  mc.Limits.MaxLinear,
				MinLinear:  mc.Limits.MinLinear,
				MaxAngular: mc.Limits.MaxAngular,
				MinAngular: mc.Limits.MinAngular,
			},
			Tolerances: TolerancesConfig{
				X:     mc.Tolerances.X,
				Y:     mc.Tolerances.Y,
				Theta: mc.Tolerances.Theta,
			},
		},
	}
}

// FromReader decodes a config, filling unset fields from the defaults.
func FromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return cfg, nil
}

// Read loads a config file, substituting ${ENV} references before decoding.
func Read(path string) (*Config, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := FromReader(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %q", path)
	}
	return cfg, nil
}

// Validate ensures the config can build a robot. The path names where this
// config sits, for error messages.
func (c *Config) Validate(path string) error {
	if c.Mode == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "mode")
	}
	if err := turtle.Mode(c.Mode).Validate(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	if err := c.MotionConfig().Validate(); err != nil {
		return utils.NewConfigValidationError(fmt.Sprintf("%s.control", path), err)
	}
	return nil
}

// MotionConfig converts the file form into the regulator's config.
func (c *Config) MotionConfig() motion.Config {
	return motion.Config{
		Period: c.Control.Period.Unwrap(),
		Gains: motion.Gains{
			Rho:   c.Control.Gains.Rho,
			Alpha: c.Control.Gains.Alpha,
			Beta:  c.Control.Gains.Beta,
		},
		Limits: motion.Limits{
			MaxLinear:  c.Control.Limits.MaxLinear,
			MinLinear:  c.Control.Limits.MinLinear,
			MaxAngular: c.Control.Limits.MaxAngular,
			MinAngular: c.Control.Limits.MinAngular,
		},
		Tolerances: motion.Tolerances{
			X:     c.Control.Tolerances.X,
			Y:     c.Control.Tolerances.Y,
			Theta: c.Control.Tolerances.Theta,
		},
	}
}

// RobotConfig converts the file form into the turtle's config.
func (c *Config) RobotConfig() turtle.Config {
	return turtle.Config{
		Mode:    turtle.Mode(c.Mode),
		Control: c.MotionConfig(),
	}
}
