package motion

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mangle func(*Config)
		err    string
	}{
		{"defaults", func(c *Config) {}, ""},
		{
			"zero period",
			func(c *Config) { c.Period = 0 },
			"control period must be positive",
		},
		{
			"negative max linear",
			func(c *Config) { c.Limits.MaxLinear = -1 },
			"max linear speed must be positive",
		},
		{
			"zero max angular",
			func(c *Config) { c.Limits.MaxAngular = 0 },
			"max angular speed must be positive",
		},
		{
			"min linear above max",
			func(c *Config) { c.Limits.MinLinear = 0.5 },
			"min linear speed 0.5 must be between 0 and the max 0.2",
		},
		{
			"negative min angular",
			func(c *Config) { c.Limits.MinAngular = -0.1 },
			"min angular speed -0.1 must be between 0 and the max 0.6",
		},
		{
			"zero tolerance",
			func(c *Config) { c.Tolerances.Theta = 0 },
			"goal tolerances must be positive",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mangle(&cfg)
			err := cfg.Validate()
			if tc.err == "" {
				test.That(t, err, test.ShouldBeNil)
			} else {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldResemble, tc.err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.Period, test.ShouldEqual, 50*time.Millisecond)
	test.That(t, cfg.StabilityWarnings(), test.ShouldBeEmpty)
}

func TestStabilityWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gains.Beta = 0.5
	warnings := cfg.StabilityWarnings()
	test.That(t, warnings, test.ShouldHaveLength, 1)
	test.That(t, warnings[0], test.ShouldContainSubstring, "beta gain")

	cfg = DefaultConfig()
	cfg.Gains.Alpha = 0.25
	warnings = cfg.StabilityWarnings()
	test.That(t, warnings, test.ShouldHaveLength, 1)
	test.That(t, warnings[0], test.ShouldContainSubstring, "alpha gain")

	cfg = DefaultConfig()
	cfg.Gains.Rho = -0.5
	warnings = cfg.StabilityWarnings()
	test.That(t, warnings, test.ShouldHaveLength, 1)
	test.That(t, warnings[0], test.ShouldContainSubstring, "rho gain")

	// the config remains usable, the warnings are advisory
	test.That(t, cfg.Validate(), test.ShouldBeNil)
}
