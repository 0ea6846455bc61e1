package motion

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Gains are the proportional gains of the three polar error compensators.
type Gains struct {
	// Rho scales distance to the goal into forward velocity.
	Rho float64 `json:"rho"`
	// Alpha scales the bearing error into turn rate.
	Alpha float64 `json:"alpha"`
	// Beta scales the final heading error into turn rate. It is ignored for
	// goals without a heading.
	Beta float64 `json:"beta"`
}

// Limits saturate the commanded velocities. Commands keep their sign; only
// the magnitude is clamped into [min, max].
type Limits struct {
	MaxLinear  float64 `json:"max_linear"`
	MinLinear  float64 `json:"min_linear"`
	MaxAngular float64 `json:"max_angular"`
	MinAngular float64 `json:"min_angular"`
}

// Tolerances decide when the goal counts as reached. All three must hold at
// once.
type Tolerances struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Config parameterizes one goal directed move.
type Config struct {
	// Period is the control loop interval.
	Period     time.Duration `json:"period"`
	Gains      Gains         `json:"gains"`
	Limits     Limits        `json:"limits"`
	Tolerances Tolerances    `json:"tolerances"`
}

// DefaultConfig returns conservative parameters suitable for a small indoor
// robot: a 20Hz loop, 0.2 m/s and 0.6 rad/s ceilings and a centimeter of
// position tolerance.
func DefaultConfig() Config {
	return Config{
		Period: 50 * time.Millisecond,
		Gains:  Gains{Rho: 0.5, Alpha: 1.0, Beta: -0.5},
		Limits: Limits{
			MaxLinear:  0.2,
			MinLinear:  0,
			MaxAngular: 0.6,
			MinAngular: 0,
		},
		Tolerances: Tolerances{X: 0.01, Y: 0.01, Theta: 0.1},
	}
}

// Validate checks that the config can drive a loop at all.
func (c Config) Validate() error {
	if c.Period <= 0 {
		return errors.New("control period must be positive")
	}
	if c.Limits.MaxLinear <= 0 {
		return errors.New("max linear speed must be positive")
	}
	if c.Limits.MaxAngular <= 0 {
		return errors.New("max angular speed must be positive")
	}
	if c.Limits.MinLinear < 0 || c.Limits.MinLinear > c.Limits.MaxLinear {
		return errors.Errorf(
			"min linear speed %v must be between 0 and the max %v",
			c.Limits.MinLinear, c.Limits.MaxLinear,
		)
	}
	if c.Limits.MinAngular < 0 || c.Limits.MinAngular > c.Limits.MaxAngular {
		return errors.Errorf(
			"min angular speed %v must be between 0 and the max %v",
			c.Limits.MinAngular, c.Limits.MaxAngular,
		)
	}
	if c.Tolerances.X <= 0 || c.Tolerances.Y <= 0 || c.Tolerances.Theta <= 0 {
		return errors.New("goal tolerances must be positive")
	}
	return nil
}

// StabilityWarnings reports gain choices outside the region where the polar
// regulator is known to converge (rho > 0, alpha > rho, beta < 0). They are
// advisory; some tasks run deliberately outside it.
func (c Config) StabilityWarnings() []string {
	var warnings []string
	if c.Gains.Rho <= 0 {
		warnings = append(warnings, fmt.Sprintf("rho gain %v is not positive; the robot will not approach the goal", c.Gains.Rho))
	}
	if c.Gains.Alpha <= c.Gains.Rho {
		warnings = append(warnings, fmt.Sprintf("alpha gain %v should exceed the rho gain %v for stable convergence", c.Gains.Alpha, c.Gains.Rho))
	}
	if c.Gains.Beta >= 0 {
		warnings = append(warnings, fmt.Sprintf("beta gain %v should be negative for stable convergence", c.Gains.Beta))
	}
	return warnings
}
