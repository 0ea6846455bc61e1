package motion

import (
	"math"

	"github.com/viam-labs/gotopose/control"
	"github.com/viam-labs/gotopose/spatialmath"
)

// State is where a regulator is in its lifecycle.
type State uint8

const (
	// Driving means the goal has not been reached and the returned command
	// should be sent to the base.
	Driving State = iota
	// Reached means the pose is within tolerance of the goal. It is terminal.
	Reached
)

func (s State) String() string {
	switch s {
	case Driving:
		return "driving"
	case Reached:
		return "reached"
	default:
		return "unknown"
	}
}

// A Regulator computes velocity commands that close the distance between a
// pose and a goal. It decomposes the error into polar coordinates: rho, the
// distance to the goal; alpha, the bearing of the goal relative to the
// robot's heading; and beta, the error between the goal heading and the
// heading the robot would arrive with. Each coordinate feeds its own
// compensator and the outputs combine into forward and angular velocity.
//
// A regulator serves a single goal. Compensator state accrues across steps,
// so build a fresh one for each move.
type Regulator struct {
	goal      Goal
	thetaGoal float64
	cfg       Config
	state     State

	rho, alpha, beta *control.PID
}

// NewRegulator validates the config and builds the three compensators. For a
// goal with no heading the beta gain drops to zero and the arrival heading is
// simply not steered; zero stands in as the heading for the tolerance check.
// A provided goal heading is wrapped once here, so step never re-wraps it.
func NewRegulator(goal Goal, cfg Config) (*Regulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	thetaGoal := 0.0
	betaGain := 0.0
	if goal.Heading != nil {
		thetaGoal = spatialmath.NormalizeAngle(*goal.Heading)
		betaGain = cfg.Gains.Beta
	}

	rho, err := control.NewPID(control.ScalarPIDConfig(cfg.Period, cfg.Gains.Rho, 0, 0))
	if err != nil {
		return nil, err
	}
	alpha, err := control.NewPID(control.ScalarPIDConfig(cfg.Period, cfg.Gains.Alpha, 0, 0))
	if err != nil {
		return nil, err
	}
	beta, err := control.NewPID(control.ScalarPIDConfig(cfg.Period, betaGain, 0, 0))
	if err != nil {
		return nil, err
	}

	return &Regulator{
		goal:      goal,
		thetaGoal: thetaGoal,
		cfg:       cfg,
		rho:       rho,
		alpha:     alpha,
		beta:      beta,
	}, nil
}

// Goal returns the goal the regulator was built for.
func (r *Regulator) Goal() Goal {
	return r.goal
}

// State returns the current lifecycle state.
func (r *Regulator) State() State {
	return r.state
}

// Step advances the regulator by one control period and returns the velocity
// command for the given pose along with the resulting state. The tick that
// first observes the pose within tolerance still gets a real command and the
// state Reached; every call after that returns the stop command.
func (r *Regulator) Step(pose spatialmath.Pose) (spatialmath.Twist, State) {
	if r.state == Reached {
		return spatialmath.Twist{}, Reached
	}
	pose = pose.Normalized()

	dx := r.goal.X - pose.X
	dy := r.goal.Y - pose.Y
	rho := math.Hypot(dx, dy)
	alpha := spatialmath.NormalizeAngle(math.Atan2(dy, dx) - pose.Theta)
	beta := -pose.Theta - alpha + r.thetaGoal

	// a goal behind the robot is driven to in reverse rather than by turning
	// all the way around
	sign := 1.0
	if math.Abs(alpha) > math.Pi/2 {
		alpha = spatialmath.NormalizeAngle(math.Pi - alpha)
		beta = spatialmath.NormalizeAngle(math.Pi - beta)
		sign = -1
	}

	// compensator dimensions are fixed at construction, so the error returns
	// are unreachable
	vOut, _ := r.rho.Compute(rho)
	wAlpha, _ := r.alpha.Compute(alpha)
	wBeta, _ := r.beta.Compute(beta)

	cmd := spatialmath.Twist{
		Linear:  clampMagnitude(sign*vOut, r.cfg.Limits.MinLinear, r.cfg.Limits.MaxLinear),
		Angular: clampMagnitude(sign*(wAlpha+wBeta), r.cfg.Limits.MinAngular, r.cfg.Limits.MaxAngular),
	}

	if math.Abs(dx) < r.cfg.Tolerances.X &&
		math.Abs(dy) < r.cfg.Tolerances.Y &&
		math.Abs(r.thetaGoal-pose.Theta) < r.cfg.Tolerances.Theta {
		r.state = Reached
	}
	return cmd, r.state
}

// clampMagnitude clamps the magnitude of val into [min, max] and keeps its
// direction. A val of exactly zero comes out as -min, matching a drive that
// treats non-positive as reverse.
func clampMagnitude(val, min, max float64) float64 {
	mag := math.Max(min, math.Min(math.Abs(val), max))
	if val > 0 {
		return mag
	}
	return -mag
}
