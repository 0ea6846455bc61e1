package motion

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/viam-labs/gotopose/base"
	"github.com/viam-labs/gotopose/spatialmath"
)

// stateLogInterval is how many ticks pass between progress log lines.
const stateLogInterval = 10

// MoveParams collects the collaborators of a move.
type MoveParams struct {
	Localizer Localizer
	Base      base.Base
	Config    Config
	Logger    golog.Logger
	// Clock defaults to the wall clock; tests inject a mock.
	Clock clock.Clock
}

// Validate ensures all required collaborators are present and the config is
// usable.
func (p MoveParams) Validate() error {
	if p.Localizer == nil {
		return errors.New("missing localizer")
	}
	if p.Base == nil {
		return errors.New("missing base")
	}
	if p.Logger == nil {
		return errors.New("missing logger")
	}
	return p.Config.Validate()
}

// MoveToPose drives the base until the localizer reports a pose within
// tolerance of the goal, then stops it. The command computed on the final
// tick is still delivered and holds for one period before the stop goes out.
// Cancelling the context abandons the move without stopping the base; a
// caller that wants the robot halted on cancel must stop it itself.
func MoveToPose(ctx context.Context, goal Goal, p MoveParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	reg, err := NewRegulator(goal, p.Config)
	if err != nil {
		return err
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}

	for _, warning := range p.Config.StabilityWarnings() {
		p.Logger.Warn(warning)
	}
	p.Logger.Infow("moving to goal", "goal", goal.String())

	summary := newSummaryBuilder(goal, clk.Now())
	ticker := clk.Ticker(p.Config.Period)
	defer ticker.Stop()
	for tick := 0; ; tick++ {
		pose, err := p.Localizer.CurrentPose(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to read pose")
		}
		cmd, state := reg.Step(pose)
		if err := p.Base.SetVelocity(ctx, r3.Vector{Y: cmd.Linear}, r3.Vector{Z: cmd.Angular}, nil); err != nil {
			return errors.Wrap(err, "failed to send velocity command")
		}
		summary.observe(pose, cmd)
		if tick%stateLogInterval == 0 {
			p.Logger.Debugw("driving",
				"x", pose.X, "y", pose.Y, "theta", pose.Theta,
				"v", cmd.Linear, "w", cmd.Angular,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if state == Reached {
			if err := p.Base.SetVelocity(ctx, r3.Vector{}, r3.Vector{}, nil); err != nil {
				return errors.Wrap(err, "failed to stop at goal")
			}
			summary.finish(pose, clk.Now()).LogTo(p.Logger)
			return nil
		}
	}
}

// MoveToRelativePose expresses a goal given in the robot's own frame as a
// world goal and drives there. A relative pose of (1, 0, 0) means one meter
// straight ahead at the current heading.
func MoveToRelativePose(ctx context.Context, rel spatialmath.Pose, p MoveParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	pose, err := p.Localizer.CurrentPose(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read pose")
	}
	world := spatialmath.Compose(pose, rel)
	p.Logger.Debugw("resolved relative goal", "relative", rel.String(), "world", world.String())
	return MoveToPose(ctx, GoalFromPose(world), p)
}
