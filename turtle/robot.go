// Package turtle assembles a drivable robot from a base and a localizer. It
// wraps the motion entry points with operation tracking so a new command
// preempts the previous one, adds continuous driving helpers, and owns the
// mode-gated pose reset.
package turtle

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/viam-labs/gotopose/base"
	"github.com/viam-labs/gotopose/motion"
	"github.com/viam-labs/gotopose/operation"
	"github.com/viam-labs/gotopose/spatialmath"
)

// Mode says whether the robot is a simulated model or physical hardware. The
// two differ only in how a pose reset is carried out.
type Mode string

const (
	ModeSimulation = Mode("simulation")
	ModeHardware   = Mode("hardware")
)

// Validate ensures the mode is one of the known values.
func (m Mode) Validate() error {
	switch m {
	case ModeSimulation, ModeHardware:
		return nil
	}
	return errors.Errorf("unknown mode %q", string(m))
}

var (
	// ErrSimulationOnly is returned when a simulation-only routine runs on a
	// hardware robot. It signals misconfiguration, not a transient failure.
	ErrSimulationOnly = errors.New("this routine is only available in simulation mode")
	// ErrHardwareOnly is the converse for hardware-only routines.
	ErrHardwareOnly = errors.New("this routine is only available in hardware mode")
)

// A Teleporter is a base that can jump straight to a pose. Simulated bases
// implement it; ResetPose uses it in simulation mode.
type Teleporter interface {
	SetPose(ctx context.Context, pose spatialmath.Pose) error
}

// An OdometryResetter is a base whose odometry can be rezeroed in place.
// Hardware bases implement it; ResetPose uses it in hardware mode.
type OdometryResetter interface {
	ResetOdometry(ctx context.Context) error
}

// continuousCommandPeriod is how often MoveForward and MoveInCircle reissue
// their command to a base that times velocity commands out.
const continuousCommandPeriod = 500 * time.Millisecond

const (
	resetPollPeriod      = 100 * time.Millisecond
	resetSettleTolerance = 1e-3
)

// Config configures a Robot.
type Config struct {
	Mode    Mode
	Control motion.Config
	// Clock defaults to the wall clock; tests inject a mock.
	Clock clock.Clock
}

// Validate ensures the mode and control parameters are usable.
func (c Config) Validate() error {
	if err := c.Mode.Validate(); err != nil {
		return err
	}
	return c.Control.Validate()
}

// Robot is a differential drive with a localizer attached. All its commands
// share one operation slot: issuing a new command cancels the one in flight.
type Robot struct {
	mode      Mode
	base      base.Base
	localizer motion.Localizer
	logger    golog.Logger
	clk       clock.Clock
	opMgr     operation.SingleOperationManager

	mu      sync.Mutex
	control motion.Config
	epoch   time.Time
}

// NewRobot wires a robot together. The base and localizer may be the same
// object, as they are for the fake base.
func NewRobot(cfg Config, b base.Base, localizer motion.Localizer, logger golog.Logger) (*Robot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.New("missing base")
	}
	if localizer == nil {
		return nil, errors.New("missing localizer")
	}
	if logger == nil {
		return nil, errors.New("missing logger")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Robot{
		mode:      cfg.Mode,
		control:   cfg.Control,
		base:      b,
		localizer: localizer,
		logger:    logger,
		clk:       clk,
		epoch:     clk.Now(),
	}, nil
}

// Mode returns the configured mode.
func (r *Robot) Mode() Mode {
	return r.mode
}

// ControlConfig returns the control parameters in effect for new moves.
func (r *Robot) ControlConfig() motion.Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.control
}

// SetControlConfig swaps the control parameters used by subsequent moves.
// A move already in flight keeps the parameters it started with.
func (r *Robot) SetControlConfig(cfg motion.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.control = cfg
	return nil
}

func (r *Robot) moveParams() motion.MoveParams {
	return motion.MoveParams{
		Localizer: r.localizer,
		Base:      r.base,
		Config:    r.ControlConfig(),
		Logger:    r.logger,
		Clock:     r.clk,
	}
}

// MoveToPose drives to a world frame goal and stops there. A fresh regulator
// is built for every call, so no compensator state leaks between moves.
func (r *Robot) MoveToPose(ctx context.Context, goal motion.Goal) error {
	ctx, done := r.opMgr.New(ctx, "MoveToPose")
	defer done()
	return motion.MoveToPose(ctx, goal, r.moveParams())
}

// MoveToRelativePose drives to a goal given in the robot's own frame.
func (r *Robot) MoveToRelativePose(ctx context.Context, rel spatialmath.Pose) error {
	ctx, done := r.opMgr.New(ctx, "MoveToRelativePose")
	defer done()
	return motion.MoveToRelativePose(ctx, rel, r.moveParams())
}

// MoveForward drives straight ahead at v m/s until the context is cancelled
// or another command preempts it.
func (r *Robot) MoveForward(ctx context.Context, v float64) error {
	return r.driveContinuously(ctx, "MoveForward", spatialmath.Twist{Linear: v})
}

// MoveInCircle arcs at v m/s and w rad/s until the context is cancelled or
// another command preempts it. The radius of the circle is v/w.
func (r *Robot) MoveInCircle(ctx context.Context, v, w float64) error {
	return r.driveContinuously(ctx, "MoveInCircle", spatialmath.Twist{Linear: v, Angular: w})
}

func (r *Robot) driveContinuously(ctx context.Context, method string, cmd spatialmath.Twist) error {
	ctx, done := r.opMgr.New(ctx, method)
	defer done()
	r.logger.Infow("driving continuously", "v", cmd.Linear, "w", cmd.Angular)

	ticker := r.clk.Ticker(continuousCommandPeriod)
	defer ticker.Stop()
	for {
		if err := r.base.SetVelocity(ctx, r3.Vector{Y: cmd.Linear}, r3.Vector{Z: cmd.Angular}, nil); err != nil {
			return errors.Wrap(err, "failed to send velocity command")
		}
		r.logState(ctx, cmd)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Robot) logState(ctx context.Context, cmd spatialmath.Twist) {
	pose, err := r.localizer.CurrentPose(ctx)
	if err != nil {
		r.logger.Debugw("pose not available", "error", err)
		return
	}
	r.logger.Debugw("robot state",
		"x", pose.X, "y", pose.Y, "theta", pose.Theta,
		"v", cmd.Linear, "w", cmd.Angular,
	)
}

// TeleportToZero jumps the simulated base back to the origin. On a hardware
// robot it fails with ErrSimulationOnly.
func (r *Robot) TeleportToZero(ctx context.Context) error {
	if r.mode != ModeSimulation {
		return ErrSimulationOnly
	}
	tp, ok := r.base.(Teleporter)
	if !ok {
		return errors.Errorf("simulation mode needs a base that can teleport, %T cannot", r.base)
	}
	return tp.SetPose(ctx, spatialmath.NewZeroPose())
}

// ResetOdometry rezeroes the odometry of a hardware base. In simulation it
// fails with ErrHardwareOnly.
func (r *Robot) ResetOdometry(ctx context.Context) error {
	if r.mode != ModeHardware {
		return ErrHardwareOnly
	}
	or, ok := r.base.(OdometryResetter)
	if !ok {
		return errors.Errorf("hardware mode needs a base that can reset odometry, %T cannot", r.base)
	}
	return or.ResetOdometry(ctx)
}

// ResetPose returns the robot to the origin pose in whichever way the mode
// supports, then waits for the localizer to observe it there.
func (r *Robot) ResetPose(ctx context.Context) error {
	ctx, done := r.opMgr.New(ctx, "ResetPose")
	defer done()
	r.logger.Info("resetting robot pose")

	var err error
	switch r.mode {
	case ModeSimulation:
		err = r.TeleportToZero(ctx)
	case ModeHardware:
		err = r.ResetOdometry(ctx)
	default:
		err = errors.Errorf("unknown mode %q", string(r.mode))
	}
	if err != nil {
		return err
	}

	err = r.opMgr.WaitForSuccess(ctx, resetPollPeriod, "ResetPose", func(ctx context.Context) (bool, error) {
		pose, err := r.localizer.CurrentPose(ctx)
		if err != nil {
			return false, err
		}
		return spatialmath.PoseAlmostEqual(pose, spatialmath.NewZeroPose(), resetSettleTolerance), nil
	})
	if err != nil {
		return errors.Wrap(err, "pose did not settle at the origin")
	}
	r.logger.Info("robot pose reset complete")
	return nil
}

// ResetElapsed restarts the session stopwatch and returns the new epoch.
func (r *Robot) ResetElapsed() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch = r.clk.Now()
	return r.epoch
}

// Elapsed reports how long the robot has been running since construction or
// the last ResetElapsed.
func (r *Robot) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clk.Now().Sub(r.epoch)
}

// Stop cancels whatever command is running and halts the base.
func (r *Robot) Stop(ctx context.Context) error {
	r.opMgr.CancelRunning(ctx)
	return r.base.Stop(ctx, nil)
}

// Close stops the robot and releases the base.
func (r *Robot) Close(ctx context.Context) error {
	return multierr.Combine(r.Stop(ctx), r.base.Close(ctx))
}
