// Package fake implements a base that integrates velocity commands instead of
// moving hardware. It stands in for a physics simulator in tests and demos.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/viam-labs/gotopose/base"
	"github.com/viam-labs/gotopose/motion"
	"github.com/viam-labs/gotopose/spatialmath"
)

var (
	_ = base.Base(&Base{})
	_ = motion.Localizer(&Base{})
)

// Base is a differential drive that advances a unicycle model by one
// integration step on every velocity command. Drive it at the cadence of the
// control loop and the simulated motion matches a platform that holds each
// command for one period. It doubles as its own localizer.
type Base struct {
	name   string
	step   time.Duration
	logger golog.Logger

	mu         sync.Mutex
	pose       spatialmath.Pose
	vel        spatialmath.Twist
	CloseCount int
}

// NewBase returns a fake base at the origin. The step is how long each
// velocity command is assumed to hold.
func NewBase(name string, step time.Duration, logger golog.Logger) (*Base, error) {
	if step <= 0 {
		return nil, errors.New("integration step must be positive")
	}
	return &Base{name: name, step: step, logger: logger}, nil
}

// Name returns the name of the base.
func (b *Base) Name() string {
	return b.name
}

// SetVelocity advances the simulation one step under the commanded
// velocities. The Y component of linear is the forward velocity in m/s and
// the Z component of angular the yaw rate in rad/s.
func (b *Base) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, w := linear.Y, angular.Z
	dt := b.step.Seconds()
	if math.Abs(w) < 1e-12 {
		b.pose.X += v * math.Cos(b.pose.Theta) * dt
		b.pose.Y += v * math.Sin(b.pose.Theta) * dt
		b.pose.Theta = spatialmath.NormalizeAngle(b.pose.Theta + w*dt)
	} else {
		// constant (v, w) traces an arc of radius v/w
		next := b.pose.Theta + w*dt
		radius := v / w
		b.pose.X += radius * (math.Sin(next) - math.Sin(b.pose.Theta))
		b.pose.Y += radius * (math.Cos(b.pose.Theta) - math.Cos(next))
		b.pose.Theta = spatialmath.NormalizeAngle(next)
	}
	b.vel = spatialmath.Twist{Linear: v, Angular: w}
	return nil
}

// IsMoving reports whether the last command was nonzero.
func (b *Base) IsMoving(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vel != spatialmath.Twist{}, nil
}

// Stop zeroes the commanded velocity without advancing the simulation.
func (b *Base) Stop(ctx context.Context, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vel = spatialmath.Twist{}
	return nil
}

// Close stops the base.
func (b *Base) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vel = spatialmath.Twist{}
	b.CloseCount++
	return nil
}

// CurrentPose returns the simulated pose, satisfying motion.Localizer.
func (b *Base) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose, nil
}

// SetPose teleports the base, the simulator's version of resetting odometry.
func (b *Base) SetPose(ctx context.Context, pose spatialmath.Pose) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger.Debugw("teleporting base", "name", b.name, "pose", pose.String())
	b.pose = pose.Normalized()
	b.vel = spatialmath.Twist{}
	return nil
}

// Velocity returns the last commanded velocity.
func (b *Base) Velocity() spatialmath.Twist {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vel
}
