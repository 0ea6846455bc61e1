// Package motion drives a differential drive base to a goal pose using a
// closed loop polar coordinate regulator.
package motion

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/viam-labs/gotopose/spatialmath"
)

// A Localizer reports where the robot currently is in the world frame.
type Localizer interface {
	CurrentPose(ctx context.Context) (spatialmath.Pose, error)
}

// ErrNoPoseAvailable is returned when a pose is requested before the source
// has produced one.
var ErrNoPoseAvailable = errors.New("no pose has been received yet")

// A PoseCell is a synchronized slot holding the most recent pose published to
// it. An odometry subscription writes into it from one goroutine while a
// control loop reads from another; readers always see the latest value and
// never block.
type PoseCell struct {
	mu      sync.Mutex
	pose    spatialmath.Pose
	hasPose bool
}

// NewPoseCell returns an empty cell. Reads fail with ErrNoPoseAvailable until
// the first Publish.
func NewPoseCell() *PoseCell {
	return &PoseCell{}
}

// Publish replaces the stored pose.
func (c *PoseCell) Publish(pose spatialmath.Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = pose.Normalized()
	c.hasPose = true
}

// CurrentPose returns the most recently published pose, satisfying Localizer.
func (c *PoseCell) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasPose {
		return spatialmath.Pose{}, ErrNoPoseAvailable
	}
	return c.pose, nil
}
