package motion

import (
	"fmt"

	"github.com/viam-labs/gotopose/spatialmath"
)

// A Goal is a target in the world frame. Heading is optional: a goal without
// one only asks the robot to arrive at (X, Y), a goal with one also asks it
// to face that way once there.
type Goal struct {
	X       float64
	Y       float64
	Heading *float64
}

// NewPointGoal returns a goal with no required heading.
func NewPointGoal(x, y float64) Goal {
	return Goal{X: x, Y: y}
}

// NewPoseGoal returns a goal that includes a final heading in radians.
func NewPoseGoal(x, y, heading float64) Goal {
	return Goal{X: x, Y: y, Heading: &heading}
}

// GoalFromPose returns the pose goal at p.
func GoalFromPose(p spatialmath.Pose) Goal {
	return NewPoseGoal(p.X, p.Y, p.Theta)
}

// HasHeading reports whether the goal constrains the final heading.
func (g Goal) HasHeading() bool {
	return g.Heading != nil
}

func (g Goal) String() string {
	if g.Heading == nil {
		return fmt.Sprintf("(x: %.3f, y: %.3f)", g.X, g.Y)
	}
	return fmt.Sprintf("(x: %.3f, y: %.3f, heading: %.3f)", g.X, g.Y, *g.Heading)
}
