// Package spatialmath defines the planar geometry a mobile robot navigates in:
// poses and velocity commands on the plane, homogeneous transforms between
// frames, and the angle arithmetic both rely on.
package spatialmath

import (
	"fmt"
	"math"
)

// A Pose is a position and heading in the plane. X and Y are in meters and
// Theta is in radians, wrapped to (-pi, pi].
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// NewPose returns the pose at (x, y) facing theta. Theta is wrapped.
func NewPose(x, y, theta float64) Pose {
	return Pose{X: x, Y: y, Theta: NormalizeAngle(theta)}
}

// NewZeroPose returns the pose at the origin facing along positive x.
func NewZeroPose() Pose {
	return Pose{}
}

// Normalized returns the pose with Theta wrapped to (-pi, pi].
func (p Pose) Normalized() Pose {
	p.Theta = NormalizeAngle(p.Theta)
	return p
}

func (p Pose) String() string {
	return fmt.Sprintf("(x: %.3f, y: %.3f, theta: %.3f)", p.X, p.Y, p.Theta)
}

// Distance returns the euclidean distance between the positions of a and b.
// Heading does not contribute.
func Distance(a, b Pose) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// PoseAlmostEqual reports whether two poses are equal up to eps in each of
// position and heading. The heading comparison respects wrapping, so poses
// facing just either side of pi compare equal.
func PoseAlmostEqual(a, b Pose, eps float64) bool {
	return math.Abs(b.X-a.X) <= eps &&
		math.Abs(b.Y-a.Y) <= eps &&
		math.Abs(NormalizeAngle(b.Theta-a.Theta)) <= eps
}
