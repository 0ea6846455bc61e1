package spatialmath

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// NewMatrixFromPose returns the 3x3 homogeneous transform that takes points
// in the frame the pose describes into the frame the pose is expressed in.
func NewMatrixFromPose(p Pose) *mat.Dense {
	sin, cos := math.Sincos(p.Theta)
	return mat.NewDense(3, 3, []float64{
		cos, -sin, p.X,
		sin, cos, p.Y,
		0, 0, 1,
	})
}

// NewPoseFromMatrix extracts the pose encoded in a 3x3 homogeneous transform.
// Matrices of any other shape are rejected.
func NewPoseFromMatrix(m mat.Matrix) (Pose, error) {
	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		return Pose{}, errors.Errorf("expected a 3x3 homogeneous transform but got %dx%d", rows, cols)
	}
	return poseFromMatrix(m), nil
}

func poseFromMatrix(m mat.Matrix) Pose {
	return Pose{
		X:     m.At(0, 2),
		Y:     m.At(1, 2),
		Theta: NormalizeAngle(math.Atan2(m.At(1, 0), m.At(0, 0))),
	}
}

// Compose returns the pose reached by applying b within the frame of a. Used
// to turn a goal relative to the robot into a goal in the world frame.
func Compose(a, b Pose) Pose {
	var product mat.Dense
	product.Mul(NewMatrixFromPose(a), NewMatrixFromPose(b))
	return poseFromMatrix(&product)
}

// Invert returns the pose that undoes p, so Compose(p, Invert(p)) is the
// identity.
func Invert(p Pose) Pose {
	sin, cos := math.Sincos(p.Theta)
	return Pose{
		X:     -(cos*p.X + sin*p.Y),
		Y:     sin*p.X - cos*p.Y,
		Theta: NormalizeAngle(-p.Theta),
	}
}
