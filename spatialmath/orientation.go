package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of
// a rigid object in 3D Euclidean space. The Tait-Bryan formalism is used,
// with rotation order z-y'-x''.
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // rotation about x
	Pitch float64 `json:"pitch"` // rotation about y
	Yaw   float64 `json:"yaw"`   // rotation about z
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// QuatToEulerAngles converts a rotation quaternion to euler angles. See
// https://en.wikipedia.org/wiki/Conversion_between_quaternions_and_Euler_angles
// for the formulas used here.
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	angles := EulerAngles{}

	// rotation about the x axis
	sinrCosp := 2 * (q.Real*q.Imag + q.Jmag*q.Kmag)
	cosrCosp := 1 - 2*(q.Imag*q.Imag+q.Jmag*q.Jmag)
	angles.Roll = math.Atan2(sinrCosp, cosrCosp)

	// rotation about the y axis
	sinp := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	if math.Abs(sinp) >= 1 {
		// gimbal lock, clamp to 90 degrees
		angles.Pitch = math.Copysign(math.Pi/2., sinp)
	} else {
		angles.Pitch = math.Asin(sinp)
	}

	// rotation about the z axis
	sinyCosp := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosyCosp := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	angles.Yaw = math.Atan2(sinyCosp, cosyCosp)

	return &angles
}

// Quaternion returns the euler angles in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	sinRoll, cosRoll := math.Sincos(ea.Roll / 2)
	sinPitch, cosPitch := math.Sincos(ea.Pitch / 2)
	sinYaw, cosYaw := math.Sincos(ea.Yaw / 2)

	return quat.Number{
		Real: cosRoll*cosPitch*cosYaw + sinRoll*sinPitch*sinYaw,
		Imag: sinRoll*cosPitch*cosYaw - cosRoll*sinPitch*sinYaw,
		Jmag: cosRoll*sinPitch*cosYaw + sinRoll*cosPitch*sinYaw,
		Kmag: cosRoll*cosPitch*sinYaw - sinRoll*sinPitch*cosYaw,
	}
}

// NewPoseFromQuaternion builds the planar pose at (x, y) whose heading is the
// yaw of the given orientation. Odometry sources that report full 3D
// orientation reduce to the plane through this.
func NewPoseFromQuaternion(x, y float64, q quat.Number) Pose {
	return NewPose(x, y, QuatToEulerAngles(q).Yaw)
}
