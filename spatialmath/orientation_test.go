package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestQuatToEulerAngles(t *testing.T) {
	// 45 degrees about x
	qx := quat.Number{Real: math.Cos(math.Pi / 8), Imag: math.Sin(math.Pi / 8)}
	ea := QuatToEulerAngles(qx)
	test.That(t, ea.Roll, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, 0)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, 0)

	// 90 degrees about z
	qz := quat.Number{Real: math.Cos(math.Pi / 4), Kmag: math.Sin(math.Pi / 4)}
	ea = QuatToEulerAngles(qz)
	test.That(t, ea.Roll, test.ShouldAlmostEqual, 0)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, 0)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, math.Pi/2)

	// identity
	test.That(t, QuatToEulerAngles(quat.Number{Real: 1}), test.ShouldResemble, NewEulerAngles())
}

func TestQuatToEulerAnglesGimbalLock(t *testing.T) {
	// pitch of exactly 90 degrees clamps instead of blowing up in Asin
	qy := quat.Number{Real: math.Cos(math.Pi / 4), Jmag: math.Sin(math.Pi / 4)}
	ea := QuatToEulerAngles(qy)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, math.Pi/2)
}

func TestEulerAnglesRoundTrip(t *testing.T) {
	for _, in := range []*EulerAngles{
		{Roll: 0.1, Pitch: -0.2, Yaw: 1.5},
		{Roll: -1.0, Pitch: 0.5, Yaw: -2.8},
		{Yaw: math.Pi / 2},
		{},
	} {
		out := QuatToEulerAngles(in.Quaternion())
		test.That(t, out.Roll, test.ShouldAlmostEqual, in.Roll, 1e-9)
		test.That(t, out.Pitch, test.ShouldAlmostEqual, in.Pitch, 1e-9)
		test.That(t, out.Yaw, test.ShouldAlmostEqual, in.Yaw, 1e-9)
	}
}

func TestNewPoseFromQuaternion(t *testing.T) {
	q := (&EulerAngles{Yaw: math.Pi / 2}).Quaternion()
	p := NewPoseFromQuaternion(0.5, -0.5, q)
	test.That(t, p.X, test.ShouldEqual, 0.5)
	test.That(t, p.Y, test.ShouldEqual, -0.5)
	test.That(t, p.Theta, test.ShouldAlmostEqual, math.Pi/2)

	// roll and pitch do not leak into heading
	q = (&EulerAngles{Roll: 0.4, Pitch: -0.1, Yaw: 1.0}).Quaternion()
	test.That(t, NewPoseFromQuaternion(0, 0, q).Theta, test.ShouldAlmostEqual, 1.0, 1e-9)
}
