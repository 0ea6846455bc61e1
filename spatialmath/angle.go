package spatialmath

import "math"

// NormalizeAngle wraps an angle in radians to (-pi, pi]. Adding any multiple
// of 2*pi to the input leaves the result unchanged.
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta+math.Pi, 2*math.Pi)
	if theta <= 0 {
		theta += 2 * math.Pi
	}
	return theta - math.Pi
}
