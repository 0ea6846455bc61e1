package spatialmath

import "fmt"

// A Twist is a velocity command for a differential drive platform: linear
// velocity along the current heading in m/s and angular velocity about the
// vertical axis in rad/s. The zero value commands a full stop.
type Twist struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

func (t Twist) String() string {
	return fmt.Sprintf("(v: %.3f, w: %.3f)", t.Linear, t.Angular)
}
