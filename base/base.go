// Package base defines the drive interface of a mobile robot platform.
package base

import (
	"context"

	"github.com/golang/geo/r3"
)

// A Base turns velocity commands into wheel motion. Implementations wrap real
// drive hardware or a simulator.
type Base interface {
	// SetVelocity commands the base to move. The Y component of linear is the
	// forward velocity in m/s and the Z component of angular is the
	// counterclockwise yaw rate in rad/s; a differential drive ignores the
	// other components. The command holds until the next one.
	SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error

	// IsMoving reports whether the base currently has a nonzero command.
	IsMoving(ctx context.Context) (bool, error)

	// Stop halts all motion immediately.
	Stop(ctx context.Context, extra map[string]interface{}) error

	// Close stops the base and releases any underlying resources.
	Close(ctx context.Context) error
}
