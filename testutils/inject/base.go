// Package inject provides dependency injected collaborators for use in tests.
package inject

import (
	"context"

	"github.com/golang/geo/r3"

	"github.com/viam-labs/gotopose/base"
)

// Base is an injected base.
type Base struct {
	base.Base
	SetVelocityFunc func(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error
	IsMovingFunc    func(ctx context.Context) (bool, error)
	StopFunc        func(ctx context.Context, extra map[string]interface{}) error
	CloseFunc       func(ctx context.Context) error
}

// SetVelocity calls the injected SetVelocity or the real version.
func (b *Base) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	if b.SetVelocityFunc == nil {
		return b.Base.SetVelocity(ctx, linear, angular, extra)
	}
	return b.SetVelocityFunc(ctx, linear, angular, extra)
}

// IsMoving calls the injected IsMoving or the real version.
func (b *Base) IsMoving(ctx context.Context) (bool, error) {
	if b.IsMovingFunc == nil {
		return b.Base.IsMoving(ctx)
	}
	return b.IsMovingFunc(ctx)
}

// Stop calls the injected Stop or the real version.
func (b *Base) Stop(ctx context.Context, extra map[string]interface{}) error {
	if b.StopFunc == nil {
		return b.Base.Stop(ctx, extra)
	}
	return b.StopFunc(ctx, extra)
}

// Close calls the injected Close or the real version.
func (b *Base) Close(ctx context.Context) error {
	if b.CloseFunc == nil {
		return b.Base.Close(ctx)
	}
	return b.CloseFunc(ctx)
}
