package inject

import (
	"context"

	"github.com/viam-labs/gotopose/motion"
	"github.com/viam-labs/gotopose/spatialmath"
)

// Localizer is an injected localizer.
type Localizer struct {
	motion.Localizer
	CurrentPoseFunc func(ctx context.Context) (spatialmath.Pose, error)
}

// CurrentPose calls the injected CurrentPose or the real version.
func (l *Localizer) CurrentPose(ctx context.Context) (spatialmath.Pose, error) {
	if l.CurrentPoseFunc == nil {
		return l.Localizer.CurrentPose(ctx)
	}
	return l.CurrentPoseFunc(ctx)
}
