package motion

import (
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/montanaflynn/stats"

	"github.com/viam-labs/gotopose/spatialmath"
)

// A MoveSummary describes how a completed move went: how long it took, how
// far the robot actually traveled and how hard it was driven.
type MoveSummary struct {
	Goal        Goal
	Ticks       int
	Elapsed     time.Duration
	PathLength  float64
	FinalPose   spatialmath.Pose
	MeanSpeed   float64
	MaxSpeed    float64
	MeanTurn    float64
	MaxTurn     float64
	SpeedStdDev float64
}

// LogTo writes the summary through the given logger.
func (s MoveSummary) LogTo(logger golog.Logger) {
	logger.Infow("move complete",
		"goal", s.Goal.String(),
		"final", s.FinalPose.String(),
		"ticks", s.Ticks,
		"elapsed", s.Elapsed,
		"path_m", s.PathLength,
		"mean_v", s.MeanSpeed,
		"max_v", s.MaxSpeed,
		"stddev_v", s.SpeedStdDev,
		"mean_w", s.MeanTurn,
		"max_w", s.MaxTurn,
	)
}

type summaryBuilder struct {
	goal     Goal
	started  time.Time
	speeds   []float64
	turns    []float64
	path     float64
	lastPose spatialmath.Pose
	ticks    int
}

func newSummaryBuilder(goal Goal, now time.Time) *summaryBuilder {
	return &summaryBuilder{goal: goal, started: now}
}

func (s *summaryBuilder) observe(pose spatialmath.Pose, cmd spatialmath.Twist) {
	if s.ticks > 0 {
		s.path += spatialmath.Distance(s.lastPose, pose)
	}
	s.lastPose = pose
	s.speeds = append(s.speeds, math.Abs(cmd.Linear))
	s.turns = append(s.turns, math.Abs(cmd.Angular))
	s.ticks++
}

func (s *summaryBuilder) finish(finalPose spatialmath.Pose, now time.Time) MoveSummary {
	if s.ticks > 0 {
		s.path += spatialmath.Distance(s.lastPose, finalPose)
	}
	summary := MoveSummary{
		Goal:       s.goal,
		Ticks:      s.ticks,
		Elapsed:    now.Sub(s.started),
		PathLength: s.path,
		FinalPose:  finalPose,
	}
	if s.ticks == 0 {
		return summary
	}
	// the stats calls only fail on empty input
	summary.MeanSpeed, _ = stats.Mean(s.speeds)
	summary.MaxSpeed, _ = stats.Max(s.speeds)
	summary.SpeedStdDev, _ = stats.StandardDeviation(s.speeds)
	summary.MeanTurn, _ = stats.Mean(s.turns)
	summary.MaxTurn, _ = stats.Max(s.turns)
	return summary
}
