// Package main contains a command to drive a simulated turtle to a goal pose.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/viam-labs/gotopose/base/fake"
	"github.com/viam-labs/gotopose/config"
	"github.com/viam-labs/gotopose/motion"
	"github.com/viam-labs/gotopose/spatialmath"
	"github.com/viam-labs/gotopose/turtle"
	"github.com/viam-labs/gotopose/utils"
)

var logger = golog.NewDevelopmentLogger("drive")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string   `flag:"config,usage=path to a YAML robot config"`
	Goal       poseFlag `flag:"goal,usage=goal pose of the form x:y or x:y:theta"`
	Degrees    bool     `flag:"degrees,usage=interpret the goal theta in degrees instead of radians"`
	Relative   bool     `flag:"relative,usage=treat the goal as relative to the starting pose"`
	Laps       int      `flag:"laps,default=1,usage=times to drive out and back (0 means until interrupted)"`
	Watch      bool     `flag:"watch,usage=reload control parameters from the config file between laps"`
}

// poseFlag parses a goal of the form "x:y" or "x:y:theta". Without a theta
// the robot drives to the point and keeps whatever heading it arrives with.
type poseFlag struct {
	x, y  float64
	theta *float64
	isSet bool
}

func (p *poseFlag) String() string {
	if !p.isSet {
		return ""
	}
	if p.theta == nil {
		return fmt.Sprintf("%v:%v", p.x, p.y)
	}
	return fmt.Sprintf("%v:%v:%v", p.x, p.y, *p.theta)
}

func (p *poseFlag) Set(val string) error {
	parts := strings.FieldsFunc(val, func(r rune) bool { return r == ':' || r == ',' })
	if len(parts) != 2 && len(parts) != 3 {
		return errors.Errorf("expected x:y or x:y:theta but got %q", val)
	}
	nums := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return errors.Wrapf(err, "bad coordinate %q", part)
		}
		nums[i] = f
	}
	p.x, p.y = nums[0], nums[1]
	if len(nums) == 3 {
		p.theta = &nums[2]
	}
	p.isSet = true
	return nil
}

func (p *poseFlag) goal() motion.Goal {
	if p.theta == nil {
		return motion.NewPointGoal(p.x, p.y)
	}
	return motion.NewPoseGoal(p.x, p.y, *p.theta)
}

func (p *poseFlag) relativePose() spatialmath.Pose {
	theta := 0.0
	if p.theta != nil {
		theta = *p.theta
	}
	return spatialmath.NewPose(p.x, p.y, theta)
}

// recordingBase keeps every commanded forward speed so the demo can plot the
// speed profile at exit.
type recordingBase struct {
	*fake.Base
	mu     sync.Mutex
	speeds []float64
}

func (b *recordingBase) SetVelocity(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	b.mu.Lock()
	b.speeds = append(b.speeds, math.Abs(linear.Y))
	b.mu.Unlock()
	return b.Base.SetVelocity(ctx, linear, angular, extra)
}

func (b *recordingBase) take() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float64(nil), b.speeds...)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	if argsParsed.Degrees && argsParsed.Goal.theta != nil {
		*argsParsed.Goal.theta = utils.DegToRad(*argsParsed.Goal.theta)
	}

	cfg := config.DefaultConfig()
	if argsParsed.ConfigFile != "" {
		cfg, err = config.Read(argsParsed.ConfigFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate("robot"); err != nil {
			return err
		}
	}

	robotCfg := cfg.RobotConfig()
	if robotCfg.Mode != turtle.ModeSimulation {
		logger.Warnw("this demo always drives a simulated base", "configured_mode", string(robotCfg.Mode))
		robotCfg.Mode = turtle.ModeSimulation
	}

	sim, err := fake.NewBase("turtle", robotCfg.Control.Period, logger)
	if err != nil {
		return err
	}
	rec := &recordingBase{Base: sim}
	robot, err := turtle.NewRobot(robotCfg, rec, sim, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, robot.Close(ctx))
	}()

	var updates <-chan *config.Config
	if argsParsed.Watch {
		if argsParsed.ConfigFile == "" {
			return errors.New("watching requires a config file")
		}
		updates, err = config.Watch(ctx, argsParsed.ConfigFile, logger)
		if err != nil {
			return err
		}
	}

	if err := robot.ResetPose(ctx); err != nil {
		return err
	}
	robot.ResetElapsed()

	laps := 0
	for argsParsed.Laps == 0 || laps < argsParsed.Laps {
		select {
		case newCfg := <-updates:
			logger.Infow("applying updated control parameters", "period", newCfg.Control.Period.Unwrap().String())
			if err := robot.SetControlConfig(newCfg.MotionConfig()); err != nil {
				return err
			}
		default:
		}
		if err := driveLap(ctx, robot, argsParsed); err != nil {
			return err
		}
		laps++
		logger.Infow("lap complete", "lap", laps)
	}

	logger.Infow("drive complete", "laps", laps, "elapsed", robot.Elapsed().String())
	return printSpeedHistogram(rec.take())
}

func driveLap(ctx context.Context, robot *turtle.Robot, argsParsed Arguments) error {
	if argsParsed.Relative {
		rel := spatialmath.NewPose(1, 0, 0)
		if argsParsed.Goal.isSet {
			rel = argsParsed.Goal.relativePose()
		}
		if err := robot.MoveToRelativePose(ctx, rel); err != nil {
			return err
		}
		return robot.MoveToRelativePose(ctx, spatialmath.Invert(rel))
	}

	goal := motion.NewPoseGoal(1, 1, math.Pi/2)
	if argsParsed.Goal.isSet {
		goal = argsParsed.Goal.goal()
	}
	if err := robot.MoveToPose(ctx, goal); err != nil {
		return err
	}
	return robot.MoveToPose(ctx, motion.NewPoseGoal(0, 0, 0))
}

func printSpeedHistogram(speeds []float64) error {
	if len(speeds) == 0 {
		return nil
	}
	fmt.Println("commanded speed profile (m/s):")
	h := histogram.Hist(9, speeds)
	return histogram.Fprint(os.Stdout, h, histogram.Linear(40))
}
