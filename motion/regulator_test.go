package motion

import (
	"math"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/viam-labs/gotopose/spatialmath"
)

// wideOpenConfig leaves enough headroom that commands in unit scale tests are
// never clamped, which keeps the expected values exact.
func wideOpenConfig() Config {
	cfg := DefaultConfig()
	cfg.Limits.MaxLinear = 100
	cfg.Limits.MaxAngular = 100
	return cfg
}

func TestNewRegulatorRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Period = 0
	_, err := NewRegulator(NewPointGoal(1, 0), cfg)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldResemble, "control period must be positive")
}

func TestStepDrivesStraightAtAGoalAhead(t *testing.T) {
	reg, err := NewRegulator(NewPoseGoal(1, 0, 0), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cmd, state := reg.Step(spatialmath.NewZeroPose())
	test.That(t, state, test.ShouldEqual, Driving)
	test.That(t, cmd.Linear, test.ShouldAlmostEqual, 0.5*1)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 0)
}

func TestStepTurnsTowardAGoalToTheSide(t *testing.T) {
	// a goal with a heading steers with both alpha and beta
	reg, err := NewRegulator(NewPoseGoal(0, 1, 0), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cmd, state := reg.Step(spatialmath.NewZeroPose())
	test.That(t, state, test.ShouldEqual, Driving)
	test.That(t, cmd.Linear, test.ShouldAlmostEqual, 0.5*1)
	// alpha is pi/2 and beta is -pi/2, so w = 1.0*(pi/2) + (-0.5)*(-pi/2)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 3*math.Pi/4)
}

func TestStepIgnoresHeadingForPointGoals(t *testing.T) {
	reg, err := NewRegulator(NewPointGoal(0, 1), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cmd, _ := reg.Step(spatialmath.NewZeroPose())
	// the beta compensator contributes nothing, leaving w = 1.0*(pi/2)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, math.Pi/2)
}

func TestStepReversesToAGoalBehind(t *testing.T) {
	reg, err := NewRegulator(NewPoseGoal(-1, 0, 0), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cmd, state := reg.Step(spatialmath.NewZeroPose())
	test.That(t, state, test.ShouldEqual, Driving)
	test.That(t, cmd.Linear, test.ShouldAlmostEqual, -0.5*1)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, 0)
}

func TestStepFlipsBetaFromItsPreFlipValue(t *testing.T) {
	// with the goal behind, beta derives from the unflipped bearing error and
	// is then reflected, so for a goal heading of pi/4 it lands at -pi/4
	reg, err := NewRegulator(NewPoseGoal(-1, 0, math.Pi/4), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cmd, _ := reg.Step(spatialmath.NewZeroPose())
	test.That(t, cmd.Linear, test.ShouldAlmostEqual, -0.5)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, -(1.0*0+(-0.5)*(-math.Pi/4)))
}

func TestStepDoesNotFlipAtExactlyRightAngle(t *testing.T) {
	// a bearing error of exactly pi/2 still drives forward
	reg, err := NewRegulator(NewPointGoal(0, 5), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cmd, _ := reg.Step(spatialmath.NewZeroPose())
	test.That(t, cmd.Linear, test.ShouldAlmostEqual, 0.5*5)
	test.That(t, cmd.Angular, test.ShouldAlmostEqual, math.Pi/2)
}

func TestStepSaturatesSpeed(t *testing.T) {
	cfg := DefaultConfig()

	reg, err := NewRegulator(NewPointGoal(100, 0), cfg)
	test.That(t, err, test.ShouldBeNil)
	cmd, _ := reg.Step(spatialmath.NewZeroPose())
	test.That(t, cmd.Linear, test.ShouldEqual, cfg.Limits.MaxLinear)

	reg, err = NewRegulator(NewPointGoal(-100, 0), cfg)
	test.That(t, err, test.ShouldBeNil)
	cmd, _ = reg.Step(spatialmath.NewZeroPose())
	test.That(t, cmd.Linear, test.ShouldEqual, -cfg.Limits.MaxLinear)

	cfg.Gains.Alpha = 10
	reg, err = NewRegulator(NewPointGoal(0, 1), cfg)
	test.That(t, err, test.ShouldBeNil)
	cmd, _ = reg.Step(spatialmath.NewZeroPose())
	test.That(t, cmd.Angular, test.ShouldEqual, cfg.Limits.MaxAngular)
}

func TestStepEnforcesMinimumSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MinLinear = 0.05

	reg, err := NewRegulator(NewPointGoal(0.02, 0), cfg)
	test.That(t, err, test.ShouldBeNil)
	cmd, state := reg.Step(spatialmath.NewZeroPose())
	test.That(t, state, test.ShouldEqual, Driving)
	test.That(t, cmd.Linear, test.ShouldEqual, 0.05)
}

func TestStepReachesAndGoesTerminal(t *testing.T) {
	reg, err := NewRegulator(NewPoseGoal(0, 0, 0), DefaultConfig())
	test.That(t, err, test.ShouldBeNil)

	// the first in-tolerance tick still returns a real command
	start := spatialmath.NewPose(0.005, -0.005, 0.05)
	cmd, state := reg.Step(start)
	test.That(t, state, test.ShouldEqual, Reached)
	test.That(t, cmd.Linear, test.ShouldNotEqual, 0)

	// after that the regulator only ever commands a stop
	cmd, state = reg.Step(start)
	test.That(t, state, test.ShouldEqual, Reached)
	test.That(t, cmd, test.ShouldResemble, spatialmath.Twist{})
	test.That(t, reg.State(), test.ShouldEqual, Reached)
}

func TestStepExactlyOnGoal(t *testing.T) {
	reg, err := NewRegulator(NewPoseGoal(2, 3, 0.5), DefaultConfig())
	test.That(t, err, test.ShouldBeNil)

	_, state := reg.Step(spatialmath.NewPose(2, 3, 0.5))
	test.That(t, state, test.ShouldEqual, Reached)
}

func TestGoalHeadingIsWrappedOnce(t *testing.T) {
	// a goal heading of 3*pi behaves as pi
	reg, err := NewRegulator(NewPoseGoal(0, 0, 3*math.Pi), DefaultConfig())
	test.That(t, err, test.ShouldBeNil)

	_, state := reg.Step(spatialmath.NewPose(0.005, 0, math.Pi-0.01))
	test.That(t, state, test.ShouldEqual, Reached)
}

func TestHeadingToleranceDoesNotWrap(t *testing.T) {
	// the arrival check compares the raw heading difference, so headings on
	// either side of the pi boundary do not count as arrived
	reg, err := NewRegulator(NewPoseGoal(0, 0, math.Pi), DefaultConfig())
	test.That(t, err, test.ShouldBeNil)

	_, state := reg.Step(spatialmath.NewPose(0, 0, -math.Pi+0.01))
	test.That(t, state, test.ShouldEqual, Driving)
}

func TestRegulatorAccessors(t *testing.T) {
	goal := NewPoseGoal(1, 2, 0.5)
	reg, err := NewRegulator(goal, DefaultConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reg.Goal(), test.ShouldResemble, goal)
	test.That(t, reg.State(), test.ShouldEqual, Driving)
	test.That(t, Driving.String(), test.ShouldEqual, "driving")
	test.That(t, Reached.String(), test.ShouldEqual, "reached")
}

func TestClampMagnitude(t *testing.T) {
	for _, tc := range []struct {
		name          string
		val, min, max float64
		expected      float64
	}{
		{"within range", 0.1, 0, 0.2, 0.1},
		{"above max", 5, 0, 0.2, 0.2},
		{"below min", 0.01, 0.05, 0.2, 0.05},
		{"negative above max", -5, 0, 0.2, -0.2},
		{"negative below min", -0.01, 0.05, 0.2, -0.05},
		{"zero takes reverse min", 0, 0.05, 0.2, -0.05},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, clampMagnitude(tc.val, tc.min, tc.max), test.ShouldAlmostEqual, tc.expected)
		})
	}
}

func TestRegulatorStepIsPeriodIndependentWithPOnlyGains(t *testing.T) {
	// with pure proportional gains the command depends only on the pose, not
	// on how fast the loop runs
	a, err := NewRegulator(NewPoseGoal(1, 1, math.Pi/2), wideOpenConfig())
	test.That(t, err, test.ShouldBeNil)

	cfg := wideOpenConfig()
	cfg.Period = 10 * time.Millisecond
	b, err := NewRegulator(NewPoseGoal(1, 1, math.Pi/2), cfg)
	test.That(t, err, test.ShouldBeNil)

	pose := spatialmath.NewPose(0.2, -0.1, 0.3)
	cmdA, _ := a.Step(pose)
	cmdB, _ := b.Step(pose)
	test.That(t, cmdA.Linear, test.ShouldAlmostEqual, cmdB.Linear)
	test.That(t, cmdA.Angular, test.ShouldAlmostEqual, cmdB.Angular)
}
