// Package control implements the discrete time PID compensators a feedback
// loop is built from.
package control

import (
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// PIDConfig holds the gains and update period of a compensator. The three
// gain slices must share one length; that length is the dimension of the
// error signal the compensator accepts. ScalarPIDConfig covers the common one
// dimensional case.
type PIDConfig struct {
	// Period is the fixed interval between Compute calls.
	Period time.Duration
	Kp     []float64
	Ki     []float64
	Kd     []float64
}

// ScalarPIDConfig returns the config of a one dimensional compensator.
func ScalarPIDConfig(period time.Duration, kp, ki, kd float64) PIDConfig {
	return PIDConfig{
		Period: period,
		Kp:     []float64{kp},
		Ki:     []float64{ki},
		Kd:     []float64{kd},
	}
}

// Validate checks that the config describes a usable compensator.
func (cfg PIDConfig) Validate() error {
	if cfg.Period <= 0 {
		return errors.New("pid update period must be positive")
	}
	if len(cfg.Kp) == 0 {
		return errors.New("pid needs at least one gain per term")
	}
	if len(cfg.Ki) != len(cfg.Kp) || len(cfg.Kd) != len(cfg.Kp) {
		return errors.Errorf(
			"pid gain shapes disagree: kp has %d, ki has %d, kd has %d",
			len(cfg.Kp), len(cfg.Ki), len(cfg.Kd),
		)
	}
	return nil
}

// PID combines proportional, integral and derivative action over a fixed
// period. Each term is the dot product of its gain vector with, respectively,
// the error, the running error sum and the error difference. State accrues
// across Compute calls and there is no reset; a controller is built fresh for
// each task it serves. Not safe for concurrent use.
type PID struct {
	cfg      PIDConfig
	integral []float64
	prevErr  []float64
	scratch  []float64
}

// NewPID returns a compensator with zeroed state.
func NewPID(cfg PIDConfig) (*PID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dim := len(cfg.Kp)
	return &PID{
		cfg:      cfg,
		integral: make([]float64, dim),
		prevErr:  make([]float64, dim),
		scratch:  make([]float64, dim),
	}, nil
}

// Dim returns the dimension of the error signal the compensator accepts.
func (p *PID) Dim() int {
	return len(p.cfg.Kp)
}

// Compute advances the compensator one period and returns the correction for
// the given error signal.
func (p *PID) Compute(errVal ...float64) (float64, error) {
	if len(errVal) != p.Dim() {
		return 0, errors.Errorf("expected an error signal of dimension %d but got %d", p.Dim(), len(errVal))
	}
	dt := p.cfg.Period.Seconds()

	out := floats.Dot(errVal, p.cfg.Kp)

	floats.Add(p.integral, errVal)
	out += dt * floats.Dot(p.integral, p.cfg.Ki)

	floats.SubTo(p.scratch, errVal, p.prevErr)
	out += floats.Dot(p.scratch, p.cfg.Kd) / dt

	copy(p.prevErr, errVal)
	return out, nil
}
