// Package pacing slows a simulation down to wall-clock speed. It drives the
// simulator from outside through Step, so the engine itself never sleeps.
package pacing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Stepper is the part of sim.Simulator the pacer drives.
type Stepper interface {
	// NextEventTime returns the tick of the next executable event.
	NextEventTime() (int64, bool)
	// Step executes one event; false means nothing was left to execute.
	Step() bool
	// Now returns the current simulated tick.
	Now() int64
}

// Clock abstracts wall time so tests can run without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Pacer maps simulated ticks (one microsecond each) onto wall time, scaled
// by Speed: at Speed 2 one simulated second takes half a real second.
type Pacer struct {
	Speed float64
	clock Clock
}

// New creates a pacer using the wall clock. Speed must be positive.
func New(speed float64) (*Pacer, error) {
	return NewWithClock(speed, wallClock{})
}

// NewWithClock creates a pacer over an arbitrary clock.
func NewWithClock(speed float64, clock Clock) (*Pacer, error) {
	if !(speed > 0) {
		return nil, fmt.Errorf("pacing speed must be > 0, got %v", speed)
	}
	return &Pacer{Speed: speed, clock: clock}, nil
}

// WallDelay returns how long after the start of pacing an event at tick
// should run, given the run started at simulated tick start.
func (p *Pacer) WallDelay(start, tick int64) time.Duration {
	micros := float64(tick-start) / p.Speed
	return time.Duration(micros * float64(time.Microsecond))
}

// Run steps s until it has no executable event left, sleeping before each
// event until its scaled wall-clock time. Returns ctx.Err() if cancelled.
func (p *Pacer) Run(ctx context.Context, s Stepper) error {
	startWall := p.clock.Now()
	startTick := s.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, ok := s.NextEventTime()
		if !ok {
			// let the stepper record that it is done
			s.Step()
			return nil
		}
		due := startWall.Add(p.WallDelay(startTick, next))
		if wait := due.Sub(p.clock.Now()); wait > 0 {
			if err := p.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		} else if wait < -time.Second {
			logrus.Debugf("pacer running %v behind wall clock at tick %d", -wait, next)
		}
		if !s.Step() {
			return nil
		}
	}
}
