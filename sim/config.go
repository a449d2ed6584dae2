package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/simmonsmoreno/elastic-optical-network/sim/spectrum"
)

// ErrInvalidConfig is returned by SimConfig.Validate.
var ErrInvalidConfig = errors.New("invalid simulation config")

// TicksPerSecond is the resolution of the simulation clock (1 tick = 1µs).
const TicksPerSecond = 1_000_000

// SimConfig groups the parameters of one simulation run.
// Times are in seconds; the engine converts them with SecondsToTicks.
type SimConfig struct {
	Seed              int64   `yaml:"seed"`
	HorizonSeconds    float64 `yaml:"horizon"`      // 0 = run until the event queue drains
	AvgHoldingSeconds float64 `yaml:"avg_holding"`  // mean lightpath holding time
	Load              float64 `yaml:"load"`         // per-node offered load
	MaxSlots          int     `yaml:"max_slots"`    // slot demand is uniform in [1, MaxSlots]
	MaxRequests       int     `yaml:"max_requests"` // request quota per source node
	Transceivers      int     `yaml:"transceivers"` // tx and rx capacity per node
	Policy            string  `yaml:"policy"`       // "first-fit" (default) or "best-gap"
	Trim              int     `yaml:"trim"`         // samples dropped at each end of the run
}

// DefaultSimConfig returns the parameters of the reference NSFNET study.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Seed:              42,
		AvgHoldingSeconds: 5,
		Load:              0.1,
		MaxSlots:          24,
		MaxRequests:       1000,
		Transceivers:      1000,
		Policy:            spectrum.PolicyFirstFit,
		Trim:              100,
	}
}

// Validate checks the config against a topology of numNodes nodes.
// Every failure wraps ErrInvalidConfig.
func (c SimConfig) Validate(numNodes int) error {
	switch {
	case numNodes < 2:
		return fmt.Errorf("%w: need at least 2 nodes, got %d", ErrInvalidConfig, numNodes)
	case c.HorizonSeconds < 0 || math.IsNaN(c.HorizonSeconds):
		return fmt.Errorf("%w: horizon must be >= 0, got %v", ErrInvalidConfig, c.HorizonSeconds)
	case !(c.AvgHoldingSeconds > 0) || math.IsInf(c.AvgHoldingSeconds, 0):
		return fmt.Errorf("%w: avg_holding must be > 0, got %v", ErrInvalidConfig, c.AvgHoldingSeconds)
	case !(c.Load > 0) || math.IsInf(c.Load, 0):
		return fmt.Errorf("%w: load must be > 0, got %v", ErrInvalidConfig, c.Load)
	case c.MaxSlots < 1:
		return fmt.Errorf("%w: max_slots must be >= 1, got %d", ErrInvalidConfig, c.MaxSlots)
	case c.MaxRequests < 1:
		return fmt.Errorf("%w: max_requests must be >= 1, got %d", ErrInvalidConfig, c.MaxRequests)
	case c.Transceivers < 0:
		return fmt.Errorf("%w: transceivers must be >= 0, got %d", ErrInvalidConfig, c.Transceivers)
	case c.Trim < 0:
		return fmt.Errorf("%w: trim must be >= 0, got %d", ErrInvalidConfig, c.Trim)
	case !spectrum.IsValidPolicy(c.Policy):
		return fmt.Errorf("%w: unknown allocation policy %q", ErrInvalidConfig, c.Policy)
	}
	return nil
}

// HorizonTicks returns the horizon in ticks; an unset horizon is unbounded.
func (c SimConfig) HorizonTicks() int64 {
	if c.HorizonSeconds == 0 {
		return math.MaxInt64
	}
	return SecondsToTicks(c.HorizonSeconds)
}

// SecondsToTicks converts seconds to clock ticks, saturating at MaxInt64.
func SecondsToTicks(s float64) int64 {
	t := s * TicksPerSecond
	if t >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(t)
}

// TicksToSeconds converts clock ticks to seconds.
func TicksToSeconds(t int64) float64 {
	return float64(t) / TicksPerSecond
}
