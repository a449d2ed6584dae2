package workload

import (
	"math/rand"
)

// Sampler draws positive durations in ticks.
type Sampler interface {
	// Sample returns the next value in ticks. Always >= 1.
	Sample(rng *rand.Rand) int64
}

// ExponentialSampler draws exponentially-distributed durations (CV=1). Used
// for both inter-arrival gaps and holding times.
type ExponentialSampler struct {
	meanTicks float64
}

// NewExponentialSampler creates a sampler with the given mean in ticks.
// Panics if mean is not positive.
func NewExponentialSampler(meanTicks float64) *ExponentialSampler {
	if !(meanTicks > 0) {
		panic("ExponentialSampler: mean must be positive")
	}
	return &ExponentialSampler{meanTicks: meanTicks}
}

// Mean returns the configured mean in ticks.
func (s *ExponentialSampler) Mean() float64 { return s.meanTicks }

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	v := rng.ExpFloat64() * s.meanTicks
	if v >= maxTicksFloat {
		return maxTicks
	}
	ticks := int64(v)
	if ticks < 1 {
		return 1
	}
	return ticks
}

const maxTicks = int64(1) << 62

var maxTicksFloat = float64(maxTicks)

// UniformIntSampler draws integers uniformly from [1, max].
type UniformIntSampler struct {
	max int
}

// NewUniformIntSampler panics if max < 1.
func NewUniformIntSampler(max int) *UniformIntSampler {
	if max < 1 {
		panic("UniformIntSampler: max must be >= 1")
	}
	return &UniformIntSampler{max: max}
}

func (s *UniformIntSampler) Sample(rng *rand.Rand) int {
	return 1 + rng.Intn(s.max)
}
