// Tallies admission outcomes and computes the blocking probability with a
// normal-approximation confidence interval.

package sim

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// StatisticsCollector is an Observer that records one sample per admission
// decision: 1 for blocked, 0 for admitted. It never influences decisions.
type StatisticsCollector struct {
	Trim int // samples discarded at each end before estimating

	samples         []float64
	Admitted        int
	Blocked         int
	Released        int
	BlockedByReason map[BlockReason]int
}

// NewStatisticsCollector creates a collector that trims trim samples from
// each end of the run.
func NewStatisticsCollector(trim int) *StatisticsCollector {
	return &StatisticsCollector{
		Trim:            trim,
		BlockedByReason: make(map[BlockReason]int),
	}
}

// ObserveOutcome records a decision.
func (c *StatisticsCollector) ObserveOutcome(o Outcome, _ Snapshot) {
	switch o := o.(type) {
	case *Admitted:
		c.Admitted++
		c.samples = append(c.samples, 0)
	case *Blocked:
		c.Blocked++
		c.BlockedByReason[o.Reason]++
		c.samples = append(c.samples, 1)
	}
}

// ObserveRelease counts released lightpaths.
func (c *StatisticsCollector) ObserveRelease(released []*Request, _ Snapshot) {
	c.Released += len(released)
}

// AddSample appends a raw sample (true = blocked), for replaying known traces.
func (c *StatisticsCollector) AddSample(blocked bool) {
	if blocked {
		c.samples = append(c.samples, 1)
		return
	}
	c.samples = append(c.samples, 0)
}

// Samples returns all recorded samples in decision order.
func (c *StatisticsCollector) Samples() []float64 {
	return append([]float64(nil), c.samples...)
}

// TrimmedSamples returns the samples left after dropping Trim from each end.
func (c *StatisticsCollector) TrimmedSamples() []float64 {
	if c.Trim < 0 || 2*c.Trim >= len(c.samples) {
		return nil
	}
	return c.samples[c.Trim : len(c.samples)-c.Trim]
}

// BlockingProbability is the mean of the trimmed samples. ok is false when
// trimming leaves nothing to average.
func (c *StatisticsCollector) BlockingProbability() (p float64, ok bool) {
	xs := c.TrimmedSamples()
	if len(xs) == 0 {
		return 0, false
	}
	return stat.Mean(xs, nil), true
}

// ConfidenceInterval returns the normal-approximation interval for the
// blocking probability at the given confidence level (e.g. 0.95), clipped
// to [0, 1].
func (c *StatisticsCollector) ConfidenceInterval(confidence float64) (lo, hi float64, ok bool) {
	p, ok := c.BlockingProbability()
	if !ok || confidence <= 0 || confidence >= 1 {
		return 0, 0, false
	}
	n := float64(len(c.TrimmedSamples()))
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	half := z * math.Sqrt(p*(1-p)/n)
	return math.Max(0, p-half), math.Min(1, p+half), true
}

// Summary is the end-of-run aggregate.
type Summary struct {
	Admitted            int
	Blocked             int
	Released            int
	BlockedByReason     map[BlockReason]int
	SamplesUsed         int
	BlockingProbability float64
	Confidence          float64
	CILow               float64
	CIHigh              float64
	Valid               bool // false when trimming left no samples
}

// Summarize computes the aggregate at the given confidence level.
func (c *StatisticsCollector) Summarize(confidence float64) Summary {
	s := Summary{
		Admitted:        c.Admitted,
		Blocked:         c.Blocked,
		Released:        c.Released,
		BlockedByReason: make(map[BlockReason]int, len(c.BlockedByReason)),
		SamplesUsed:     len(c.TrimmedSamples()),
		Confidence:      confidence,
	}
	for k, v := range c.BlockedByReason {
		s.BlockedByReason[k] = v
	}
	s.BlockingProbability, s.Valid = c.BlockingProbability()
	if s.Valid {
		s.CILow, s.CIHigh, _ = c.ConfidenceInterval(confidence)
	}
	return s
}

// Print writes the summary in the simulator's report format.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Blocking Statistics ===")
	fmt.Fprintf(w, "Admitted Requests    : %d\n", s.Admitted)
	fmt.Fprintf(w, "Blocked Requests     : %d\n", s.Blocked)
	reasons := make([]string, 0, len(s.BlockedByReason))
	for r := range s.BlockedByReason {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "  %-25s: %d\n", r, s.BlockedByReason[BlockReason(r)])
	}
	fmt.Fprintf(w, "Released Lightpaths  : %d\n", s.Released)
	if !s.Valid {
		fmt.Fprintln(w, "Blocking Probability : n/a (no samples left after trimming)")
		return
	}
	fmt.Fprintf(w, "Samples Used         : %d\n", s.SamplesUsed)
	fmt.Fprintf(w, "Blocking Probability : %.4f\n", s.BlockingProbability)
	fmt.Fprintf(w, "%.0f%% Conf. Interval  : [%.4f, %.4f]\n", s.Confidence*100, s.CILow, s.CIHigh)
}
