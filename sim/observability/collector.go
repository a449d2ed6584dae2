// Package observability exposes simulation progress as Prometheus metrics.
// The collector is a read-only sim.Observer: it never touches ResourceState.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simmonsmoreno/elastic-optical-network/sim"
)

// Outcome label values of eon_decisions_total.
const (
	ResultAdmitted = "admitted"
)

// Collector bundles the Prometheus metrics of one simulation process.
type Collector struct {
	gatherer prometheus.Gatherer

	Decisions      *prometheus.CounterVec // labels: result (admitted or block reason)
	Releases       prometheus.Counter
	RequestedSlots prometheus.Histogram

	ActiveLightpaths prometheus.Gauge
	BusySlots        prometheus.Gauge
	Utilization      prometheus.Gauge
	SimClock         prometheus.Gauge
}

var _ sim.Observer = (*Collector)(nil)

// NewCollector registers the simulation metrics against reg, defaulting to
// the global Prometheus registry when nil. Registering twice against the
// same registry reuses the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	decisions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eon_decisions_total",
		Help: "Admission decisions, labeled by result (admitted or the block reason).",
	}, []string{"result"}), "eon_decisions_total")
	if err != nil {
		return nil, err
	}
	releases, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eon_releases_total",
		Help: "Lightpaths released after their holding time.",
	}), "eon_releases_total")
	if err != nil {
		return nil, err
	}
	requested, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "eon_requested_slots",
		Help:    "Slot demand of decided requests.",
		Buckets: prometheus.LinearBuckets(1, 4, 8),
	}), "eon_requested_slots")
	if err != nil {
		return nil, err
	}
	active, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eon_active_lightpaths",
		Help: "Admitted lightpaths not yet released.",
	}), "eon_active_lightpaths")
	if err != nil {
		return nil, err
	}
	busy, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eon_busy_slots",
		Help: "Occupied (edge, slot) pairs across the network.",
	}), "eon_busy_slots")
	if err != nil {
		return nil, err
	}
	util, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eon_spectrum_utilization_ratio",
		Help: "Busy slots over total slots.",
	}), "eon_spectrum_utilization_ratio")
	if err != nil {
		return nil, err
	}
	clock, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eon_simulation_clock_seconds",
		Help: "Simulated time of the last observed event.",
	}), "eon_simulation_clock_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		Decisions:        decisions,
		Releases:         releases,
		RequestedSlots:   requested,
		ActiveLightpaths: active,
		BusySlots:        busy,
		Utilization:      util,
		SimClock:         clock,
	}, nil
}

// ObserveOutcome counts a decision and refreshes the gauges.
func (c *Collector) ObserveOutcome(o sim.Outcome, snap sim.Snapshot) {
	if c == nil {
		return
	}
	result := ResultAdmitted
	if b, ok := o.(*sim.Blocked); ok {
		result = string(b.Reason)
	}
	c.Decisions.WithLabelValues(result).Inc()
	c.RequestedSlots.Observe(float64(o.Request().NumSlots))
	c.setSnapshot(snap)
}

// ObserveRelease counts released lightpaths and refreshes the gauges.
func (c *Collector) ObserveRelease(released []*sim.Request, snap sim.Snapshot) {
	if c == nil {
		return
	}
	c.Releases.Add(float64(len(released)))
	c.setSnapshot(snap)
}

func (c *Collector) setSnapshot(snap sim.Snapshot) {
	c.ActiveLightpaths.Set(float64(snap.ActiveLightpaths))
	c.BusySlots.Set(float64(snap.BusySlots))
	if snap.TotalSlots > 0 {
		c.Utilization.Set(float64(snap.BusySlots) / float64(snap.TotalSlots))
	}
	c.SimClock.Set(sim.TicksToSeconds(snap.Clock))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
