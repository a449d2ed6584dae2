package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simmonsmoreno/elastic-optical-network/sim"
)

func TestCollector_ObserveOutcome_CountsByResult(t *testing.T) {
	// GIVEN a collector on a private registry
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	// WHEN one admission and two blocks are observed
	snap := sim.Snapshot{Clock: 2 * sim.TicksPerSecond, ActiveLightpaths: 1, BusySlots: 4, TotalSlots: 16}
	c.ObserveOutcome(&sim.Admitted{Req: sim.NewRequest("a", 1, 2, 0, 10, 2)}, snap)
	c.ObserveOutcome(&sim.Blocked{Req: sim.NewRequest("b", 1, 2, 0, 10, 3), Reason: sim.ReasonInsufficientSpectrum}, snap)
	c.ObserveOutcome(&sim.Blocked{Req: sim.NewRequest("c", 1, 2, 0, 10, 1), Reason: sim.ReasonInsufficientSpectrum}, snap)

	// THEN counters and gauges reflect them
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Decisions.WithLabelValues(ResultAdmitted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Decisions.WithLabelValues(string(sim.ReasonInsufficientSpectrum))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ActiveLightpaths))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.BusySlots))
	assert.Equal(t, 0.25, testutil.ToFloat64(c.Utilization))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.SimClock))
}

func TestCollector_ObserveRelease_AddsReleased(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	released := []*sim.Request{sim.NewRequest("a", 1, 2, 0, 10, 1), sim.NewRequest("b", 1, 2, 0, 10, 1)}
	c.ObserveRelease(released, sim.Snapshot{TotalSlots: 8})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Releases))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.ActiveLightpaths))
}

func TestNewCollector_RegisterTwice_ReusesExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	first.Releases.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Releases))
}

func TestCollector_NilReceiver_NoPanic(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveOutcome(&sim.Admitted{Req: sim.NewRequest("a", 1, 2, 0, 10, 1)}, sim.Snapshot{})
		c.ObserveRelease(nil, sim.Snapshot{})
	})
}

func TestCollector_Handler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.ObserveOutcome(&sim.Admitted{Req: sim.NewRequest("a", 1, 2, 0, 10, 1)}, sim.Snapshot{TotalSlots: 1, BusySlots: 1})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `eon_decisions_total{result="admitted"} 1`))
	assert.True(t, strings.Contains(string(body), "eon_spectrum_utilization_ratio 1"))
}
