package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simmonsmoreno/elastic-optical-network/sim/spectrum"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
)

// lineTopology builds 1 -> 2 -> ... -> n with slots per fiber.
func lineTopology(t *testing.T, n, slots int, bidirectional bool) *topology.Topology {
	t.Helper()
	cfg := topology.Config{Slots: slots, Bidirectional: bidirectional}
	for i := 1; i <= n; i++ {
		cfg.Nodes = append(cfg.Nodes, i)
		if i > 1 {
			cfg.Edges = append(cfg.Edges, [2]int{i - 1, i})
		}
	}
	topo, err := topology.New(cfg)
	require.NoError(t, err)
	return topo
}

func newController(t *testing.T, topo *topology.Topology, policy string, transceivers int) *AdmissionController {
	t.Helper()
	return NewAdmissionController(topo, spectrum.NewAllocator(policy), transceivers)
}

// occupy admits a request of n slots from src to dst that never expires
// within the test, failing the test if it is blocked.
func occupy(t *testing.T, c *AdmissionController, id string, src, dst, n int) *Admitted {
	t.Helper()
	out := c.Put(NewRequest(id, src, dst, 0, 1<<40, n))
	adm, ok := out.(*Admitted)
	require.True(t, ok, "expected %s admitted, got %#v", id, out)
	return adm
}
