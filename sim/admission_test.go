package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simmonsmoreno/elastic-optical-network/sim/spectrum"
)

// markBusy occupies slots on an edge without going through Put.
func markBusy(c *AdmissionController, edge int, slots ...int) {
	for _, k := range slots {
		c.resources.slots[edge][k] = false
		c.resources.busy++
	}
}

func TestAdmissionController_Put_AdmitsAndReserves(t *testing.T) {
	// GIVEN a 3-node line with 8 slots per fiber
	topo := lineTopology(t, 3, 8, false)
	c := newController(t, topo, spectrum.PolicyFirstFit, 2)
	req := NewRequest("r1", 1, 3, 0, 100, 3)

	// WHEN a 3-slot request from 1 to 3 is decided
	out := c.Put(req)

	// THEN it is admitted over both fibers using the lowest block
	adm, ok := out.(*Admitted)
	require.True(t, ok)
	assert.Same(t, req, adm.Request())
	assert.Equal(t, []int{1, 2, 3}, adm.Path)
	assert.Equal(t, []SlotUse{
		{EdgeID: 0, Slot: 0}, {EdgeID: 0, Slot: 1}, {EdgeID: 0, Slot: 2},
		{EdgeID: 1, Slot: 0}, {EdgeID: 1, Slot: 1}, {EdgeID: 1, Slot: 2},
	}, adm.Slots)
	assert.Equal(t, StateActive, req.State)
	assert.Equal(t, []int{0, 1, 2}, req.Slots())

	// AND exactly one transmitter and one receiver are taken
	res := c.Resources()
	assert.Equal(t, 1, res.TxFree(1))
	assert.Equal(t, 2, res.RxFree(1))
	assert.Equal(t, 2, res.TxFree(3))
	assert.Equal(t, 1, res.RxFree(3))
	assert.Equal(t, 6, res.BusySlots())
	assert.Equal(t, 1, c.ActiveCount())
}

func TestAdmissionController_Put_EnforcesContinuity(t *testing.T) {
	// GIVEN slots 0 and 1 already busy on the second fiber only
	topo := lineTopology(t, 3, 8, false)
	c := newController(t, topo, spectrum.PolicyFirstFit, 10)
	occupy(t, c, "blocker", 2, 3, 2)

	// WHEN a 2-slot request crosses both fibers
	adm := occupy(t, c, "r1", 1, 3, 2)

	// THEN it gets the same indices on both fibers, skipping the busy ones
	assert.Equal(t, []int{2, 3}, adm.Req.Slots())
	for _, u := range adm.Slots {
		assert.Contains(t, []int{2, 3}, u.Slot)
	}
}

func TestAdmissionController_Put_PolicyChoosesBlock(t *testing.T) {
	// GIVEN one fiber whose free slots are [0,2,3,4,5,7,8,9,12,20,21,22]
	free := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 7: true, 8: true, 9: true, 12: true, 20: true, 21: true, 22: true}
	tests := []struct {
		policy string
		want   []int
	}{
		{spectrum.PolicyFirstFit, []int{2, 3, 4}},
		{spectrum.PolicyBestGap, []int{7, 8, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			c := newController(t, lineTopology(t, 2, 23, false), tt.policy, 1)
			for k := 0; k < 23; k++ {
				if !free[k] {
					markBusy(c, 0, k)
				}
			}

			// WHEN a 3-slot request arrives
			adm := occupy(t, c, "r", 1, 2, 3)

			// THEN the policy's block is reserved
			assert.Equal(t, tt.want, adm.Req.Slots())
		})
	}
}

func TestAdmissionController_Put_SingleSlot_LowestFree(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 8, false), spectrum.PolicyBestGap, 4)
	markBusy(c, 0, 0, 1, 5)

	adm := occupy(t, c, "r", 1, 2, 1)

	assert.Equal(t, []int{2}, adm.Req.Slots())
}

func TestAdmissionController_Put_NoPath(t *testing.T) {
	// GIVEN a directed line 1 -> 2 -> 3
	topo := lineTopology(t, 3, 4, false)
	tests := []struct {
		name     string
		src, dst int
	}{
		{"against fiber direction", 3, 1},
		{"unknown destination", 1, 9},
		{"unknown source", 9, 1},
		{"source equals destination", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, topo, "", 1)
			before := c.Resources().Clone()
			req := NewRequest("r", tt.src, tt.dst, 0, 10, 1)

			out := c.Put(req)

			b, ok := out.(*Blocked)
			require.True(t, ok)
			assert.Equal(t, ReasonNoPath, b.Reason)
			assert.Equal(t, StateBlocked, req.State)
			assert.Nil(t, req.Path)
			assert.Equal(t, before, c.Resources(), "blocking must not touch resources")
		})
	}
}

func TestAdmissionController_TwoNodes_SecondOverlappingRequestBlocked(t *testing.T) {
	// GIVEN 2 nodes, one fiber with a single slot, one transceiver per node
	c := newController(t, lineTopology(t, 2, 1, false), "", 1)
	first := occupy(t, c, "first", 1, 2, 1)

	// WHEN a second request overlaps the first in time
	out := c.Put(NewRequest("second", 1, 2, 5, 10, 1))

	// THEN it is blocked on spectrum, which is checked before transceivers
	b, ok := out.(*Blocked)
	require.True(t, ok)
	assert.Equal(t, ReasonInsufficientSpectrum, b.Reason)
	assert.Equal(t, StateActive, first.Req.State)
	assert.Equal(t, 1, c.ActiveCount())
}

func TestAdmissionController_Put_InsufficientTransceivers(t *testing.T) {
	// GIVEN spectrum for two lightpaths but one transceiver per node
	c := newController(t, lineTopology(t, 2, 4, false), "", 1)
	occupy(t, c, "first", 1, 2, 1)
	before := c.Resources().Clone()

	// WHEN a second request arrives
	out := c.Put(NewRequest("second", 1, 2, 0, 10, 1))

	// THEN it is blocked on transceivers and nothing is reserved
	b, ok := out.(*Blocked)
	require.True(t, ok)
	assert.Equal(t, ReasonInsufficientTransceivers, b.Reason)
	assert.Equal(t, before, c.Resources())
}

func TestAdmissionController_Put_ZeroTransceivers_AlwaysBlocks(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 4, false), "", 0)
	out := c.Put(NewRequest("r", 1, 2, 0, 10, 1))
	b, ok := out.(*Blocked)
	require.True(t, ok)
	assert.Equal(t, ReasonInsufficientTransceivers, b.Reason)
}

func TestAdmissionController_Put_DemandAboveCapacity_BlocksForEveryPolicy(t *testing.T) {
	for _, policy := range []string{spectrum.PolicyFirstFit, spectrum.PolicyBestGap} {
		t.Run(policy, func(t *testing.T) {
			c := newController(t, lineTopology(t, 3, 4, false), policy, 10)
			out := c.Put(NewRequest("r", 1, 3, 0, 10, 5))
			b, ok := out.(*Blocked)
			require.True(t, ok)
			assert.Equal(t, ReasonInsufficientSpectrum, b.Reason)
		})
	}
}

func TestAdmissionController_Put_NonPositiveDemand_Blocks(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 4, false), "", 10)
	out := c.Put(NewRequest("r", 1, 2, 0, 10, 0))
	b, ok := out.(*Blocked)
	require.True(t, ok)
	assert.Equal(t, ReasonInsufficientSpectrum, b.Reason)
}

func TestAdmissionController_Put_DecidedRequest_Panics(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 4, false), "", 10)
	req := NewRequest("r", 1, 2, 0, 10, 1)
	c.Put(req)
	assert.Panics(t, func() { c.Put(req) })
}

func TestAdmissionController_Release_RoundTripRestoresState(t *testing.T) {
	// GIVEN a controller with some unrelated traffic
	c := newController(t, lineTopology(t, 4, 6, true), spectrum.PolicyBestGap, 3)
	occupy(t, c, "background", 2, 4, 2)
	before := c.Resources().Clone()

	// WHEN a request is admitted and released at its end time
	req := NewRequest("r", 1, 4, 100, 50, 3)
	_, ok := c.Put(req).(*Admitted)
	require.True(t, ok)
	released := c.Release(req.EndTime())

	// THEN the resource state is identical to before admission
	assert.Equal(t, []*Request{req}, released)
	assert.Equal(t, StateReleased, req.State)
	assert.Equal(t, before, c.Resources())
}

func TestAdmissionController_Release_Boundary(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 4, false), "", 1)
	req := NewRequest("r", 1, 2, 10, 20, 1)
	c.Put(req)

	// one tick before the end time nothing is freed
	assert.Empty(t, c.Release(29))
	assert.Equal(t, 1, c.ActiveCount())

	// at the end time the lightpath leaves
	assert.Equal(t, []*Request{req}, c.Release(30))
	assert.Equal(t, 0, c.ActiveCount())
}

func TestAdmissionController_Release_Twice_NoOp(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 4, false), "", 1)
	req := NewRequest("r", 1, 2, 0, 10, 2)
	c.Put(req)
	c.Release(10)
	after := c.Resources().Clone()

	assert.Empty(t, c.Release(10))
	assert.Empty(t, c.Release(1000))
	assert.Equal(t, after, c.Resources())
	assert.Equal(t, 1, c.Resources().TxFree(1))
	assert.Equal(t, 1, c.Resources().RxFree(2))
}

func TestAdmissionController_Release_KeepsUnexpiredInOrder(t *testing.T) {
	c := newController(t, lineTopology(t, 2, 8, false), "", 10)
	a := NewRequest("a", 1, 2, 0, 30, 1)
	b := NewRequest("b", 1, 2, 0, 10, 1)
	d := NewRequest("d", 1, 2, 0, 50, 1)
	for _, r := range []*Request{a, b, d} {
		c.Put(r)
	}

	assert.Equal(t, []*Request{b}, c.Release(20))
	assert.Equal(t, []*Request{a, d}, c.Active())
}

func TestAdmissionController_Reset_FreesEverything(t *testing.T) {
	c := newController(t, lineTopology(t, 3, 4, false), "", 2)
	fresh := c.Resources().Clone()
	occupy(t, c, "a", 1, 3, 2)
	occupy(t, c, "b", 2, 3, 1)

	released := c.Reset()

	assert.Len(t, released, 2)
	for _, r := range released {
		assert.Equal(t, StateReleased, r.State)
	}
	assert.Equal(t, 0, c.ActiveCount())
	assert.Equal(t, fresh, c.Resources())
}

func TestAdmissionController_RandomOperations_KeepInvariants(t *testing.T) {
	// GIVEN a bidirectional 5-node line and a random sequence of requests
	const slots, transceivers = 6, 3
	topo := lineTopology(t, 5, slots, true)
	rng := rand.New(rand.NewSource(11))

	for _, policy := range []string{spectrum.PolicyFirstFit, spectrum.PolicyBestGap} {
		c := newController(t, topo, policy, transceivers)
		now := int64(0)
		for i := 0; i < 2000; i++ {
			now += int64(rng.Intn(5))
			c.Release(now)
			src := 1 + rng.Intn(5)
			dst := 1 + rng.Intn(5)
			out := c.Put(NewRequest("r", src, dst, now, int64(1+rng.Intn(40)), 1+rng.Intn(4)))

			// THEN busy slots stay within [0, S] per fiber
			res := c.Resources()
			total := 0
			for e := 0; e < topo.NumEdges(); e++ {
				busy := res.BusyOnEdge(e)
				require.GreaterOrEqual(t, busy, 0)
				require.LessOrEqual(t, busy, slots)
				total += busy
			}
			require.Equal(t, total, res.BusySlots())

			// AND transceiver counters stay within [0, capacity]
			for _, id := range topo.NodeIDs() {
				require.GreaterOrEqual(t, res.TxFree(id), 0)
				require.LessOrEqual(t, res.TxFree(id), transceivers)
				require.GreaterOrEqual(t, res.RxFree(id), 0)
				require.LessOrEqual(t, res.RxFree(id), transceivers)
			}

			// AND admitted blocks are consecutive with the requested size
			if adm, ok := out.(*Admitted); ok {
				got := adm.Req.Slots()
				require.Len(t, got, adm.Req.NumSlots)
				for k := 1; k < len(got); k++ {
					require.Equal(t, got[k-1]+1, got[k])
				}
			}
		}
		c.Reset()
		assert.Equal(t, 0, c.Resources().BusySlots())
	}
}
