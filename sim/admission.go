package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/simmonsmoreno/elastic-optical-network/sim/spectrum"
	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
)

// AdmissionController decides whether lightpath requests are admitted.
// It owns the ResourceState and is the only code that mutates it; the
// Simulator is its only caller, one event at a time.
type AdmissionController struct {
	topo      *topology.Topology
	resources *ResourceState
	allocator spectrum.Allocator
	active    []*Request // admitted, not yet released, in admission order
}

// NewAdmissionController creates a controller over topo with every node
// holding transceivers transmitters and receivers.
func NewAdmissionController(topo *topology.Topology, allocator spectrum.Allocator, transceivers int) *AdmissionController {
	if allocator == nil {
		allocator = spectrum.NewAllocator("")
	}
	return &AdmissionController{
		topo:      topo,
		resources: NewResourceState(topo, transceivers),
		allocator: allocator,
	}
}

// Topology returns the topology the controller routes over.
func (c *AdmissionController) Topology() *topology.Topology { return c.topo }

// Resources returns the live resource state. Callers must treat it as read-only.
func (c *AdmissionController) Resources() *ResourceState { return c.resources }

// ActiveCount returns the number of admitted, unreleased requests.
func (c *AdmissionController) ActiveCount() int { return len(c.active) }

// Active returns the admitted, unreleased requests in admission order.
func (c *AdmissionController) Active() []*Request {
	return append([]*Request(nil), c.active...)
}

// Put decides a pending request. On admission the request's Path and
// SlotUsage are filled in and resources are reserved; on blocking nothing
// is changed except the request's State.
func (c *AdmissionController) Put(req *Request) Outcome {
	if req.State != StatePending {
		panic("Put called with a request in state " + string(req.State))
	}

	route, err := c.topo.ShortestPath(req.Src, req.Dst)
	if err != nil {
		return c.block(req, ReasonNoPath, err.Error())
	}
	edges, err := c.topo.PathEdges(route)
	if err != nil {
		return c.block(req, ReasonNoPath, err.Error())
	}

	block := c.selectBlock(req.NumSlots, c.resources.commonFree(edges))
	if len(block) != req.NumSlots || req.NumSlots < 1 {
		return c.block(req, ReasonInsufficientSpectrum, "no contiguous block free on every edge of the route")
	}

	// spectrum is only staged here: nothing is written until every check passed
	if !c.resources.hasTransceivers(req.Src, req.Dst) {
		return c.block(req, ReasonInsufficientTransceivers, "no free transmitter at source or receiver at destination")
	}

	usage := make([]SlotUse, 0, len(edges)*len(block))
	for _, e := range edges {
		for _, k := range block {
			usage = append(usage, SlotUse{EdgeID: e, Slot: k})
		}
	}
	c.resources.reserve(req.Src, req.Dst, usage)
	req.assign(route, usage)
	c.active = append(c.active, req)

	logrus.Debugf("admitted %s over %v using slots %v", req.ID, route, block)
	return &Admitted{Req: req, Path: route, Slots: usage}
}

// selectBlock picks n slots from the continuity-constrained candidates.
// A single slot is always the lowest free index.
func (c *AdmissionController) selectBlock(n int, candidates []int) []int {
	if n == 1 {
		if len(candidates) == 0 {
			return nil
		}
		return candidates[:1]
	}
	return c.allocator.Select(n, candidates)
}

func (c *AdmissionController) block(req *Request, reason BlockReason, detail string) *Blocked {
	req.State = StateBlocked
	logrus.Debugf("blocked %s (%d -> %d, %d slots): %s", req.ID, req.Src, req.Dst, req.NumSlots, reason)
	return &Blocked{Req: req, Reason: reason, Detail: detail}
}

// Release frees every active request whose end time is at or before now and
// returns them. Requests are removed from the active set as they are freed,
// so calling Release again with the same now is a no-op.
func (c *AdmissionController) Release(now int64) []*Request {
	var released []*Request
	kept := c.active[:0]
	for _, req := range c.active {
		if req.EndTime() <= now {
			c.resources.restore(req.Src, req.Dst, req.SlotUsage)
			req.State = StateReleased
			released = append(released, req)
			continue
		}
		kept = append(kept, req)
	}
	for i := len(kept); i < len(c.active); i++ {
		c.active[i] = nil
	}
	c.active = kept
	return released
}

// Reset releases every active request unconditionally and restores the
// resource state to all-free. Use it between independent runs.
func (c *AdmissionController) Reset() []*Request {
	released := c.active
	for _, req := range released {
		req.State = StateReleased
	}
	c.active = nil
	c.resources.reset()
	return released
}

