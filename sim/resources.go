package sim

import (
	"fmt"

	"github.com/simmonsmoreno/elastic-optical-network/sim/topology"
)

// ResourceState holds per-node transceiver counters and per-fiber slot
// occupancy. Nodes are indexed densely by topology.NodeIndex and fibers by
// edge id, so reserving and releasing never allocates.
//
// Only AdmissionController mutates a ResourceState. Renderers and reports
// read a copy obtained with Clone.
type ResourceState struct {
	topo     *topology.Topology
	capacity int

	txFree []int
	rxFree []int
	slots  [][]bool // slots[edge][index], true = free
	busy   int      // number of occupied (edge, slot) pairs
}

// NewResourceState creates a fully free state: every slot free and every
// node holding transceivers transmitters and receivers.
func NewResourceState(topo *topology.Topology, transceivers int) *ResourceState {
	r := &ResourceState{
		topo:     topo,
		capacity: transceivers,
		txFree:   make([]int, topo.NumNodes()),
		rxFree:   make([]int, topo.NumNodes()),
		slots:    make([][]bool, topo.NumEdges()),
	}
	for i := range r.slots {
		r.slots[i] = make([]bool, topo.SlotCount())
	}
	r.reset()
	return r
}

// reset restores every counter to capacity and every slot to free.
func (r *ResourceState) reset() {
	for i := range r.txFree {
		r.txFree[i] = r.capacity
		r.rxFree[i] = r.capacity
	}
	for _, edge := range r.slots {
		for k := range edge {
			edge[k] = true
		}
	}
	r.busy = 0
}

// TransceiverCapacity returns the configured per-node tx/rx capacity.
func (r *ResourceState) TransceiverCapacity() int { return r.capacity }

// TxFree returns the free transmitters at node id (0 for unknown nodes).
func (r *ResourceState) TxFree(node int) int {
	if i, ok := r.topo.NodeIndex(node); ok {
		return r.txFree[i]
	}
	return 0
}

// RxFree returns the free receivers at node id (0 for unknown nodes).
func (r *ResourceState) RxFree(node int) int {
	if i, ok := r.topo.NodeIndex(node); ok {
		return r.rxFree[i]
	}
	return 0
}

// SlotFree reports whether a slot index on a fiber is free.
func (r *ResourceState) SlotFree(edge, slot int) bool {
	return r.slots[edge][slot]
}

// FreeSlots returns the free slot indices of a fiber in ascending order.
func (r *ResourceState) FreeSlots(edge int) []int {
	var free []int
	for k, ok := range r.slots[edge] {
		if ok {
			free = append(free, k)
		}
	}
	return free
}

// BusyOnEdge returns the number of occupied slots on a fiber.
func (r *ResourceState) BusyOnEdge(edge int) int {
	n := 0
	for _, ok := range r.slots[edge] {
		if !ok {
			n++
		}
	}
	return n
}

// BusySlots returns the total number of occupied (edge, slot) pairs.
func (r *ResourceState) BusySlots() int { return r.busy }

// TotalSlots returns the number of (edge, slot) pairs in the network.
func (r *ResourceState) TotalSlots() int { return len(r.slots) * r.topo.SlotCount() }

// commonFree returns the slot indices free on every listed edge (continuity).
func (r *ResourceState) commonFree(edges []int) []int {
	var free []int
	for k := 0; k < r.topo.SlotCount(); k++ {
		ok := true
		for _, e := range edges {
			if !r.slots[e][k] {
				ok = false
				break
			}
		}
		if ok {
			free = append(free, k)
		}
	}
	return free
}

// hasTransceivers reports whether src can transmit and dst can receive.
func (r *ResourceState) hasTransceivers(src, dst int) bool {
	return r.TxFree(src) > 0 && r.RxFree(dst) > 0
}

// reserve commits a staged assignment. Every slot must be free and both
// endpoints must have a free transceiver; violating that is a bug.
func (r *ResourceState) reserve(src, dst int, usage []SlotUse) {
	si, _ := r.topo.NodeIndex(src)
	di, _ := r.topo.NodeIndex(dst)
	if r.txFree[si] <= 0 || r.rxFree[di] <= 0 {
		panic(fmt.Sprintf("reserve %d -> %d without free transceivers", src, dst))
	}
	for _, u := range usage {
		if !r.slots[u.EdgeID][u.Slot] {
			panic(fmt.Sprintf("slot %d on edge %d is already occupied", u.Slot, u.EdgeID))
		}
	}
	for _, u := range usage {
		r.slots[u.EdgeID][u.Slot] = false
	}
	r.busy += len(usage)
	r.txFree[si]--
	r.rxFree[di]--
}

// restore undoes reserve for an admitted request.
func (r *ResourceState) restore(src, dst int, usage []SlotUse) {
	si, _ := r.topo.NodeIndex(src)
	di, _ := r.topo.NodeIndex(dst)
	for _, u := range usage {
		if r.slots[u.EdgeID][u.Slot] {
			panic(fmt.Sprintf("slot %d on edge %d released twice", u.Slot, u.EdgeID))
		}
		r.slots[u.EdgeID][u.Slot] = true
	}
	r.busy -= len(usage)
	r.txFree[si]++
	r.rxFree[di]++
}

// Clone returns an independent copy for read-only consumers.
func (r *ResourceState) Clone() *ResourceState {
	c := &ResourceState{
		topo:     r.topo,
		capacity: r.capacity,
		txFree:   append([]int(nil), r.txFree...),
		rxFree:   append([]int(nil), r.rxFree...),
		slots:    make([][]bool, len(r.slots)),
		busy:     r.busy,
	}
	for i, edge := range r.slots {
		c.slots[i] = append([]bool(nil), edge...)
	}
	return c
}
