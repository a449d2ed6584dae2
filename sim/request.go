// Defines the Request struct that models a single lightpath connection request.
// Tracks endpoints, arrival time, holding duration, slot demand and, once
// admitted, the assigned route and spectrum.

package sim

import (
	"fmt"
)

// RequestState represents the lifecycle state of a lightpath request.
type RequestState string

const (
	StatePending  RequestState = "pending"  // generated, not yet decided
	StateActive   RequestState = "active"   // admitted and holding resources
	StateBlocked  RequestState = "blocked"  // rejected, terminal, no side effects
	StateReleased RequestState = "released" // resources returned, terminal
)

// SlotUse is one reserved spectrum slot on one fiber edge.
type SlotUse struct {
	EdgeID int `json:"edge"`
	Slot   int `json:"slot"`
}

// Request models a lightpath connection request.
// Everything except Path, SlotUsage and State is fixed at creation; Path and
// SlotUsage are written once, on admission.
type Request struct {
	ID string // Unique identifier for the request

	Src         int   // Source node id
	Dst         int   // Destination node id
	ArrivalTime int64 // Timestamp in ticks when the request arrives
	Duration    int64 // Holding time in ticks
	NumSlots    int   // Number of contiguous spectrum slots requested

	State     RequestState // pending, active, blocked, released
	Path      []int        // Assigned node sequence (admitted only)
	SlotUsage []SlotUse    // Assigned (edge, slot) pairs (admitted only)
}

// NewRequest creates a pending request.
func NewRequest(id string, src, dst int, arrival, duration int64, numSlots int) *Request {
	return &Request{
		ID:          id,
		Src:         src,
		Dst:         dst,
		ArrivalTime: arrival,
		Duration:    duration,
		NumSlots:    numSlots,
		State:       StatePending,
	}
}

// EndTime is the tick at which an admitted request releases its resources.
func (req *Request) EndTime() int64 {
	return req.ArrivalTime + req.Duration
}

// Slots returns the distinct slot indices of the assignment in ascending order.
// Spectrum continuity means the same indices are used on every edge.
func (req *Request) Slots() []int {
	if len(req.SlotUsage) == 0 {
		return nil
	}
	first := req.SlotUsage[0].EdgeID
	var out []int
	for _, u := range req.SlotUsage {
		if u.EdgeID == first {
			out = append(out, u.Slot)
		}
	}
	return out
}

// assign records the admission result. It may only be called once.
func (req *Request) assign(path []int, usage []SlotUse) {
	if req.Path != nil || req.SlotUsage != nil {
		panic(fmt.Sprintf("request %s already has an assignment", req.ID))
	}
	req.Path = path
	req.SlotUsage = usage
	req.State = StateActive
}

// This method returns a human-readable string representation of a Request.
func (req Request) String() string {
	return fmt.Sprintf("Request: (ID: %s, %d -> %d, Slots: %d, ArrivalTime: %d, Duration: %d, State: %s)",
		req.ID, req.Src, req.Dst, req.NumSlots, req.ArrivalTime, req.Duration, req.State)
}
