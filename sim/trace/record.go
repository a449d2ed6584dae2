// Package trace provides per-event decision records for post-run analysis
// and external renderers.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// SlotRecord is one reserved (edge, slot) pair.
type SlotRecord struct {
	Edge int `json:"edge"`
	Slot int `json:"slot"`
}

// OutcomeRecord captures a single admission decision.
type OutcomeRecord struct {
	RequestID      string       `json:"request_id"`
	Src            int          `json:"src"`
	Dst            int          `json:"dst"`
	ArrivalTime    int64        `json:"arrival_time"`
	Duration       int64        `json:"duration"`
	RequestedSlots int          `json:"requested_slots"`
	Admitted       bool         `json:"admitted"`
	Path           []int        `json:"path,omitempty"`
	Slots          []SlotRecord `json:"slots,omitempty"`
	Reason         string       `json:"reason,omitempty"`
}

// ReleaseRecord captures a lightpath leaving the network.
type ReleaseRecord struct {
	RequestID string `json:"request_id"`
	Clock     int64  `json:"clock"`
	EndTime   int64  `json:"end_time"`
}
