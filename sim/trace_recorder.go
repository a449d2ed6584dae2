package sim

import "github.com/simmonsmoreno/elastic-optical-network/sim/trace"

// TraceRecorder is an Observer that copies every outcome and release into a
// trace.SimulationTrace. Nil-safe: a recorder over a disabled trace records
// nothing.
type TraceRecorder struct {
	Trace *trace.SimulationTrace
}

// NewTraceRecorder creates a recorder writing into st.
func NewTraceRecorder(st *trace.SimulationTrace) *TraceRecorder {
	return &TraceRecorder{Trace: st}
}

// ObserveOutcome records one decision.
func (r *TraceRecorder) ObserveOutcome(o Outcome, _ Snapshot) {
	if !r.Trace.Enabled() {
		return
	}
	r.Trace.RecordOutcome(OutcomeRecord(o))
}

// ObserveRelease records released lightpaths.
func (r *TraceRecorder) ObserveRelease(released []*Request, snap Snapshot) {
	if !r.Trace.Enabled() {
		return
	}
	for _, req := range released {
		r.Trace.RecordRelease(trace.ReleaseRecord{
			RequestID: req.ID,
			Clock:     snap.Clock,
			EndTime:   req.EndTime(),
		})
	}
}

// OutcomeRecord flattens an Outcome into its external record form.
func OutcomeRecord(o Outcome) trace.OutcomeRecord {
	req := o.Request()
	rec := trace.OutcomeRecord{
		RequestID:      req.ID,
		Src:            req.Src,
		Dst:            req.Dst,
		ArrivalTime:    req.ArrivalTime,
		Duration:       req.Duration,
		RequestedSlots: req.NumSlots,
	}
	switch o := o.(type) {
	case *Admitted:
		rec.Admitted = true
		rec.Path = append([]int(nil), o.Path...)
		rec.Slots = make([]trace.SlotRecord, len(o.Slots))
		for i, u := range o.Slots {
			rec.Slots[i] = trace.SlotRecord{Edge: u.EdgeID, Slot: u.Slot}
		}
	case *Blocked:
		rec.Reason = string(o.Reason)
	}
	return rec
}
