package sim

// Snapshot is a read-only view of the simulation taken right after a
// decision or release.
type Snapshot struct {
	Clock            int64
	ActiveLightpaths int
	BusySlots        int
	TotalSlots       int
}

// Observer receives every admission outcome and every release.
// Observers must not call back into the AdmissionController.
type Observer interface {
	ObserveOutcome(o Outcome, snap Snapshot)
	ObserveRelease(released []*Request, snap Snapshot)
}
