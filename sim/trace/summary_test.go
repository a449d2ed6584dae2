package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalDecisions != 0 {
		t.Errorf("expected 0 total decisions, got %d", summary.TotalDecisions)
	}
	if summary.AdmittedCount != 0 || summary.BlockedCount != 0 {
		t.Error("expected 0 admitted and blocked")
	}
	if summary.MeanHops != 0 {
		t.Errorf("expected 0 mean hops, got %f", summary.MeanHops)
	}
	if len(summary.ReasonDistribution) != 0 {
		t.Error("expected empty reason distribution")
	}
}

func TestSummarize_NilTrace(t *testing.T) {
	summary := Summarize(nil)
	if summary == nil || summary.TotalDecisions != 0 {
		t.Fatal("expected zero-value summary for nil trace")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with two admissions (1 and 3 hops) and two blocks
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelFull})
	st.RecordOutcome(OutcomeRecord{RequestID: "r1", Admitted: true, Path: []int{0, 1}})
	st.RecordOutcome(OutcomeRecord{RequestID: "r2", Reason: "insufficient-spectrum"})
	st.RecordOutcome(OutcomeRecord{RequestID: "r3", Admitted: true, Path: []int{0, 1, 2, 3}})
	st.RecordOutcome(OutcomeRecord{RequestID: "r4", Reason: "insufficient-spectrum"})
	st.RecordRelease(ReleaseRecord{RequestID: "r1"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalDecisions != 4 {
		t.Errorf("expected 4 total decisions, got %d", summary.TotalDecisions)
	}
	if summary.AdmittedCount != 2 {
		t.Errorf("expected 2 admitted, got %d", summary.AdmittedCount)
	}
	if summary.BlockedCount != 2 {
		t.Errorf("expected 2 blocked, got %d", summary.BlockedCount)
	}
	if summary.ReasonDistribution["insufficient-spectrum"] != 2 {
		t.Errorf("expected 2 insufficient-spectrum, got %d", summary.ReasonDistribution["insufficient-spectrum"])
	}
	if summary.MeanHops != 2 {
		t.Errorf("expected mean hops 2, got %f", summary.MeanHops)
	}
	if summary.ReleasedCount != 1 {
		t.Errorf("expected 1 release, got %d", summary.ReleasedCount)
	}
}
