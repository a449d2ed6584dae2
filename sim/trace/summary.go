package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	AdmittedCount      int
	BlockedCount       int
	ReleasedCount      int
	MeanHops           float64        // mean route length of admitted requests
	ReasonDistribution map[string]int // block reason → count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ReasonDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Outcomes)
	totalHops := 0
	for _, o := range st.Outcomes {
		if o.Admitted {
			summary.AdmittedCount++
			if len(o.Path) > 1 {
				totalHops += len(o.Path) - 1
			}
			continue
		}
		summary.BlockedCount++
		summary.ReasonDistribution[o.Reason]++
	}
	if summary.AdmittedCount > 0 {
		summary.MeanHops = float64(totalHops) / float64(summary.AdmittedCount)
	}
	summary.ReleasedCount = len(st.Releases)

	return summary
}
