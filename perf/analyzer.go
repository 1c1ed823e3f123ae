package perf

// PerformanceAnalysis summarizes one scenario series: the fastest and
// slowest configurations, the mean, and how much faster the fastest is than
// the slowest.
type PerformanceAnalysis struct {
	BestIndex  int     `json:"best_index"`
	BestLabel  string  `json:"best_label"`
	BestValue  float64 `json:"best_value"`
	WorstIndex int     `json:"worst_index"`
	WorstLabel string  `json:"worst_label"`
	WorstValue float64 `json:"worst_value"`
	// Improvement is the percentage decrease from WorstValue to BestValue.
	Improvement float64 `json:"improvement"`
	AvgValue    float64 `json:"avg_value"`
}

// Analyze computes the summary of a series aligned with labels. It returns
// nil when there is nothing to analyze: an empty series, or one where every
// value is exactly zero. Ties resolve to the first index. Values must be
// finite and non-negative.
func Analyze(labels []string, series []float64) *PerformanceAnalysis {
	if len(series) == 0 || allZero(series) {
		return nil
	}

	var (
		best  int
		worst int
		sum   float64
	)
	for idx, val := range series {
		if val < series[best] {
			best = idx
		}
		if val > series[worst] {
			worst = idx
		}
		sum += val
	}

	out := &PerformanceAnalysis{
		BestIndex:  best,
		BestLabel:  labelAt(labels, best),
		BestValue:  series[best],
		WorstIndex: worst,
		WorstLabel: labelAt(labels, worst),
		WorstValue: series[worst],
		AvgValue:   sum / float64(len(series)),
	}
	if out.WorstValue > 0 {
		out.Improvement = ((out.WorstValue - out.BestValue) / out.WorstValue) * 100
	}

	return out
}

func allZero(series []float64) bool {
	for _, val := range series {
		if val != 0 {
			return false
		}
	}
	return true
}

func labelAt(labels []string, idx int) string {
	if idx < len(labels) {
		return labels[idx]
	}
	return ""
}
