package advisor

// AccumulatedSnowfall sums a window of hourly snowfall samples in
// inches. Gaps contribute zero. Windowing is the caller's concern.
func AccumulatedSnowfall(samples []*float64) float64 {
	total := 0.0
	for _, s := range samples {
		if s != nil {
			total += *s
		}
	}
	return total
}

// ExceedsThreshold reports whether an accumulation total warrants
// snowblowing. The boundary is inclusive: exactly at threshold triggers.
func ExceedsThreshold(total, threshold float64) bool {
	return total >= threshold
}
