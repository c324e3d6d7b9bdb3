package advisor

import (
	"math"
	"sort"
)

// Wind condition labels, coarsest summary of snowblowing comfort.
const (
	WindExcellent = "Excellent - calm conditions"
	WindGood      = "Good - light winds"
	WindFair      = "Fair - moderate winds, exercise caution"
	WindTooStrong = "Too windy - snow will blow back, wait for calmer conditions"
	WindDangerous = "Dangerous - high winds, do not snowblow"
)

type windBand struct {
	max   float64 // inclusive upper bound in mph
	safe  bool
	label string
}

// ClassifyWind buckets a wind speed into one of five bands and reports
// whether snowblowing is safe. The bands are sorted by ascending upper
// bound before lookup so a configured maxSafe below 15 or above 35
// collapses bands instead of leaving speeds unclassifiable.
func ClassifyWind(speed, maxSafe float64) (safe bool, label string) {
	bands := []windBand{
		{max: 10, safe: true, label: WindExcellent},
		{max: 15, safe: true, label: WindGood},
		{max: maxSafe, safe: true, label: WindFair},
		{max: 35, safe: false, label: WindTooStrong},
		{max: math.Inf(1), safe: false, label: WindDangerous},
	}
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].max < bands[j].max })

	for _, b := range bands {
		if speed <= b.max {
			return b.safe, b.label
		}
	}
	// Unreachable: the last band is unbounded.
	return false, WindDangerous
}
