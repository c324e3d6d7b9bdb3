package advisor

import "time"

// ForecastWindowHours is how far ahead the forecast summary looks.
const ForecastWindowHours = 24

// ForecastSummary condenses the forward window of an hourly series.
type ForecastSummary struct {
	Accumulation float64 // inches expected over the window
	PeakWind     float64 // mph, 0 when the window has no wind samples
	// AvgWindBearing is the arithmetic mean of the window's bearings,
	// 0 when there are none. Not a circular mean, so it is wrong near
	// the 0/360 boundary (350° and 10° average to 180°); kept to match
	// the established behavior.
	AvgWindBearing      float64
	HoursUntilThreshold int  // offset into the window where the running sum first reaches threshold
	CrossesThreshold    bool // false when the running sum never reaches threshold; HoursUntilThreshold is meaningless then
	WillExceed          bool // total window accumulation reaches threshold
}

// CurrentIndex returns the index of the last sample at or before now.
// The series is assumed ascending; if every sample is in the future the
// first index is used.
func CurrentIndex(samples []Sample, now time.Time) int {
	idx := 0
	for i, s := range samples {
		if s.Time.After(now) {
			break
		}
		idx = i
	}
	return idx
}

// AnalyzeForecast summarizes the next ForecastWindowHours samples
// starting at the current index.
func AnalyzeForecast(samples []Sample, now time.Time, threshold float64) ForecastSummary {
	start := CurrentIndex(samples, now)
	end := start + ForecastWindowHours
	if end > len(samples) {
		end = len(samples)
	}
	window := samples[start:end]

	var sum ForecastSummary
	bearingTotal := 0.0
	bearingCount := 0
	cumulative := 0.0

	for i, s := range window {
		if s.Snowfall != nil {
			sum.Accumulation += *s.Snowfall
			cumulative += *s.Snowfall
			if !sum.CrossesThreshold && cumulative >= threshold {
				sum.CrossesThreshold = true
				sum.HoursUntilThreshold = i
			}
		}
		if s.WindSpeed != nil && *s.WindSpeed > sum.PeakWind {
			sum.PeakWind = *s.WindSpeed
		}
		if s.WindBearing != nil {
			bearingTotal += *s.WindBearing
			bearingCount++
		}
	}

	if bearingCount > 0 {
		sum.AvgWindBearing = bearingTotal / float64(bearingCount)
	}
	sum.WillExceed = ExceedsThreshold(sum.Accumulation, threshold)
	return sum
}
