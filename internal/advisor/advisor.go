// Package advisor decides when to snowblow and which way to throw the
// snow, from a single weather snapshot. Every function is pure; the
// caller supplies the clock.
package advisor

import "time"

// State is the single recommendation a report carries.
type State string

const (
	// StateBlowNow: accumulation at or above threshold and wind is safe.
	StateBlowNow State = "blow_now"
	// StateWait: accumulation at or above threshold but wind is not safe.
	StateWait State = "wait"
	// StateForecastAlert: below threshold now, forecast to cross it.
	StateForecastAlert State = "forecast_alert"
	// StateAllClear: below threshold and staying there.
	StateAllClear State = "all_clear"
)

// Report is one full advisory. Derived purely from a Snapshot and
// Params; no hidden state.
type Report struct {
	State State `json:"state"`

	Temperature *float64 `json:"temperature,omitempty"` // °F
	WindSpeed   float64  `json:"wind_speed"`
	WindBearing float64  `json:"wind_bearing"`

	WindFrom      string `json:"wind_from"`
	BlowTo        string `json:"blow_to"`
	WindSafe      bool   `json:"wind_safe"`
	WindCondition string `json:"wind_condition"`

	PastAccumulation float64 `json:"past_accumulation"`
	ShouldBlow       bool    `json:"should_blow"`

	ForecastAccumulation float64 `json:"forecast_accumulation"`
	PeakWind             float64 `json:"peak_wind"`
	ForecastWindFrom     string  `json:"forecast_wind_from"`
	ForecastBlowTo       string  `json:"forecast_blow_to"`
	ForecastWindSafe     bool    `json:"forecast_wind_safe"`
	ForecastWillExceed   bool    `json:"forecast_will_exceed"`
	HoursUntilThreshold  *int    `json:"hours_until_threshold,omitempty"`

	ThresholdInches float64 `json:"threshold_inches"`
	MaxSafeWindMPH  float64 `json:"max_safe_wind_mph"`
}

// Evaluate computes a full advisory from one snapshot.
//
// Past accumulation is the trailing 24 hourly samples up to and
// including the current hour. The four states are tested in priority
// order and are mutually exclusive and exhaustive.
func Evaluate(snap Snapshot, p Params, now time.Time) Report {
	var past []*float64
	if len(snap.Hourly) > 0 {
		idx := CurrentIndex(snap.Hourly, now)
		start := idx - ForecastWindowHours
		if start < 0 {
			start = 0
		}
		for _, s := range snap.Hourly[start : idx+1] {
			past = append(past, s.Snowfall)
		}
	}

	r := Report{
		Temperature:     snap.Temperature,
		WindSpeed:       snap.WindSpeed,
		WindBearing:     snap.WindBearing,
		ThresholdInches: p.ThresholdInches,
		MaxSafeWindMPH:  p.MaxSafeWindMPH,
	}

	r.PastAccumulation = AccumulatedSnowfall(past)
	r.ShouldBlow = ExceedsThreshold(r.PastAccumulation, p.ThresholdInches)
	r.WindSafe, r.WindCondition = ClassifyWind(snap.WindSpeed, p.MaxSafeWindMPH)
	r.WindFrom, r.BlowTo = BlowDirection(snap.WindBearing)

	fc := AnalyzeForecast(snap.Hourly, now, p.ThresholdInches)
	r.ForecastAccumulation = fc.Accumulation
	r.PeakWind = fc.PeakWind
	r.ForecastWillExceed = fc.WillExceed
	r.ForecastWindSafe, _ = ClassifyWind(fc.PeakWind, p.MaxSafeWindMPH)
	r.ForecastWindFrom, r.ForecastBlowTo = BlowDirection(fc.AvgWindBearing)
	if fc.CrossesThreshold {
		hours := fc.HoursUntilThreshold
		r.HoursUntilThreshold = &hours
	}

	switch {
	case r.ShouldBlow && r.WindSafe:
		r.State = StateBlowNow
	case r.ShouldBlow:
		r.State = StateWait
	case r.ForecastWillExceed:
		r.State = StateForecastAlert
	default:
		r.State = StateAllClear
	}
	return r
}
