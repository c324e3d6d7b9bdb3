package advisor

import "time"

// Sample is one hourly entry from the provider's time series. Pointer
// fields are nil where the provider reported no value for that hour;
// every computation in this package treats nil as a gap, never an error.
type Sample struct {
	Time        time.Time
	Snowfall    *float64
	WindSpeed   *float64
	WindBearing *float64
}

// Snapshot is one fetched view of current and hourly conditions.
// Immutable once built; the hourly series is ascending in time and
// covers both past and forecast hours.
type Snapshot struct {
	Temperature *float64 // °F, nil when the provider omitted it
	WindSpeed   float64  // mph
	WindBearing float64  // degrees, direction wind comes from
	Snowfall    float64  // instantaneous rate, inches
	Hourly      []Sample
}

// Params are the tunables the advisory depends on.
type Params struct {
	ThresholdInches float64 // accumulation that triggers a blow recommendation
	MaxSafeWindMPH  float64 // above this, snowblowing is not recommended
}
