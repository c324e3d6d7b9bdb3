package advisor

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)

// series builds an ascending hourly series starting at t0.
func series(snow []*float64, wind []*float64, bearing []*float64) []Sample {
	n := len(snow)
	if len(wind) > n {
		n = len(wind)
	}
	if len(bearing) > n {
		n = len(bearing)
	}
	samples := make([]Sample, n)
	for i := range samples {
		samples[i].Time = t0.Add(time.Duration(i) * time.Hour)
		if i < len(snow) {
			samples[i].Snowfall = snow[i]
		}
		if i < len(wind) {
			samples[i].WindSpeed = wind[i]
		}
		if i < len(bearing) {
			samples[i].WindBearing = bearing[i]
		}
	}
	return samples
}

func TestCurrentIndex(t *testing.T) {
	samples := series(make([]*float64, 6), nil, nil)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before series", t0.Add(-time.Hour), 0},
		{"exactly first", t0, 0},
		{"mid series", t0.Add(3*time.Hour + 30*time.Minute), 3},
		{"exactly on sample", t0.Add(4 * time.Hour), 4},
		{"after series", t0.Add(48 * time.Hour), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentIndex(samples, tt.now); got != tt.want {
				t.Errorf("CurrentIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalyzeForecastCrossing(t *testing.T) {
	snow := make([]*float64, 30)
	for i := range snow {
		snow[i] = f(0.5)
	}
	got := AnalyzeForecast(series(snow, nil, nil), t0, 2.0)

	// Cumulative 0.5, 1.0, 1.5, 2.0: threshold reached at index 3.
	if !got.CrossesThreshold {
		t.Fatal("CrossesThreshold = false, want true")
	}
	if got.HoursUntilThreshold != 3 {
		t.Errorf("HoursUntilThreshold = %d, want 3", got.HoursUntilThreshold)
	}
	if !got.WillExceed {
		t.Error("WillExceed = false, want true")
	}
	if got.Accumulation != 12.0 {
		t.Errorf("Accumulation = %v, want 12.0 (24-sample window)", got.Accumulation)
	}
}

func TestAnalyzeForecastNeverCrosses(t *testing.T) {
	snow := []*float64{f(0.1), nil, f(0.2), nil}
	got := AnalyzeForecast(series(snow, nil, nil), t0, 2.0)

	if got.CrossesThreshold {
		t.Errorf("CrossesThreshold = true with only %v inches", got.Accumulation)
	}
	if got.WillExceed {
		t.Error("WillExceed = true, want false")
	}
	if want := 0.1 + 0.2; got.Accumulation != want {
		t.Errorf("Accumulation = %v, want %v", got.Accumulation, want)
	}
}

func TestAnalyzeForecastWind(t *testing.T) {
	wind := []*float64{f(5), nil, f(22.5), f(12)}
	bearing := []*float64{f(350), f(10), nil, nil}
	got := AnalyzeForecast(series(nil, wind, bearing), t0, 2.0)

	if got.PeakWind != 22.5 {
		t.Errorf("PeakWind = %v, want 22.5", got.PeakWind)
	}
	// Arithmetic mean, not circular: (350+10)/2 = 180.
	if got.AvgWindBearing != 180 {
		t.Errorf("AvgWindBearing = %v, want 180", got.AvgWindBearing)
	}
}

func TestAnalyzeForecastEmptyWindow(t *testing.T) {
	got := AnalyzeForecast(nil, t0, 2.0)

	if got.PeakWind != 0 || got.AvgWindBearing != 0 || got.Accumulation != 0 {
		t.Errorf("empty series summary = %+v, want zeroes", got)
	}
	if got.CrossesThreshold || got.WillExceed {
		t.Errorf("empty series flags = %+v, want false", got)
	}
}

func TestAnalyzeForecastWindowStartsAtNow(t *testing.T) {
	// Snow before the current index must not count toward the forecast.
	snow := make([]*float64, 30)
	for i := range snow {
		snow[i] = f(0)
	}
	snow[2] = f(5.0)  // past
	snow[10] = f(1.0) // future
	now := t0.Add(4 * time.Hour)

	got := AnalyzeForecast(series(snow, nil, nil), now, 2.0)
	if got.Accumulation != 1.0 {
		t.Errorf("Accumulation = %v, want 1.0", got.Accumulation)
	}
}
