package advisor

import "math"

var cardinals = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// BearingToCardinal maps a compass bearing in degrees to one of the 8
// cardinal labels. Sectors are 45° wide and centered on each label, so
// anything within 22.5° of due north maps to N. Total over all reals.
func BearingToCardinal(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return cardinals[int((d+22.5)/45)%8]
}

// BlowDirection returns the cardinal the wind comes from and the
// recommended direction to throw snow. Snow goes downwind (the
// reciprocal bearing) so the wind cannot deposit it back.
func BlowDirection(windFromDegrees float64) (from, to string) {
	from = BearingToCardinal(windFromDegrees)
	to = BearingToCardinal(math.Mod(windFromDegrees+180, 360))
	return from, to
}
