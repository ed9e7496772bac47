// Package geo computes great-circle distances for proximity checks.
package geo

import "math"

// earthRadiusM is the mean Earth radius in meters. Haversine on the
// mean radius is accurate to well under a meter at quest scale; no
// ellipsoidal correction is needed.
const earthRadiusM = 6371000.0

// Completion radii in meters. Token-gated zone quests use the stricter
// radius because the secret token is an additional proof of presence.
const (
	FreeRoamRadiusM = 100.0
	TokenRadiusM    = 25.0
)

// Distance returns the great-circle distance in meters between two
// coordinate pairs, at full precision.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// Within reports whether a distance falls inside a completion radius.
func Within(distanceM, radiusM float64) bool {
	return distanceM < radiusM
}

// Round1 rounds a distance to one decimal place for user-facing output.
func Round1(distanceM float64) float64 {
	return math.Round(distanceM*10) / 10
}
