package telemetry

import "math"

const (
	// EarthRadiusMeters is the mean earth radius used by the haversine formula
	EarthRadiusMeters = 6371000

	// MaxJumpMeters filters GPS glitches: larger moves between fixes are not counted
	MaxJumpMeters = 1000

	// AcquiredAccuracyMeters is the accuracy below which a GPS fix counts as acquired
	AcquiredAccuracyMeters = 50

	// SpeedSmoothingSamples is the moving-average window for speed
	SpeedSmoothingSamples = 10
)

// Distance returns the great-circle distance in meters between two points (degrees)
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(v float64) float64 { return v * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Speed returns m/s for a distance covered over a time delta, 0 when no time passed
func Speed(distanceMeters, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return distanceMeters / seconds
}

// PaceSecPerKm returns pace for a distance and elapsed time, 0 when either is 0
func PaceSecPerKm(distanceMeters, elapsedSec float64) float64 {
	if distanceMeters <= 0 || elapsedSec <= 0 {
		return 0
	}
	return elapsedSec / (distanceMeters / 1000)
}

// PaceFromSpeed converts m/s to sec/km, 0 for a stopped runner
func PaceFromSpeed(speedMps float64) float64 {
	if speedMps <= 0 {
		return 0
	}
	return 1000 / speedMps
}
