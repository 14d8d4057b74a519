package telemetry

import (
	"fmt"
	"math"

	"runcoach/internal/config"
)

const (
	metersPerMile = 1609.34
	metersPerKm   = 1000.0
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.2f mi", meters/metersPerMile)
	}
	return fmt.Sprintf("%.2f km", meters/metersPerKm)
}

// FormatPace formats a pace given in sec/km in the user's preferred unit
func (u Units) FormatPace(secPerKm float64) string {
	if secPerKm <= 0 || math.IsNaN(secPerKm) || math.IsInf(secPerKm, 0) {
		return "-"
	}

	paceSeconds := secPerKm
	if u.cfg.PaceUnit == "min/mi" {
		paceSeconds = secPerKm * metersPerMile / metersPerKm
	}

	total := int(math.Round(paceSeconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatPaceWithUnit formats pace with the unit label
func (u Units) FormatPaceWithUnit(secPerKm float64) string {
	pace := u.FormatPace(secPerKm)
	if pace == "-" {
		return pace
	}
	if u.cfg.PaceUnit == "min/mi" {
		return pace + "/mi"
	}
	return pace + "/km"
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}

// PaceLabel returns the pace unit label ("min/mi" or "min/km")
func (u Units) PaceLabel() string {
	if u.cfg.PaceUnit == "min/mi" {
		return "min/mi"
	}
	return "min/km"
}

// ConvertPaceSeries converts sec/km paces to minutes in the user's pace unit, for charts
func (u Units) ConvertPaceSeries(secPerKm []float64) []float64 {
	converted := make([]float64, len(secPerKm))
	for i, p := range secPerKm {
		if p <= 0 {
			continue
		}
		if u.cfg.PaceUnit == "min/mi" {
			p = p * metersPerMile / metersPerKm
		}
		converted[i] = p / 60
	}
	return converted
}

// FormatClock formats seconds as MM:SS, or H:MM:SS past the hour
func FormatClock(totalSeconds float64) string {
	if totalSeconds < 0 || math.IsNaN(totalSeconds) || math.IsInf(totalSeconds, 0) {
		totalSeconds = 0
	}
	s := int(totalSeconds)
	hours := s / 3600
	minutes := (s % 3600) / 60
	seconds := s % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
