// Package geo holds the pure geolocation and calendar helpers consumed by
// the reporting views.
package geo

import (
	"math"
	"time"

	"github.com/mealhub/delivery-backend/internal/apperr"
)

// EarthRadiusKm is Earth's radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const dateLayout = "2006-01-02"

// HaversineKm calculates the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DayRange resolves two timezone-naive calendar dates ("2006-01-02") into
// the inclusive interval [start of from-day, end of to-day] in UTC.
func DayRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, from, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid date range")
	}
	endDay, err := time.ParseInLocation(dateLayout, to, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid date range")
	}
	end := endDay.Add(24*time.Hour - time.Millisecond)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validation("invalid date range")
	}
	return start, end, nil
}

// DayKey buckets a timestamp into its UTC calendar date string.
func DayKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
