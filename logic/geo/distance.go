package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle (haversine) distance in kilometers
// between two latitude/longitude points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// HaversineSQL renders the same formula as a parameterized SQL fragment
// against the given latitude/longitude columns, for pushing the radius
// filter and the returned distance into the database. The reference point
// is bound as placeholders; args must accompany the expression wherever it
// is used.
func HaversineSQL(latCol, lonCol string, lat, lon float64) (expr string, args []any) {
	a := fmt.Sprintf(
		"power(sin((radians(%s) - radians(?)) / 2.0), 2) + cos(radians(?)) * cos(radians(%s)) * power(sin((radians(%s) - radians(?)) / 2.0), 2)",
		latCol, latCol, lonCol,
	)
	expr = fmt.Sprintf("(%.1f * 2.0 * atan2(sqrt(%s), sqrt(1.0 - (%s))))", earthRadiusKm, a, a)
	args = []any{lat, lat, lon, lat, lat, lon}
	return expr, args
}
