package optimizer

import "math"

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// Point is a geographic location handed to the optimizer by the caller.
type Point struct {
	ID  string
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance in whole meters between two
// coordinates given in degrees. The result is truncated toward zero.
//
// Coordinates are assumed valid and finite; range checks belong to the caller.
func Distance(lat1, lon1, lat2, lon2 float64) int {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := φ2 - φ1
	Δλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return int(c * EarthRadiusKm * 1000)
}

// PointDistance is Distance applied to two points.
func PointDistance(a, b Point) int {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}
