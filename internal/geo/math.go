package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Coordinate is a geographic point in degrees.
// Longitude lies in [-180, 180], latitude in [-90, 90].
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Radians returns the longitude and latitude converted to radians.
func (c Coordinate) Radians() (lon, lat float64) {
	return c.Lon * math.Pi / 180.0, c.Lat * math.Pi / 180.0
}

// Haversine computes the great-circle distance in kilometers between two
// points given in radians.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	dLon := lon2 - lon1
	dLat := lat2 - lat1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Distance computes the great-circle distance in kilometers between two
// coordinates given in degrees.
func Distance(a, b Coordinate) float64 {
	lon1, lat1 := a.Radians()
	lon2, lat2 := b.Radians()
	return Haversine(lon1, lat1, lon2, lat2)
}
