package utils

import "math"

const (
	earthRadiusM = 6371000.0

	// MetersPerDegreeLat - длина одного градуса широты в метрах
	MetersPerDegreeLat = earthRadiusM * math.Pi / 180.0
)

// HaversineDistance вычисляет расстояние между двумя точками в метрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// MetersPerDegreeLon - длина одного градуса долготы на заданной широте
func MetersPerDegreeLon(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(lat*math.Pi/180.0)
}

// ValidateCoordinates проверяет валидность координат.
// Точка (0,0) считается мусором из источников, а не реальной координатой.
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	if lat == 0 && lon == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius проверяет валидность радиуса поиска улиц (1 м - 50 км)
func ValidateRadius(radiusM float64) bool {
	return radiusM >= 1 && radiusM <= 50000
}
