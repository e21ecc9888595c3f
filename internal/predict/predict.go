// Package predict turns raw report input into priority scores using persisted artifacts.
package predict

import (
	"math"
)

// Fallback scores reported alongside an error when a prediction cannot be made.
const (
	EncodedFallbackScore = 0.0
	BatchFallbackScore   = 0.5
)

// Priority levels.
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// Level buckets a score: above 0.7 is High, above 0.4 is Medium, otherwise Low.
func Level(score float64) string {
	switch {
	case score > 0.7:
		return LevelHigh
	case score > 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// InferRain estimates rain from coordinates when the caller has no weather data.
func InferRain(lat, lng float64) bool {
	return math.Abs(math.Sin(lat*lng)) > 0.6
}

// InferTraffic estimates a traffic level in [0, 1] from coordinates.
func InferTraffic(lat, lng float64) float64 {
	return Round(math.Abs(math.Cos(lat+lng)), 2)
}
