package helpers

import "math"

// Round2 normalizes a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round6 normalizes an exchange rate to 6 decimal places.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
