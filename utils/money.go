package utils

import "math"

// Round2 rounds x to 2 decimal places (half away from zero).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SameAmount reports whether a and b print as the same rupee amount.
func SameAmount(a, b float64) bool {
	return Round2(a) == Round2(b)
}
