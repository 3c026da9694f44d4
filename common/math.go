package common

import "math"

// Snap1 rounds to one decimal place, half away from zero.
func Snap1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Snap2 rounds to two decimal places, half away from zero.
func Snap2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
