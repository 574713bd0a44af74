package utils

import "math"

// MaxAmount is the largest value a numeric(10,2) money column holds.
const MaxAmount = 99999999.99

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// WholeCents reports whether v has no digits past the second decimal place.
func WholeCents(v float64) bool {
	return RoundCents(v) == v
}
