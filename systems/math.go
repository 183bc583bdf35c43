// Package systems holds the per-agent rules of the ecosystem: perception,
// steering, feeding, metabolism, reproduction and plant placement.
package systems

import (
	"math"
	"math/rand"
)

// Clamp limits v to [minVal, maxVal].
func Clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// DistanceSq returns the squared distance between two points.
func DistanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Normalize returns the unit vector of (x, y). A zero-length vector is
// divided by 1 instead, yielding the zero vector rather than NaN.
func Normalize(x, y float64) (float64, float64) {
	m := math.Hypot(x, y)
	if m == 0 {
		m = 1
	}
	return x / m, y / m
}

// RandomDirection returns a unit vector at a uniformly random angle.
func RandomDirection(rng *rand.Rand) (float64, float64) {
	a := rng.Float64() * math.Pi * 2
	return math.Cos(a), math.Sin(a)
}

// RandRange returns a uniform value in [minVal, maxVal).
func RandRange(rng *rand.Rand, minVal, maxVal float64) float64 {
	return rng.Float64()*(maxVal-minVal) + minVal
}
