package systems

import "math"

// Fast math functions for the per-particle loops.
// These avoid float32->float64 conversions that Go's math package requires.

const twoPi = 2 * math.Pi

// wrapAngle maps x into [-π, π].
func wrapAngle(x float32) float32 {
	if x >= -math.Pi && x <= math.Pi {
		return x
	}
	return x - twoPi*float32(math.Floor(float64((x+math.Pi)/twoPi)))
}

// wrapPhase reduces a float64 phase before it is narrowed to float32, so
// long-running clocks keep their precision.
func wrapPhase(x float64) float32 {
	return float32(math.Mod(x, twoPi))
}

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func fastSin(x float32) float32 {
	x = wrapAngle(x)
	// Parabola approximation with correction factor
	const pi = math.Pi
	const pi2 = pi * pi
	y := 4 * x * (pi - absf(x)) / pi2
	return 0.225*(y*absf(y)-y) + y
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
