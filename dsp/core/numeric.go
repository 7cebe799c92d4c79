package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [lo, hi].
func Clamp[T Float](value, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}
	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}
	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}
	return diff/largest <= eps
}

// NextPowerOf2 returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Energy returns the sum of squares of x.
func Energy[T Float](x []T) float64 {
	var sum float64
	for _, v := range x {
		f := float64(v)
		sum += f * f
	}
	return sum
}
