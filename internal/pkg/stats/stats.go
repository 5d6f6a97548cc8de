// Package stats holds the small numeric kernels shared by the analysis engines.
package stats

import "math"

// Pearson returns the Pearson correlation coefficient of xs and ys.
//
// Degenerate input (length mismatch, fewer than two samples, or a constant
// series on either side) yields 0 rather than NaN so downstream threshold
// comparisons stay well-defined.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
		sumY2 += y * y
	}
	fn := float64(n)
	denX := fn*sumX2 - sumX*sumX
	denY := fn*sumY2 - sumY*sumY
	if denX <= 0 || denY <= 0 {
		return 0
	}
	r := (fn*sumXY - sumX*sumY) / math.Sqrt(denX*denY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	// floating error can push a perfect fit a hair past 1
	return Clamp(r, -1, 1)
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Variance is the population variance; 0 for empty or singleton input.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	var acc float64
	for _, x := range xs {
		d := x - mean
		acc += d * d
	}
	return acc / float64(len(xs))
}

// LinearTrendSlope is the OLS slope of ys against the index 0..n-1.
// Fewer than three points, or a zero denominator, gives 0.
func LinearTrendSlope(ys []float64) float64 {
	n := len(ys)
	if n < 3 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	fn := float64(n)
	den := fn*sumX2 - sumX*sumX
	if den == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / den
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
