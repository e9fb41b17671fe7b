package analytics

import (
	"math"
	"time"
)

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to four decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clampInt(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ratio divides a by b, returning 0 when the result would not be finite.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	r := a / b
	if !isFinite(r) {
		return 0
	}
	return r
}

// LinearFit holds the ordinary least squares line through index positions 0..n-1.
type LinearFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the fitted line at index x.
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// FitLinear computes the least squares trend over the index positions of values.
// Calendar time is ignored so irregular spacing does not distort the slope.
func FitLinear(values []float64) LinearFit {
	n := float64(len(values))
	if n == 0 {
		return LinearFit{}
	}
	if n == 1 {
		return LinearFit{Intercept: values[0]}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return LinearFit{Intercept: sumY / n}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	return LinearFit{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}
}

// daysBetween returns the whole days elapsed from 'from' to 'to', never negative.
func daysBetween(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
