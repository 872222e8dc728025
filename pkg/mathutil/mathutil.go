// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/population-forecast/pkg/constants"
)

// RoundToWhole rounds a value to the nearest whole individual.
// Used wherever fractional persons leave the model.
func RoundToWhole(val float64) int {
	return int(math.Round(val))
}

// RoundNonNegative rounds a value to the nearest whole individual and
// floors the result at zero. Population counts are never negative.
func RoundNonNegative(val float64) int {
	n := RoundToWhole(val)
	if n < 0 {
		return 0
	}
	return n
}

// ClampProbability clamps a value into the valid probability range [0, 1].
func ClampProbability(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinCountTolerance checks if two counts derived from floating-point
// arithmetic agree up to rounding.
func WithinCountTolerance(val1, val2 float64) bool {
	return WithinTolerance(val1, val2, constants.CountTolerance)
}

// SumInts returns the sum of an integer series.
func SumInts(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

// SumFloats returns the sum of a float series.
func SumFloats(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
