package engine

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/dashkit/mel/dataset"
)

// numericValues filters a column down to the cells the numeric
// aggregators operate on: non-null with a finite numeric coercion.
// Numeric text counts; NaN and infinities do not.
func numericValues(cells []dataset.Cell) []float64 {
	var nums []float64
	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		f, ok := c.AsFloat()
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		nums = append(nums, f)
	}
	return nums
}

func sumOf(nums []float64) float64 {
	var s float64
	for _, v := range nums {
		s += v
	}
	return s
}

func meanOf(nums []float64) float64 {
	return sumOf(nums) / float64(len(nums))
}

// stdDevOf is the population standard deviation (divide by N). A single
// observation has no spread, so n == 1 yields 0.
func stdDevOf(nums []float64) float64 {
	if len(nums) == 1 {
		return 0
	}
	m := meanOf(nums)
	var ss float64
	for _, v := range nums {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(nums)))
}

// minOf and maxOf reduce any non-empty ordered slice.
func minOf[T constraints.Ordered](xs []T) T {
	m := xs[0]
	for _, v := range xs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf[T constraints.Ordered](xs []T) T {
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// round4 rounds half away from zero at four decimal places.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func countNonNull(cells []dataset.Cell) int {
	n := 0
	for _, c := range cells {
		if !c.IsNull() {
			n++
		}
	}
	return n
}

// distinctCount keys values by their text form, so a numeric 5 and the
// text "5" collapse into one.
func distinctCount(cells []dataset.Cell) int {
	seen := make(map[string]struct{})
	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		seen[c.AsText()] = struct{}{}
	}
	return len(seen)
}
