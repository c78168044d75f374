// Package apportion implements largest-remainder (Hamilton) rounding.
//
// When a precinct's votes are split across census blocks in proportion to
// registration, the shares are fractional. Hamilton rounding floors every
// share and hands the leftover whole votes to the largest remainders, so the
// integer results still sum to the precinct total.
package apportion

import (
	"math"
	"sort"
)

// Hamilton rounds fractional shares to integers preserving their sum.
// NaN shares contribute zero. The result slice is the same length as the
// input; ties on remainder break toward the earlier index so the output is
// deterministic.
func Hamilton(shares []float64) []int64 {
	result := make([]int64, len(shares))
	if len(shares) == 0 {
		return result
	}

	type remainder struct {
		index int
		frac  float64
	}

	remainders := make([]remainder, 0, len(shares))
	var total float64
	var floored int64

	for i, v := range shares {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		f := math.Floor(v)
		result[i] = int64(f)
		floored += int64(f)
		total += v
		remainders = append(remainders, remainder{index: i, frac: v - f})
	}

	// Whole votes left over after flooring.
	leftover := int64(math.Round(total)) - floored
	if leftover <= 0 {
		return result
	}

	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].frac > remainders[j].frac
	})

	for i := int64(0); i < leftover && int(i) < len(remainders); i++ {
		result[remainders[i].index]++
	}
	return result
}

// Sum returns the total of the rounded values, a convenience for
// conservation checks.
func Sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}
