package snippet

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/constraints"
)

//////
// Helper functions.
//////

// copyFloats returns a deep copy of a float vector, so stored data cannot be
// mutated through the caller's slice (and vice versa).
func copyFloats(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)

	return dst
}

// squaredDistance computes the squared Euclidean distance between two
// vectors. Both vectors must have the same length.
func squaredDistance(x1, x2 []float64) float64 {
	var sum float64

	for i := range x1 {
		diff := x1[i] - x2[i]

		sum += diff * diff
	}

	return sum
}

// filterVector returns the sub-vector of item selected by filter, in filter
// order. Fails if the filter addresses a dimension the item does not have.
func filterVector(item []float64, filter []int) ([]float64, error) {
	out := make([]float64, len(filter))

	for i, idx := range filter {
		if idx < 0 || idx >= len(item) {
			return nil, fmt.Errorf("filter index %d out of range for input with %d dimensions", idx, len(item))
		}

		out[i] = item[idx]
	}

	return out, nil
}

// paramsToFloat64s converts a generic parameter vector to float64 for the
// surrogate model.
//
// Important notes:
// - Creates a new slice; doesn't modify the input
// - Preserves order of elements
func paramsToFloat64s[T constraints.Integer | constraints.Float](params []T) []float64 {
	floats := make([]float64, len(params))

	for i, v := range params {
		floats[i] = float64(v)
	}

	return floats
}

// randomParams generates one random candidate within the given per-dimension
// ranges. Builtin integer dimensions draw uniformly over [Min, Max]; float
// dimensions draw uniformly over [Min, Max). Defined numeric types draw as
// float64 and convert back to T.
func randomParams[T constraints.Integer | constraints.Float](rng *rand.Rand, ranges []ParameterRange[T]) []T {
	params := make([]T, len(ranges))

	for i, r := range ranges {
		switch any(r.Min).(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr:
			// For integer types, generate random integer in range
			min := int64(r.Min)
			max := int64(r.Max)
			params[i] = T(min + rng.Int63n(max-min+1))
		default:
			// Floats, plus defined types with a numeric underlying
			// type, generate a random float in range
			min := float64(r.Min)
			max := float64(r.Max)
			params[i] = T(min + rng.Float64()*(max-min))
		}
	}

	return params
}
