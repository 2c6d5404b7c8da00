package snippet

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

//////
// Methods.
//////

// Predict returns the model's posterior mean and variance at each query
// point.
//
// Parameters:
// - items: Full-space parameter vectors (unfiltered). Each must provide
//   every dimension the active filter addresses; the snippet applies the
//   filter before handing them to the model
//
// Returns:
// - means: Predicted score per query, in input order
// - variances: Predictive uncertainty per query, observation noise included
// - err: ErrNotFitted before a successful Train or LoadModel, otherwise a
//   filter or shape failure
//
// Important notes:
// - Output slices have exactly one entry per input, in the same order
// - The model is switched to evaluation mode and stays there
// - Predictions reflect the data and filter as of the last Train or
//   LoadModel; later edits are ignored until a retrain
func (s *Snippet) Predict(items [][]float64) (means, variances []float64, err error) {
	if s.model == nil {
		return nil, nil, ErrNotFitted
	}

	filtered, err := s.applyFilter(items)
	if err != nil {
		return nil, nil, err
	}

	return s.model.Predict(filtered)
}

// PredictOne is Predict for a single point, returning scalars.
func (s *Snippet) PredictOne(item []float64) (mean, variance float64, err error) {
	means, variances, err := s.Predict([][]float64{item})
	if err != nil {
		return 0, 0, err
	}

	return means[0], variances[0], nil
}

// PredictSweep1D predicts along one dimension of the design space: steps
// evenly spaced values from rangeMin to rangeMax (both included) replace
// base[dim] while every other dimension stays fixed at its base value.
//
// Parameters:
// - base: The full-space vector the sweep varies around. Not modified
// - dim: The full-space index of the swept dimension
// - rangeMin, rangeMax: Sweep bounds
// - steps: Number of grid points; must be at least 1. A single step grid
//   collapses to rangeMin
//
// Returns:
// - *SweepResult: The swept values and the prediction at each one
// - error: ErrNotFitted, an out-of-range dim, a non-positive steps, or a
//   filter/shape failure
func (s *Snippet) PredictSweep1D(base []float64, dim int, rangeMin, rangeMax float64, steps int) (*SweepResult, error) {
	if s.model == nil {
		return nil, ErrNotFitted
	}

	if dim < 0 || dim >= len(base) {
		return nil, fmt.Errorf("sweep dimension %d out of range for input with %d dimensions", dim, len(base))
	}

	if steps < 1 {
		return nil, fmt.Errorf("sweep needs at least 1 step, got %d", steps)
	}

	values := make([]float64, steps)
	if steps == 1 {
		values[0] = rangeMin
	} else {
		floats.Span(values, rangeMin, rangeMax)
	}

	items := make([][]float64, steps)

	for i, v := range values {
		item := copyFloats(base)
		item[dim] = v
		items[i] = item
	}

	means, variances, err := s.Predict(items)
	if err != nil {
		return nil, err
	}

	return &SweepResult{Values: values, Means: means, Variances: variances}, nil
}

// PredictSweep1DDefault sweeps dim over the normalized default grid:
// DefaultSweepSteps values across [DefaultSweepMin, DefaultSweepMax].
func (s *Snippet) PredictSweep1DDefault(base []float64, dim int) (*SweepResult, error) {
	return s.PredictSweep1D(base, dim, DefaultSweepMin, DefaultSweepMax, DefaultSweepSteps)
}

// PredictSweepAll1D runs one independent PredictSweep1D per filtered
// dimension, keyed by the swept full-space index. The key set is exactly
// the active filter, so an empty filter yields an empty map.
func (s *Snippet) PredictSweepAll1D(base []float64, rangeMin, rangeMax float64, steps int) (map[int]*SweepResult, error) {
	if s.model == nil {
		return nil, ErrNotFitted
	}

	dims := make(map[int]*SweepResult, len(s.filter))

	for _, dim := range s.filter {
		res, err := s.PredictSweep1D(base, dim, rangeMin, rangeMax, steps)
		if err != nil {
			return nil, err
		}

		dims[dim] = res
	}

	return dims, nil
}

// PredictSweepAll1DDefault is PredictSweepAll1D over the normalized default
// grid.
func (s *Snippet) PredictSweepAll1DDefault(base []float64) (map[int]*SweepResult, error) {
	return s.PredictSweepAll1D(base, DefaultSweepMin, DefaultSweepMax, DefaultSweepSteps)
}
