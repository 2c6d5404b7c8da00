package snippet

import (
	"math"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
)

//////
// Exported functionalities.
//////

// DefaultSuggestConfig returns a default configuration.
func DefaultSuggestConfig() SuggestConfig {
	return SuggestConfig{
		NumCandidates:   50,
		AcquisitionFunc: UCB,
		AcqParams: AcquisitionParams{
			BestSoFar:   math.Inf(-1),
			Beta:        2.0,
			RandomState: rand.New(rand.NewSource(time.Now().UnixNano())),
			Xi:          0.01,
		},
	}
}

// Suggest proposes the next design to evaluate by scanning random
// candidates with the snippet's fitted surrogate and an acquisition
// function.
//
// Type Parameter:
//   - T: The numeric type for parameters (integer or float)
//
// Parameters:
// - s: A fitted snippet (Train or LoadModel must have succeeded)
// - config: SuggestConfig controlling the scan
// - ranges: One ParameterRange per full-space dimension, in dimension order
//
// Returns:
// - []T: The most promising candidate found (same order as ranges)
// - error: ErrNotFitted before training, or a prediction failure
//
// Usage example:
//
//	ranges := []ParameterRange[float64]{
//	    {Min: 0, Max: 1},
//	    {Min: 0, Max: 1},
//	}
//
//	next, err := Suggest(s, DefaultSuggestConfig(), ranges...)
//	if err != nil {
//	    return err
//	}
//
//	// Evaluate next however designs are actually judged, then:
//	s.AddExample(next, observedScore)
//	_, err = s.Train()
//
// How it works:
//  1. Raises AcqParams.BestSoFar to the best score in the example set (the
//     zero value means no incumbent yet)
//  2. Generates NumCandidates random full-space vectors within the ranges
//  3. Predicts each one with the surrogate and scores the prediction with
//     the acquisition function
//  4. Returns the candidate with the highest acquisition value
//
// Important notes:
// - One-shot query: the evaluate-and-retrain half of the loop stays with
//   the caller
// - Candidates pass through the snippet's filter like any other query, so
//   ranges must cover every dimension the filter addresses
// - Quality scales with NumCandidates at one surrogate prediction each
func Suggest[T constraints.Integer | constraints.Float](
	s *Snippet,
	config SuggestConfig,
	ranges ...ParameterRange[T],
) ([]T, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}

	if config.AcquisitionFunc == nil {
		config.AcquisitionFunc = UCB
	}

	numCandidates := config.NumCandidates
	if numCandidates < 1 {
		numCandidates = DefaultSuggestConfig().NumCandidates
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// A zero-value BestSoFar carries no incumbent. Start from -Inf so the
	// refresh below can pick one up from an all-negative example set.
	if config.AcqParams.BestSoFar == 0 {
		config.AcqParams.BestSoFar = math.Inf(-1)
	}

	// Seed the improvement-based strategies with the best observed score.
	for _, score := range s.Scores() {
		if score > config.AcqParams.BestSoFar {
			config.AcqParams.BestSoFar = score
		}
	}

	var (
		bestParams      []T
		bestAcquisition = math.Inf(-1)
	)

	for i := 0; i < numCandidates; i++ {
		candidate := randomParams(rng, ranges)

		mean, variance, err := s.PredictOne(paramsToFloat64s(candidate))
		if err != nil {
			return nil, err
		}

		acquisition := config.AcquisitionFunc(mean, variance, config.AcqParams)

		// Update if this is the most promising candidate so far.
		if bestParams == nil || acquisition > bestAcquisition {
			bestAcquisition = acquisition
			bestParams = candidate
		}
	}

	return bestParams, nil
}
