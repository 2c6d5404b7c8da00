package snippet

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

//////
// Available acquisition functions for surrogate-guided suggestions.
// Each function helps decide which design to evaluate next by balancing
// exploration (uncertain areas) and exploitation (areas the model already
// rates highly). Scores are maximized throughout.
//////

// UCB implements the Upper Confidence Bound acquisition function.
//
// How it works:
// - Combines the predicted score with the uncertainty (variance)
// - Higher values are better (we're maximizing the score)
// - The Beta parameter controls the trade-off between exploration and
//   exploitation
//
// Parameters:
// - mean: Predicted score at this point
// - variance: Uncertainty in the prediction
// - params.Beta: Exploration weight (higher = more exploration)
//
// When to use:
// - General purpose, works well in most cases
// - When you want direct control over the exploration-exploitation trade-off
//
// Example:
//
//	params := AcquisitionParams{
//	    Beta: 2.0, // Balance between exploration and exploitation.
//	}
//	value := UCB(0.5, 0.2, params)
func UCB(mean, variance float64, params AcquisitionParams) float64 {
	return mean + params.Beta*math.Sqrt(variance)
}

// ProbabilityOfImprovement (PI) calculates the probability that a point
// improves on the best observed score.
//
// How it works:
// - Estimates the probability of beating the current best score
// - Uses a normal distribution assumption
// - Xi adds a minimum improvement requirement
//
// Parameters:
// - mean: Predicted score at this point
// - variance: Uncertainty in the prediction
// - params.BestSoFar: Best score observed so far
// - params.Xi: Minimum improvement desired
//
// When to use:
// - When you want to be conservative in exploring new points
// - When being "probably better" matters more than "how much better"
func ProbabilityOfImprovement(mean, variance float64, params AcquisitionParams) float64 {
	z := (mean - params.BestSoFar - params.Xi) / math.Sqrt(variance)

	return distuv.UnitNormal.CDF(z)
}

// ExpectedImprovement (EI) calculates the expected magnitude of the
// improvement over the best observed score.
//
// How it works:
// - Combines the probability of improvement with its size
// - Often explores better than PI because large possible gains count
//
// Parameters:
// - mean: Predicted score at this point
// - variance: Uncertainty in the prediction
// - params.BestSoFar: Best score observed so far
// - params.Xi: Minimum improvement desired
//
// When to use:
// - Most commonly used acquisition function
// - When the magnitude of improvement matters, not just its probability
func ExpectedImprovement(mean, variance float64, params AcquisitionParams) float64 {
	sigma := math.Sqrt(variance)

	z := (mean - params.BestSoFar - params.Xi) / sigma

	return (mean-params.BestSoFar-params.Xi)*distuv.UnitNormal.CDF(z) + sigma*distuv.UnitNormal.Prob(z)
}

// ThompsonSampling draws a random sample from the posterior at the point and
// uses it as the acquisition value.
//
// How it works:
// - Samples from the model's belief about the score at the point
// - Naturally balances exploration and exploitation through randomness
//
// Parameters:
// - mean: Predicted score at this point
// - variance: Uncertainty in the prediction
// - params.RandomState: Random number generator (required!)
//
// When to use:
// - When you want a simple but effective approach
// - When you want to avoid tuning Beta or Xi
//
// Warning:
// - Always initialize RandomState before using this function.
func ThompsonSampling(mean, variance float64, params AcquisitionParams) float64 {
	return mean + math.Sqrt(variance)*params.RandomState.NormFloat64()
}
