package snippet

import (
	"math/rand"

	"golang.org/x/exp/constraints"
)

//////
// Const, vars, types.
//////

// Status codes carried by TrainResult.Code.
const (
	// StatusOK indicates training completed and the snippet holds a fitted
	// model.
	StatusOK = 0

	// StatusNoTrainingData indicates training was requested on a snippet
	// with an empty example set. No model is created or replaced.
	StatusNoTrainingData = -1
)

// Defaults applied by DefaultTrainingConfig.
const (
	// DefaultTrainingSteps is the fixed number of optimizer iterations per
	// training run.
	DefaultTrainingSteps = 2000

	// DefaultLearningRate is the Adam learning rate.
	DefaultLearningRate = 0.005

	// DefaultLossTolerance is stored for forward compatibility. The training
	// loop always runs the configured number of steps and never reads it.
	DefaultLossTolerance = 1e-5
)

// Defaults applied by the sweep convenience methods
// (PredictSweep1DDefault, PredictSweepAll1DDefault).
const (
	DefaultSweepMin   = 0.0
	DefaultSweepMax   = 1.0
	DefaultSweepSteps = 10
)

// FilterRelTolerance is the relative tolerance used by DeriveFilter when
// deciding whether a parameter dimension is constant across all examples.
const FilterRelTolerance = 1e-5

// Example is a single observation in a snippet's training set: a point in
// the design's parameter space and the score assigned to it.
//
// Fields:
// - Data: The parameter vector. Values are assumed to already be normalized
//   to [0,1] per dimension. All examples in one snippet must have the same
//   vector length by the time the snippet is trained or queried.
// - Score: The observed preference value at that point. Sign is meaningful:
//   PositiveExamples returns the vectors whose score is greater than zero.
//
// The snippet deep copies example vectors on insertion, so callers may reuse
// or mutate their slices after handing them over.
type Example struct {
	// Data is the parameter vector for this observation.
	Data []float64 `json:"data"`

	// Score is the observed value at Data.
	Score float64 `json:"score"`
}

// KernelMode selects the covariance kernel family used by the default model
// backend. The mode is advisory metadata until training time; the fitted
// kernel's learned parameters live in ModelState, not here.
type KernelMode string

const (
	// KernelRBF selects the scaled squared exponential (RBF) kernel.
	// This is the default.
	KernelRBF KernelMode = "RBF"

	// KernelMatern52 selects the scaled Matern 5/2 kernel, which admits
	// rougher functions than RBF.
	KernelMatern52 KernelMode = "Matern52"
)

// ModelState is a portable snapshot of a fitted model's learned parameters:
// parameter name to flattened values. It is the unit of exchange between
// Train (which returns it inside TrainResult) and LoadModel (which restores
// it into a fresh model without re-optimizing).
//
// Round-trip guarantees:
// - ExportState followed by ImportState followed by ExportState yields
//   identical values for every parameter.
// - The map is plain data and survives encoding/json round-trips exactly.
//
// The default backend stores raw (log-space) values for its positive
// parameters so restored models are bit-identical to exported ones.
type ModelState map[string][]float64

// Parameter names used by the default backend's ModelState.
const (
	// StateKeyMean is the learned constant mean offset.
	StateKeyMean = "mean.constant"

	// StateKeyOutputScale is the raw (log-space) kernel output variance.
	StateKeyOutputScale = "kernel.rawOutputScale"

	// StateKeyLengthscale is the raw (log-space) kernel lengthscale.
	StateKeyLengthscale = "kernel.rawLengthscale"

	// StateKeyNoise is the raw (log-space) observation noise variance.
	StateKeyNoise = "likelihood.rawNoise"
)

// Model is the numerical backend behind a snippet: a Gaussian Process (or
// compatible surrogate) over an already-filtered design matrix.
//
// Contract:
// - Fit optimizes the model's parameters against the training data it was
//   constructed with and returns the per-iteration loss history.
// - Predict returns one (mean, variance) pair per input row, in input order.
//   Inputs must already be filtered to the model's width.
// - ExportState/ImportState snapshot and restore learned parameters with
//   exact round-trip fidelity. ImportState never touches optimizer state.
//
// Mode hazard (inherited behavior, by contract): Fit leaves the model in
// training mode; Predict switches it to evaluation mode and does not switch
// back. Callers never need to manage modes directly, but backends must
// tolerate any call order.
//
// Implementations are not safe for concurrent use.
type Model interface {
	// Fit runs the training loop and returns the loss recorded at each
	// iteration, in order.
	Fit(cfg TrainingConfig) ([]float64, error)

	// Predict returns the posterior predictive mean and variance for each
	// input row. Observation noise is folded into the variance.
	Predict(items [][]float64) (means, variances []float64, err error)

	// ExportState snapshots the learned parameters.
	ExportState() ModelState

	// ImportState restores previously exported parameters.
	ImportState(state ModelState) error
}

// ModelFactory constructs a fresh Model around a filtered design matrix x
// (rows are examples) and its target vector y. A snippet calls its factory
// once per Train or LoadModel, so every training run starts from a clean
// model. Substituting the factory swaps the numerical backend without
// touching the rest of the snippet.
type ModelFactory func(x [][]float64, y []float64, mode KernelMode) (Model, error)

// TrainingProgress is a point-in-time view of a running training loop,
// mirroring the values worth watching while the optimizer runs.
type TrainingProgress struct {
	// Iteration is the current iteration number, starting at 1.
	Iteration int

	// TotalIterations is the configured number of iterations.
	TotalIterations int

	// Loss is the training objective at the current parameters, before the
	// optimizer step for this iteration.
	Loss float64

	// Lengthscale is the kernel lengthscale at the current parameters.
	Lengthscale float64

	// Noise is the observation noise variance at the current parameters.
	Noise float64
}

// TrainingConfig controls how a snippet trains its model.
//
// Fields explanation:
// - Steps: Fixed number of optimizer iterations (no early stopping)
// - LearningRate: Adam learning rate
// - LossTolerance: Reserved; stored but never read by the loop
// - AutoFilter: Whether Train re-derives the parameter filter from the data
// - ProgressChan: Optional channel for per-iteration updates
//
// Usage example:
//
//	s := New("sofa-comfort")
//	cfg := DefaultTrainingConfig()
//	cfg.Steps = 500 // Faster, rougher fit.
//	s.SetConfig(cfg)
//
// Performance impact notes:
// - Higher Steps = Better fit but longer runtime; each iteration factorizes
//   an n x n covariance matrix, so cost also grows with the example count
// - LearningRate is per-parameter adapted by Adam, the default rarely needs
//   tuning for normalized inputs
type TrainingConfig struct {
	// Steps determines how many optimizer iterations each training run
	// performs. The loop always runs to completion. Values below 1 fall
	// back to DefaultTrainingSteps.
	Steps int

	// LearningRate is the Adam learning rate. Values at or below 0 fall
	// back to DefaultLearningRate.
	LearningRate float64

	// LossTolerance is reserved for a future convergence check. The
	// training loop stores it and ignores it.
	LossTolerance float64

	// AutoFilter makes Train re-derive the parameter filter from the
	// current example set before fitting. Disabled automatically by
	// SetFilter so explicit filters survive retraining.
	AutoFilter bool

	// ProgressChan receives one TrainingProgress per iteration.
	// If nil, or whenever the channel is full, updates are dropped.
	ProgressChan chan<- TrainingProgress
}

// TrainResult reports the outcome of Train. It is a status object, not an
// error: recoverable training failures (an empty example set) surface here
// with a negative Code, while shape and numerical errors are returned as
// ordinary errors.
type TrainResult struct {
	// State is the fitted model's exported parameters. Nil unless Code is
	// StatusOK.
	State ModelState `json:"state,omitempty"`

	// Kernel is the kernel family the model was fitted with.
	Kernel KernelMode `json:"type,omitempty"`

	// Code is StatusOK on success or a negative status code on failure.
	Code int `json:"code"`

	// Message is a human-readable summary naming the snippet.
	Message string `json:"message"`
}

// SweepResult holds the predictions for a one-dimensional sweep: the swept
// parameter values and the model's mean and variance at each of them, all
// index-aligned.
type SweepResult struct {
	// Values are the swept parameter values, evenly spaced and inclusive of
	// both range endpoints.
	Values []float64 `json:"values"`

	// Means are the posterior predictive means, one per value.
	Means []float64 `json:"mean"`

	// Variances are the posterior predictive variances, one per value, with
	// observation noise folded in.
	Variances []float64 `json:"cov"`
}

// AcquisitionFunc scores how promising a candidate point is from the
// surrogate's prediction at that point. Suggest evaluates one of these per
// candidate and keeps the argmax.
//
// Parameters:
// - mean: The predicted score at the point (higher is better)
// - variance: The predicted variance/uncertainty at that point
// - params: Additional parameters needed by specific acquisition functions
//
// Returns:
// - float64: Acquisition value (higher values indicate more promising points)
//
// Built-in acquisition functions:
// - UCB: Upper Confidence Bound
// - ProbabilityOfImprovement: Probability of beating the best score
// - ExpectedImprovement: Expected magnitude of improvement
// - ThompsonSampling: Random sampling from the posterior
//
// Implementation notes for custom acquisition functions:
// - Should handle edge cases (zero variance, extreme means)
// - Should be deterministic unless randomness is the point (Thompson)
// - Should return higher values for more promising points
// - Must properly use parameters from AcquisitionParams.
type AcquisitionFunc func(mean, variance float64, params AcquisitionParams) float64

// AcquisitionParams holds parameters used by the acquisition functions to
// balance exploring uncertain regions of the design space against exploiting
// regions the surrogate already rates highly.
type AcquisitionParams struct {
	// Beta controls the exploration-exploitation trade-off in the Upper
	// Confidence Bound (UCB) acquisition function.
	// - Higher values (e.g., 3.0 or 5.0) encourage more exploration of
	//   uncertain areas
	// - Lower values (e.g., 0.1 or 0.5) focus on areas already rated highly
	// Typical values range from 0.1 to 5.0, with 2.0 being a good default.
	Beta float64

	// Xi is an exploration parameter used by ProbabilityOfImprovement and
	// ExpectedImprovement. It sets how much improvement over the best
	// observed score a candidate must promise.
	// Typical values range from 0.01 to 0.1.
	Xi float64

	// BestSoFar is the best (highest) score observed so far. Suggest treats
	// the zero value as "no incumbent yet" and raises the field to the best
	// example score before scanning candidates, so manual initialization is
	// only needed when calling acquisition functions directly. Initialize
	// to math.Inf(-1) in that case.
	BestSoFar float64

	// RandomState is the random number generator used by ThompsonSampling.
	//
	// Required initialization:
	// - MUST be initialized using rand.New(rand.NewSource(seed))
	// - Each suggestion run should have its own RandomState
	//
	// Warning:
	// - Do NOT use a nil RandomState with ThompsonSampling.
	RandomState *rand.Rand
}

// SuggestConfig controls the candidate scan performed by Suggest.
//
// Fields explanation:
// - NumCandidates: Number of random candidates scored per call
// - AcquisitionFunc: Strategy for ranking candidates
// - AcqParams: Parameters for the acquisition function
//
// Usage example:
//
//	config := DefaultSuggestConfig()
//	config.NumCandidates = 200
//	config.AcquisitionFunc = ExpectedImprovement
//
// Performance impact notes:
// - Higher NumCandidates = Better suggestions but one surrogate prediction
//   per candidate.
type SuggestConfig struct {
	// NumCandidates determines how many random candidates to consider
	// before returning the best one.
	// Recommended range: 50-500
	NumCandidates int

	// AcquisitionFunc determines the strategy for ranking candidates. See
	// AcquisitionFunc type for built-in options.
	AcquisitionFunc AcquisitionFunc

	// AcqParams holds the parameters for the acquisition function.
	AcqParams AcquisitionParams
}

// ParameterRange defines the valid range for one dimension of the design's
// parameter space when generating suggestion candidates.
//
// Type Parameter:
//   - T: The numeric type for this range (integer or float)
//
// Fields:
// - Min: The minimum (inclusive) value for this dimension
// - Max: The maximum (inclusive) value for this dimension
//
// Usage:
//
//	// Normalized design parameters live in [0,1].
//	ranges := []ParameterRange[float64]{
//	    {Min: 0, Max: 1},
//	    {Min: 0, Max: 1},
//	}
//
// Validation:
// - Min must be less than or equal to Max
// - The range is inclusive of both Min and Max values
type ParameterRange[T constraints.Integer | constraints.Float] struct {
	// Min defines the minimum allowed value (inclusive) for this dimension.
	Min T

	// Max defines the maximum allowed value (inclusive) for this dimension.
	Max T
}
