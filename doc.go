// Package snippet provides named, trainable surrogates over vector design
// spaces using Gaussian Process regression. A snippet learns a preference
// function from sparse scored examples and answers probabilistic queries
// about unseen designs, so callers can explore a parameter space without
// evaluating every point the hard way.
//
// # Features
//
// The package includes the following key features:
//
//   - Exact GP Regression: Constant mean, scaled RBF or Matern 5/2 kernel
//     and learned observation noise, fit by Adam on the marginal
//     log-likelihood
//   - Dynamic Dimension Filtering: Dimensions constant across the example
//     set are detected and excluded from training and inference
//   - Portable Model State: Fitted parameters export to a plain map that
//     round-trips exactly, including through JSON
//   - Point, Sweep and Full-Sweep Prediction: Posterior mean and variance
//     for single designs, one-dimensional sweeps, and sweeps across every
//     informative dimension
//   - Suggestions: Acquisition functions (UCB, PI, EI, Thompson Sampling)
//     rank random candidates against the fitted surrogate
//   - Progress Monitoring: Per-iteration loss, lengthscale and noise
//     updates via channels
//   - Substitutable Backend: The numerical model sits behind a small
//     interface and factory
//
// # Installation
//
// To install the package, use:
//
//	go get github.com/PeterZhouSZ/DesignAdjectives
//
// # Usage
//
// The life of a snippet is a caller-driven loop: add scored examples, train,
// query, add more examples, retrain.
//
//	s := New("brightness")
//	s.AddExample([]float64{0.1, 0.5}, 1.0)
//	s.AddExample([]float64{0.1, 0.9}, -1.0)
//	s.AddExample([]float64{0.1, 0.2}, 0.3)
//
//	res, err := s.Train()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mean, variance, err := s.PredictOne([]float64{0.1, 0.7})
//
// Training always fits a fresh model with a fixed number of optimizer steps;
// the returned TrainResult carries the fitted state, which LoadModel can
// restore later without re-optimizing:
//
//	restored := New("brightness")
//	err = restored.LoadModel(s.Examples(), res.State)
//
// # Acquisition Functions
//
// Suggest ranks candidate designs with one of four strategies:
//
// 1. Upper Confidence Bound (UCB):
//
//   - Balances exploration and exploitation
//
//   - Controlled by Beta parameter (higher = more exploration)
//
//   - Default choice, works well in most cases
//
//     config := DefaultSuggestConfig() // Uses UCB by default
//     config.AcqParams.Beta = 2.0
//
// 2. Probability of Improvement (PI):
//
//   - Conservative exploration strategy
//
//   - Focuses on small, reliable improvements
//
//     config.AcquisitionFunc = ProbabilityOfImprovement
//     config.AcqParams.Xi = 0.01
//
// 3. Expected Improvement (EI):
//
//   - Balances improvement probability and magnitude
//
//   - Most commonly used in practice
//
//     config.AcquisitionFunc = ExpectedImprovement
//     config.AcqParams.Xi = 0.01
//
// 4. Thompson Sampling:
//
//   - Samples the posterior directly
//
//   - No parameter tuning required
//
//     config.AcquisitionFunc = ThompsonSampling
//     config.AcqParams.RandomState = rand.New(rand.NewSource(time.Now().UnixNano()))
//
// # Configuration
//
// TrainingConfig controls the optimizer:
//
//	type TrainingConfig struct {
//	    Steps         int     // Fixed iteration count (default 2000)
//	    LearningRate  float64 // Adam learning rate (default 0.005)
//	    LossTolerance float64 // Reserved, currently unused
//	    AutoFilter    bool    // Re-derive the filter at Train (default on)
//	    ProgressChan  chan<- TrainingProgress // Optional updates
//	}
//
// Snippets start with DefaultTrainingConfig; adjust through SetConfig.
//
// Recommended settings:
//   - Steps: 500-2000 (more = better fit but longer runtime)
//   - LearningRate: leave at the default for normalized inputs
//   - AutoFilter: leave on unless SetFilter pinned an explicit filter
//
// # Concurrency
//
// A snippet is a plain synchronous object: training blocks until the full
// step count has run and must not be cancelled, and no method is safe for
// concurrent use on the same snippet. Callers serialize access themselves.
// Distinct snippets share nothing and may be used from different goroutines
// freely.
package snippet
