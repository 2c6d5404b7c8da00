package snippet

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

// modelMode tracks whether a model was last put into training or evaluation
// mode. Fit forces train mode; Predict forces eval mode and does not switch
// back.
type modelMode int

const (
	modeTrain modelMode = iota
	modeEval
)

// choleskyJitter holds the escalating diagonal jitter added when the
// covariance matrix fails to factorize. The zero entry is the plain attempt.
var choleskyJitter = []float64{0, 1e-8, 1e-6, 1e-4}

// exactGP is the default Model: an exact Gaussian Process regressor with a
// learned constant mean, a scaled stationary kernel (RBF or Matern 5/2) and
// homoscedastic Gaussian observation noise.
//
// Parameterization:
// - mean: The constant mean offset, unconstrained
// - rawOutputScale, rawLengthscale, rawNoise: Logs of the kernel output
//   variance, kernel lengthscale and noise variance. The exp transform keeps
//   the learned values positive, and the all-zero initialization starts every
//   training run at unit variance, unit lengthscale and unit noise.
//
// The training objective is the negative marginal log-likelihood of the data
// averaged over the examples, minimized by Adam with analytic gradients.
// Each iteration factorizes the full covariance matrix, so fitting is cubic
// in the number of examples. Design spaces this serves are sparse (tens of
// examples), which keeps that comfortably cheap.
//
// Not safe for concurrent use.
type exactGP struct {
	// x holds the filtered training rows; y the scores. Deep copies, fixed
	// for the model's lifetime.
	x [][]float64
	y []float64

	// width is the number of columns in x. Zero is allowed: with no
	// informative dimensions the model reduces to a constant with noise.
	width int

	kern kernel
	mode modelMode

	// Raw (log-space) parameters. See the type comment.
	mean           float64
	rawOutputScale float64
	rawLengthscale float64
	rawNoise       float64

	// d2 caches the pairwise squared distances between training rows. The
	// kernel matrix is rebuilt from it at every parameter change.
	d2 *mat.SymDense

	// Predictive cache for the current parameters.
	chol       *mat.Cholesky
	alpha      *mat.VecDense
	cacheValid bool
}

//////
// Methods.
//////

// Fit optimizes the model parameters against the training data and returns
// the loss recorded at each iteration.
//
// How it works:
//  1. Puts the model in training mode and resets the parameter cache
//  2. Runs cfg.Steps Adam iterations; each one factorizes the covariance,
//     computes the mean negative marginal log-likelihood and its analytic
//     gradients, records the loss, then steps the raw parameters
//  3. Refactorizes once at the final parameters so predictions are ready
//
// The loop always runs the full number of steps. Progress updates are sent
// per iteration on cfg.ProgressChan when set, and dropped when the channel
// is full.
func (gp *exactGP) Fit(cfg TrainingConfig) ([]float64, error) {
	gp.mode = modeTrain
	gp.cacheValid = false

	steps := cfg.Steps
	if steps < 1 {
		steps = DefaultTrainingSteps
	}

	lr := cfg.LearningRate
	if lr <= 0 {
		lr = DefaultLearningRate
	}

	params := []float64{gp.mean, gp.rawOutputScale, gp.rawLengthscale, gp.rawNoise}
	opt := newAdamOptimizer(lr, len(params))

	losses := make([]float64, 0, steps)

	for i := 0; i < steps; i++ {
		loss, grads, err := gp.nllGrads()
		if err != nil {
			return nil, fmt.Errorf("training iteration %d/%d: %w", i+1, steps, err)
		}

		// Loss is recorded before the step, so the history starts at the
		// initial parameters.
		losses = append(losses, loss)

		if cfg.ProgressChan != nil {
			_, lengthscale, noise := gp.transformed()

			update := TrainingProgress{
				Iteration:       i + 1,
				TotalIterations: steps,
				Loss:            loss,
				Lengthscale:     lengthscale,
				Noise:           noise,
			}

			select {
			case cfg.ProgressChan <- update:
			default:
				// Skip update if channel is full.
			}
		}

		opt.step(params, grads)

		gp.mean = params[0]
		gp.rawOutputScale = params[1]
		gp.rawLengthscale = params[2]
		gp.rawNoise = params[3]
	}

	if err := gp.updateCache(); err != nil {
		return nil, err
	}

	return losses, nil
}

// Predict returns the posterior predictive mean and variance at each input
// row, in input order. Inputs must have the model's width (the filtered
// dimension count). Observation noise is folded into the variance, so even
// a query repeating a training point keeps a positive variance.
func (gp *exactGP) Predict(items [][]float64) ([]float64, []float64, error) {
	gp.mode = modeEval

	if !gp.cacheValid {
		if err := gp.updateCache(); err != nil {
			return nil, nil, err
		}
	}

	outputScale, lengthscale, noise := gp.transformed()
	n := len(gp.y)

	means := make([]float64, len(items))
	variances := make([]float64, len(items))

	kstar := mat.NewVecDense(n, nil)

	var v mat.VecDense

	for qi, q := range items {
		if len(q) != gp.width {
			return nil, nil, fmt.Errorf("input %d has %d dimensions, model expects %d", qi, len(q), gp.width)
		}

		// Covariance between the query and every training row.
		for i, xi := range gp.x {
			kstar.SetVec(i, gp.kern.cov(squaredDistance(q, xi), outputScale, lengthscale))
		}

		if err := gp.chol.SolveVecTo(&v, kstar); err != nil {
			return nil, nil, err
		}

		// Latent variance k** - k*' Kn^-1 k*, clamped at zero against
		// finite-precision undershoot.
		latent := outputScale - mat.Dot(kstar, &v)
		if latent < 0 {
			latent = 0
		}

		means[qi] = gp.mean + mat.Dot(kstar, gp.alpha)
		variances[qi] = latent + noise
	}

	return means, variances, nil
}

// ExportState snapshots the learned parameters. Raw values are exported, so
// an import restores the model bit for bit.
func (gp *exactGP) ExportState() ModelState {
	return ModelState{
		StateKeyMean:        []float64{gp.mean},
		StateKeyOutputScale: []float64{gp.rawOutputScale},
		StateKeyLengthscale: []float64{gp.rawLengthscale},
		StateKeyNoise:       []float64{gp.rawNoise},
	}
}

// ImportState restores previously exported parameters. The model is left
// unchanged if any required parameter is missing. Optimizer state is never
// part of the snapshot; a later Fit starts a fresh optimizer.
func (gp *exactGP) ImportState(state ModelState) error {
	mean, err := stateScalar(state, StateKeyMean)
	if err != nil {
		return err
	}

	outputScale, err := stateScalar(state, StateKeyOutputScale)
	if err != nil {
		return err
	}

	lengthscale, err := stateScalar(state, StateKeyLengthscale)
	if err != nil {
		return err
	}

	noise, err := stateScalar(state, StateKeyNoise)
	if err != nil {
		return err
	}

	gp.mean = mean
	gp.rawOutputScale = outputScale
	gp.rawLengthscale = lengthscale
	gp.rawNoise = noise
	gp.cacheValid = false

	return nil
}

// transformed returns the positive-constrained hyperparameters
// (output variance, lengthscale, noise variance).
func (gp *exactGP) transformed() (outputScale, lengthscale, noise float64) {
	return math.Exp(gp.rawOutputScale), math.Exp(gp.rawLengthscale), math.Exp(gp.rawNoise)
}

// covariance builds Kn = K + noise*I for the current parameters.
func (gp *exactGP) covariance() *mat.SymDense {
	n := len(gp.y)
	outputScale, lengthscale, noise := gp.transformed()

	kn := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := gp.kern.cov(gp.d2.At(i, j), outputScale, lengthscale)
			if i == j {
				v += noise
			}

			kn.SetSym(i, j, v)
		}
	}

	return kn
}

// residual returns y minus the constant mean as a vector.
func (gp *exactGP) residual() *mat.VecDense {
	r := mat.NewVecDense(len(gp.y), nil)

	for i, yi := range gp.y {
		r.SetVec(i, yi-gp.mean)
	}

	return r
}

// nllGrads computes the training objective and its gradient with respect to
// the raw parameters, ordered [mean, rawOutputScale, rawLengthscale,
// rawNoise].
//
// Mathematical details:
// - With r = y - mean and alpha = Kn^-1 r, the objective is
//   (r' alpha + logdet Kn + n log 2pi) / (2n)
// - Every covariance-parameter gradient is sum(A .* dKn/dtheta) / (2n)
//   where A = Kn^-1 - alpha alpha', and the mean gradient is -sum(alpha)/n.
func (gp *exactGP) nllGrads() (float64, []float64, error) {
	n := len(gp.y)
	outputScale, lengthscale, noise := gp.transformed()

	chol, err := factorizeWithJitter(gp.covariance())
	if err != nil {
		return 0, nil, err
	}

	r := gp.residual()

	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, r); err != nil {
		return 0, nil, err
	}

	nf := float64(n)
	loss := (mat.Dot(r, &alpha) + chol.LogDet() + nf*math.Log(2*math.Pi)) / (2 * nf)

	var kinv mat.SymDense
	if err := chol.InverseTo(&kinv); err != nil {
		return 0, nil, err
	}

	var gScale, gLength, gNoiseTrace float64

	for i := 0; i < n; i++ {
		ai := alpha.AtVec(i)

		for j := 0; j < n; j++ {
			a := kinv.At(i, j) - ai*alpha.AtVec(j)
			d2 := gp.d2.At(i, j)

			gScale += a * gp.kern.cov(d2, outputScale, lengthscale)
			gLength += a * gp.kern.dCovDLogLength(d2, outputScale, lengthscale)

			if i == j {
				gNoiseTrace += a
			}
		}
	}

	grads := []float64{
		-floats.Sum(alpha.RawVector().Data) / nf,
		gScale / (2 * nf),
		gLength / (2 * nf),
		noise * gNoiseTrace / (2 * nf),
	}

	return loss, grads, nil
}

// updateCache refactorizes the covariance and recomputes alpha for the
// current parameters. Predictions reuse the cache until the parameters
// change (another Fit or an ImportState).
func (gp *exactGP) updateCache() error {
	chol, err := factorizeWithJitter(gp.covariance())
	if err != nil {
		return err
	}

	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, gp.residual()); err != nil {
		return err
	}

	gp.chol = chol
	gp.alpha = &alpha
	gp.cacheValid = true

	return nil
}

//////
// Factory.
//////

// NewExactGP creates the default Gaussian Process backend around a filtered
// design matrix and its targets. It is the ModelFactory a fresh snippet is
// wired with.
//
// Parameters:
// - x: Filtered training rows, one per example. All rows must have the same
//   length. Zero-width rows are accepted.
// - y: Target scores, one per row.
// - mode: Kernel family tag. Empty selects RBF.
//
// Returns:
// - Model: The untrained model, parameters at their unit initialization
// - error: Shape problems (no rows, ragged rows, row/target count mismatch)
//   or an unknown kernel mode
func NewExactGP(x [][]float64, y []float64, mode KernelMode) (Model, error) {
	if len(x) == 0 {
		return nil, errors.New("exact GP requires at least one training example")
	}

	if len(x) != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows but %d targets", len(x), len(y))
	}

	kern, err := kernelForMode(mode)
	if err != nil {
		return nil, err
	}

	width := len(x[0])

	// Deep copy the training set so later edits to the caller's data cannot
	// shift a fitted model.
	rows := make([][]float64, len(x))

	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("design matrix row %d has %d columns, want %d", i, len(row), width)
		}

		rows[i] = copyFloats(row)
	}

	gp := &exactGP{
		x:     rows,
		y:     copyFloats(y),
		width: width,
		kern:  kern,
		mode:  modeTrain,
	}

	n := len(rows)
	gp.d2 = mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			gp.d2.SetSym(i, j, squaredDistance(rows[i], rows[j]))
		}
	}

	return gp, nil
}

//////
// Helper functions.
//////

// factorizeWithJitter Cholesky-factorizes kn, escalating diagonal jitter on
// failure before giving up.
func factorizeWithJitter(kn *mat.SymDense) (*mat.Cholesky, error) {
	n := kn.SymmetricDim()

	var chol mat.Cholesky

	for _, jitter := range choleskyJitter {
		try := kn

		if jitter > 0 {
			jittered := mat.NewSymDense(n, nil)
			jittered.CopySym(kn)

			for i := 0; i < n; i++ {
				jittered.SetSym(i, i, kn.At(i, i)+jitter)
			}

			try = jittered
		}

		if chol.Factorize(try) {
			return &chol, nil
		}
	}

	return nil, errors.New("covariance matrix is not positive definite")
}

// stateScalar pulls a single-valued parameter out of a ModelState.
func stateScalar(state ModelState, key string) (float64, error) {
	values, ok := state[key]
	if !ok || len(values) == 0 {
		return 0, fmt.Errorf("model state missing parameter %q", key)
	}

	return values[0], nil
}
