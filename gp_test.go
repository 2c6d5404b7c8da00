package snippet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampModel returns a model fitted to noiseless monotone data on [0, 1].
func rampModel(t *testing.T, steps int) Model {
	t.Helper()

	x := [][]float64{{0.0}, {0.25}, {0.5}, {0.75}, {1.0}}
	y := []float64{0.0, 0.25, 0.5, 0.75, 1.0}

	model, err := NewExactGP(x, y, KernelRBF)
	require.NoError(t, err)

	cfg := DefaultTrainingConfig()
	cfg.Steps = steps

	_, err = model.Fit(cfg)
	require.NoError(t, err)

	return model
}

func TestNewExactGPValidation(t *testing.T) {
	_, err := NewExactGP(nil, nil, KernelRBF)
	assert.Error(t, err)

	_, err = NewExactGP([][]float64{{0.1}}, []float64{1, 2}, KernelRBF)
	assert.Error(t, err)

	_, err = NewExactGP([][]float64{{0.1}, {0.2, 0.3}}, []float64{1, 2}, KernelRBF)
	assert.Error(t, err)

	_, err = NewExactGP([][]float64{{0.1}}, []float64{1}, "periodic")
	assert.Error(t, err)
}

func TestFitLossHistory(t *testing.T) {
	model, err := NewExactGP([][]float64{{0.1}, {0.5}, {0.9}}, []float64{0.0, 1.0, 0.2}, KernelRBF)
	require.NoError(t, err)

	cfg := DefaultTrainingConfig()
	cfg.Steps = 150

	losses, err := model.Fit(cfg)
	require.NoError(t, err)

	// One loss per iteration, and the optimizer actually improves it.
	assert.Len(t, losses, 150)
	assert.Less(t, losses[len(losses)-1], losses[0])
}

func TestFitDefaultSteps(t *testing.T) {
	model, err := NewExactGP([][]float64{{0.2}, {0.8}}, []float64{0.0, 1.0}, KernelRBF)
	require.NoError(t, err)

	// A zero-value config falls back to the default step count and rate.
	losses, err := model.Fit(TrainingConfig{})
	require.NoError(t, err)

	assert.Len(t, losses, DefaultTrainingSteps)
}

func TestFitDeterministic(t *testing.T) {
	x := [][]float64{{0.1}, {0.5}, {0.9}}
	y := []float64{0.0, 1.0, 0.2}

	cfg := DefaultTrainingConfig()
	cfg.Steps = 100

	model1, err := NewExactGP(x, y, KernelRBF)
	require.NoError(t, err)
	losses1, err := model1.Fit(cfg)
	require.NoError(t, err)

	model2, err := NewExactGP(x, y, KernelRBF)
	require.NoError(t, err)
	losses2, err := model2.Fit(cfg)
	require.NoError(t, err)

	assert.Equal(t, losses1, losses2)

	query := [][]float64{{0.3}}

	means1, variances1, err := model1.Predict(query)
	require.NoError(t, err)
	means2, variances2, err := model2.Predict(query)
	require.NoError(t, err)

	assert.Equal(t, means1, means2)
	assert.Equal(t, variances1, variances2)
}

func TestPredictFollowsMonotoneData(t *testing.T) {
	model := rampModel(t, 300)

	means, variances, err := model.Predict([][]float64{{0.1}, {0.5}, {0.9}})
	require.NoError(t, err)

	assert.Less(t, means[0], means[1])
	assert.Less(t, means[1], means[2])

	for _, v := range variances {
		assert.Greater(t, v, 0.0)
	}
}

func TestPredictVarianceGrowsOffData(t *testing.T) {
	model := rampModel(t, 300)

	_, variances, err := model.Predict([][]float64{{0.5}, {3.0}})
	require.NoError(t, err)

	// Far from the training data the model knows less.
	assert.Greater(t, variances[1], variances[0])
}

func TestPredictWidthMismatch(t *testing.T) {
	model := rampModel(t, 50)

	_, _, err := model.Predict([][]float64{{0.1, 0.2}})
	assert.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	x := [][]float64{{0.1}, {0.5}, {0.9}}
	y := []float64{0.0, 1.0, 0.2}

	model, err := NewExactGP(x, y, KernelRBF)
	require.NoError(t, err)

	cfg := DefaultTrainingConfig()
	cfg.Steps = 80

	_, err = model.Fit(cfg)
	require.NoError(t, err)

	state := model.ExportState()

	restored, err := NewExactGP(x, y, KernelRBF)
	require.NoError(t, err)
	require.NoError(t, restored.ImportState(state))

	// Raw values round-trip exactly.
	assert.Equal(t, state, restored.ExportState())

	query := [][]float64{{0.2}, {0.7}}

	means, variances, err := model.Predict(query)
	require.NoError(t, err)
	restoredMeans, restoredVariances, err := restored.Predict(query)
	require.NoError(t, err)

	for i := range means {
		assert.InDelta(t, means[i], restoredMeans[i], 1e-12)
		assert.InDelta(t, variances[i], restoredVariances[i], 1e-12)
	}
}

func TestImportStateMissingKey(t *testing.T) {
	model, err := NewExactGP([][]float64{{0.1}}, []float64{1}, KernelRBF)
	require.NoError(t, err)

	before := model.ExportState()

	err = model.ImportState(ModelState{StateKeyMean: {0.5}})
	assert.Error(t, err)

	// A failed import leaves the parameters untouched.
	assert.Equal(t, before, model.ExportState())
}

func TestZeroWidthModel(t *testing.T) {
	// With no informative dimensions the model reduces to a constant with
	// noise, and must still train and predict.
	model, err := NewExactGP([][]float64{{}, {}}, []float64{1.0, -1.0}, KernelRBF)
	require.NoError(t, err)

	cfg := DefaultTrainingConfig()
	cfg.Steps = 50

	_, err = model.Fit(cfg)
	require.NoError(t, err)

	means, variances, err := model.Predict([][]float64{{}})
	require.NoError(t, err)

	assert.False(t, math.IsNaN(means[0]))
	assert.Greater(t, variances[0], 0.0)
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	// The analytic gradients of the training objective must match central
	// finite differences over every raw parameter, for both kernels.
	x := [][]float64{{0.1}, {0.4}, {0.9}, {0.7}}
	y := []float64{0.2, -0.5, 1.0, 0.3}

	const h = 1e-5

	for _, mode := range []KernelMode{KernelRBF, KernelMatern52} {
		model, err := NewExactGP(x, y, mode)
		require.NoError(t, err)

		gp := model.(*exactGP)

		set := func(p [4]float64) {
			gp.mean = p[0]
			gp.rawOutputScale = p[1]
			gp.rawLengthscale = p[2]
			gp.rawNoise = p[3]
		}

		theta := [4]float64{0.1, -0.3, 0.25, -0.8}

		set(theta)
		_, analytic, err := gp.nllGrads()
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			p := theta
			p[i] += h
			set(p)
			up, _, err := gp.nllGrads()
			require.NoError(t, err)

			p = theta
			p[i] -= h
			set(p)
			down, _, err := gp.nllGrads()
			require.NoError(t, err)

			assert.InDelta(t, (up-down)/(2*h), analytic[i], 1e-6)
		}
	}
}
