package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictRequiresFit(t *testing.T) {
	s := New("widget")
	s.SetData(widgetExamples())

	_, _, err := s.Predict([][]float64{{0.1, 0.5}})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, _, err = s.PredictOne([]float64{0.1, 0.5})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = s.PredictSweep1D([]float64{0.1, 0.5}, 1, 0, 1, 10)
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = s.PredictSweepAll1D([]float64{0.1, 0.5}, 0, 1, 10)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictOrderAndCount(t *testing.T) {
	s := newTrainedWidget(t, 100)

	a := []float64{0.1, 0.3}
	b := []float64{0.1, 0.8}

	meansAB, variancesAB, err := s.Predict([][]float64{a, b})
	require.NoError(t, err)
	require.Len(t, meansAB, 2)
	require.Len(t, variancesAB, 2)

	meansBA, variancesBA, err := s.Predict([][]float64{b, a})
	require.NoError(t, err)

	// Outputs follow input order.
	assert.Equal(t, meansAB[0], meansBA[1])
	assert.Equal(t, meansAB[1], meansBA[0])
	assert.Equal(t, variancesAB[0], variancesBA[1])
	assert.Equal(t, variancesAB[1], variancesBA[0])
}

func TestPredictOneMatchesPredict(t *testing.T) {
	s := newTrainedWidget(t, 100)

	point := []float64{0.1, 0.42}

	means, variances, err := s.Predict([][]float64{point})
	require.NoError(t, err)

	mean, variance, err := s.PredictOne(point)
	require.NoError(t, err)

	assert.Equal(t, means[0], mean)
	assert.Equal(t, variances[0], variance)
}

func TestPredictFilterMismatch(t *testing.T) {
	s := newTrainedWidget(t, 60)

	// The filter addresses dimension 1, which this query does not have.
	_, _, err := s.Predict([][]float64{{0.5}})
	assert.ErrorContains(t, err, "out of range")
}

func TestPredictSweep1DGrid(t *testing.T) {
	s := newTrainedWidget(t, 100)

	base := []float64{0.1, 0.4}

	res, err := s.PredictSweep1D(base, 1, 0, 1, 5)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, res.Values)
	assert.Len(t, res.Means, 5)
	assert.Len(t, res.Variances, 5)

	for _, v := range res.Variances {
		assert.Greater(t, v, 0.0)
	}

	// The base vector is never modified.
	assert.Equal(t, []float64{0.1, 0.4}, base)
}

func TestPredictSweep1DSingleStep(t *testing.T) {
	s := newTrainedWidget(t, 60)

	res, err := s.PredictSweep1D([]float64{0.1, 0.4}, 1, 0.3, 0.9, 1)
	require.NoError(t, err)

	// A one-point grid collapses to the range minimum.
	assert.Equal(t, []float64{0.3}, res.Values)
	assert.Len(t, res.Means, 1)
}

func TestPredictSweep1DValidation(t *testing.T) {
	s := newTrainedWidget(t, 60)

	_, err := s.PredictSweep1D([]float64{0.1, 0.4}, 5, 0, 1, 10)
	assert.ErrorContains(t, err, "out of range")

	_, err = s.PredictSweep1D([]float64{0.1, 0.4}, -1, 0, 1, 10)
	assert.ErrorContains(t, err, "out of range")

	_, err = s.PredictSweep1D([]float64{0.1, 0.4}, 1, 0, 1, 0)
	assert.ErrorContains(t, err, "at least 1 step")
}

func TestPredictSweepDefaults(t *testing.T) {
	s := newTrainedWidget(t, 60)

	res, err := s.PredictSweep1DDefault([]float64{0.1, 0.4}, 1)
	require.NoError(t, err)

	assert.Len(t, res.Values, DefaultSweepSteps)
	assert.Equal(t, DefaultSweepMin, res.Values[0])
	assert.InDelta(t, DefaultSweepMax, res.Values[len(res.Values)-1], 1e-12)
}

func TestPredictSweepAll1D(t *testing.T) {
	s := newTrainedWidget(t, 100)

	sweeps, err := s.PredictSweepAll1D([]float64{0.1, 0.4}, 0, 1, 5)
	require.NoError(t, err)

	// One sweep per filtered dimension, keyed by the full-space index.
	require.Len(t, sweeps, 1)
	require.Contains(t, sweeps, 1)

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, sweeps[1].Values)
	assert.Len(t, sweeps[1].Means, 5)
}

func TestPredictSweepAll1DEmptyFilter(t *testing.T) {
	s := New("widget")
	s.AddExample([]float64{0.3, 0.9}, 1.0)

	cfg := DefaultTrainingConfig()
	cfg.Steps = 60
	s.SetConfig(cfg)

	res, err := s.Train()
	require.NoError(t, err)
	require.Equal(t, StatusOK, res.Code)

	sweeps, err := s.PredictSweepAll1D([]float64{0.3, 0.9}, 0, 1, 5)
	require.NoError(t, err)

	assert.Empty(t, sweeps)
}
