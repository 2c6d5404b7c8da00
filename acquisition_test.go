package snippet

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUCB(t *testing.T) {
	assert.Equal(t, 5.0, UCB(1.0, 4.0, AcquisitionParams{Beta: 2.0}))

	// Beta zero ignores uncertainty entirely.
	assert.Equal(t, 1.0, UCB(1.0, 4.0, AcquisitionParams{Beta: 0}))
}

func TestProbabilityOfImprovement(t *testing.T) {
	params := AcquisitionParams{BestSoFar: 0.5, Xi: 0}

	// A mean exactly at the best score has even odds of improving.
	assert.InDelta(t, 0.5, ProbabilityOfImprovement(0.5, 1.0, params), 1e-12)

	// Higher means improve the odds.
	low := ProbabilityOfImprovement(0.2, 1.0, params)
	high := ProbabilityOfImprovement(0.8, 1.0, params)
	assert.Greater(t, high, low)

	assert.Greater(t, ProbabilityOfImprovement(0.8, 1.0, params), 0.5)
	assert.Less(t, ProbabilityOfImprovement(0.2, 1.0, params), 0.5)
}

func TestExpectedImprovement(t *testing.T) {
	params := AcquisitionParams{BestSoFar: 1.0, Xi: 0.01}

	// Far below the best score there is nothing to expect.
	assert.InDelta(t, 0.0, ExpectedImprovement(-5.0, 0.04, params), 1e-12)

	// A mean above the best score promises real improvement.
	ei := ExpectedImprovement(1.5, 0.04, params)
	assert.Greater(t, ei, 0.0)

	// Expectation grows with the mean.
	assert.Greater(t, ExpectedImprovement(2.0, 0.04, params), ei)
}

func TestThompsonSampling(t *testing.T) {
	// Equal seeds draw equal samples.
	p1 := AcquisitionParams{RandomState: rand.New(rand.NewSource(42))}
	p2 := AcquisitionParams{RandomState: rand.New(rand.NewSource(42))}

	assert.Equal(t,
		ThompsonSampling(0.5, 0.04, p1),
		ThompsonSampling(0.5, 0.04, p2),
	)

	// Zero variance collapses the sample onto the mean.
	p3 := AcquisitionParams{RandomState: rand.New(rand.NewSource(7))}
	assert.Equal(t, 0.7, ThompsonSampling(0.7, 0, p3))
}
