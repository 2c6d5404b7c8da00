package snippet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernelAtZeroDistance(t *testing.T) {
	// Both kernels reduce to the output scale at zero distance.
	for _, k := range []kernel{rbfKernel{}, matern52Kernel{}} {
		assert.Equal(t, 1.7, k.cov(0, 1.7, 0.9))
	}
}

func TestKernelDecreasesWithDistance(t *testing.T) {
	for _, k := range []kernel{rbfKernel{}, matern52Kernel{}} {
		near := k.cov(0.1, 1.0, 1.0)
		mid := k.cov(0.5, 1.0, 1.0)
		far := k.cov(2.0, 1.0, 1.0)

		assert.Greater(t, near, mid)
		assert.Greater(t, mid, far)
		assert.Greater(t, far, 0.0)
	}
}

func TestKernelLengthscaleGradient(t *testing.T) {
	// The analytic derivative with respect to the log lengthscale must match
	// a central finite difference of the covariance.
	const (
		outputScale = 1.3
		logLength   = 0.2
		h           = 1e-6
	)

	for _, k := range []kernel{rbfKernel{}, matern52Kernel{}} {
		for _, d2 := range []float64{0.04, 0.3, 1.5} {
			up := k.cov(d2, outputScale, math.Exp(logLength+h))
			down := k.cov(d2, outputScale, math.Exp(logLength-h))
			want := (up - down) / (2 * h)

			got := k.dCovDLogLength(d2, outputScale, math.Exp(logLength))

			assert.InDelta(t, want, got, 1e-6)
		}
	}
}

func TestKernelForMode(t *testing.T) {
	k, err := kernelForMode(KernelRBF)
	assert.NoError(t, err)
	assert.IsType(t, rbfKernel{}, k)

	// An empty mode selects the default.
	k, err = kernelForMode("")
	assert.NoError(t, err)
	assert.IsType(t, rbfKernel{}, k)

	k, err = kernelForMode(KernelMatern52)
	assert.NoError(t, err)
	assert.IsType(t, matern52Kernel{}, k)

	_, err = kernelForMode("periodic")
	assert.Error(t, err)
}
