package snippet

import (
	"fmt"
	"math"
)

//////
// Const, vars, types.
//////

// kernel is the covariance function used by the exact GP backend. Both
// methods take the squared Euclidean distance between two already-filtered
// points plus the transformed hyperparameters, which lets the backend
// precompute its pairwise distance matrix once per fit.
type kernel interface {
	// cov is the covariance k(x, x') given d2 = |x - x'|^2.
	cov(d2, outputScale, lengthscale float64) float64

	// dCovDLogLength is the partial derivative of cov with respect to the
	// log of the lengthscale. Used by the analytic gradient of the training
	// objective.
	dCovDLogLength(d2, outputScale, lengthscale float64) float64
}

// rbfKernel is the scaled squared exponential kernel.
//
// Mathematical formula:
//
//	k(x, x') = outputScale * exp(-|x - x'|^2 / (2 * lengthscale^2))
type rbfKernel struct{}

// matern52Kernel is the scaled Matern 5/2 kernel. With u = |x - x'| / lengthscale:
//
//	k(x, x') = outputScale * (1 + sqrt(5)*u + 5*u^2/3) * exp(-sqrt(5)*u)
//
// Compared to RBF it admits rougher (twice-differentiable) functions.
type matern52Kernel struct{}

//////
// Methods.
//////

func (rbfKernel) cov(d2, outputScale, lengthscale float64) float64 {
	return outputScale * math.Exp(-d2/(2*lengthscale*lengthscale))
}

func (rbfKernel) dCovDLogLength(d2, outputScale, lengthscale float64) float64 {
	l2 := lengthscale * lengthscale

	return outputScale * math.Exp(-d2/(2*l2)) * d2 / l2
}

func (matern52Kernel) cov(d2, outputScale, lengthscale float64) float64 {
	sqrt5 := math.Sqrt(5.0)
	u := math.Sqrt(d2) / lengthscale

	return outputScale * (1.0 + sqrt5*u + 5.0*u*u/3.0) * math.Exp(-sqrt5*u)
}

func (matern52Kernel) dCovDLogLength(d2, outputScale, lengthscale float64) float64 {
	sqrt5 := math.Sqrt(5.0)
	u := math.Sqrt(d2) / lengthscale

	return outputScale * (5.0 / 3.0) * u * u * (1.0 + sqrt5*u) * math.Exp(-sqrt5*u)
}

//////
// Factory.
//////

// kernelForMode maps a KernelMode tag to its implementation. An empty mode
// selects RBF.
func kernelForMode(mode KernelMode) (kernel, error) {
	switch mode {
	case KernelRBF, "":
		return rbfKernel{}, nil
	case KernelMatern52:
		return matern52Kernel{}, nil
	default:
		return nil, fmt.Errorf("unknown kernel mode %q", mode)
	}
}
