package snippet

import "math"

//////
// Const, vars, types.
//////

// Adam moment decay rates and epsilon. These match the common defaults and
// rarely need exposure; the learning rate is what callers tune.
const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// adamOptimizer holds Adam state for a fixed-size parameter vector: first
// and second moment estimates plus the step counter used for bias
// correction.
type adamOptimizer struct {
	lr float64

	m []float64
	v []float64
	t int
}

//////
// Methods.
//////

// step performs one Adam update of params in place given their gradients.
// params and grads must have the optimizer's size.
func (opt *adamOptimizer) step(params, grads []float64) {
	opt.t++

	b1Corr := 1.0 - math.Pow(adamBeta1, float64(opt.t))
	b2Corr := 1.0 - math.Pow(adamBeta2, float64(opt.t))

	for j := range params {
		g := grads[j]

		opt.m[j] = adamBeta1*opt.m[j] + (1-adamBeta1)*g
		opt.v[j] = adamBeta2*opt.v[j] + (1-adamBeta2)*(g*g)

		mhat := opt.m[j] / b1Corr
		vhat := opt.v[j] / b2Corr

		params[j] -= opt.lr * mhat / (math.Sqrt(vhat) + adamEps)
	}
}

//////
// Factory.
//////

// newAdamOptimizer creates an Adam optimizer for a parameter vector of the
// given size, with zeroed moment estimates.
func newAdamOptimizer(lr float64, size int) *adamOptimizer {
	return &adamOptimizer{
		lr: lr,
		m:  make([]float64, size),
		v:  make([]float64, size),
	}
}
