package snippet

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

//////
// Const, vars, types.
//////

// ErrNotFitted is returned by prediction and suggestion methods when the
// snippet has no fitted model yet. Train or LoadModel first.
var ErrNotFitted = errors.New("snippet has no fitted model")

// Snippet is a named, trainable surrogate over a design's parameter space.
// It owns an ordered set of scored examples, a filter selecting the
// informative dimensions, and (after training) a Gaussian Process model that
// predicts the score at unseen points together with its uncertainty.
//
// The intended cycle is caller-driven: add examples, Train, query with the
// Predict methods (or Suggest), add more examples, retrain. Every Train
// fits a fresh model from scratch; there is no warm start and no background
// work. Editing data or the filter does not invalidate an existing model,
// so retraining after edits is the caller's job.
//
// A Snippet is not safe for concurrent use. Calls must be serialized by the
// caller; distinct snippets are fully independent.
type Snippet struct {
	name string

	data   []Example
	filter []int

	kernelMode   KernelMode
	kernelParams map[string]float64

	config  TrainingConfig
	factory ModelFactory

	model  Model
	losses []float64
}

//////
// Methods.
//////

// Name returns the snippet's name. Names are opaque labels chosen by the
// caller; nothing enforces uniqueness.
func (s *Snippet) Name() string {
	return s.name
}

// Len returns the number of stored examples.
func (s *Snippet) Len() int {
	return len(s.data)
}

// Config returns the snippet's training configuration.
func (s *Snippet) Config() TrainingConfig {
	return s.config
}

// SetConfig replaces the snippet's training configuration. It applies to
// subsequent Train calls.
func (s *Snippet) SetConfig(cfg TrainingConfig) {
	s.config = cfg
}

// SetModelFactory replaces the numerical backend used by subsequent Train
// and LoadModel calls. The default is NewExactGP.
func (s *Snippet) SetModelFactory(factory ModelFactory) {
	s.factory = factory
}

// Fitted reports whether the snippet holds a fitted model.
func (s *Snippet) Fitted() bool {
	return s.model != nil
}

// SetData replaces the whole example set.
//
// Important notes:
// - Creates a deep copy of every example to prevent external modifications
// - No validation happens here; vector lengths are checked at Train time
// - An existing fitted model is kept as-is until the next Train
func (s *Snippet) SetData(items []Example) {
	data := make([]Example, len(items))

	for i, item := range items {
		data[i] = Example{Data: copyFloats(item.Data), Score: item.Score}
	}

	s.data = data
}

// Add appends one example to the set. The example's vector is deep copied.
func (s *Snippet) Add(item Example) {
	s.data = append(s.data, Example{Data: copyFloats(item.Data), Score: item.Score})
}

// AddExample appends an observation given as a raw vector and score.
func (s *Snippet) AddExample(data []float64, score float64) {
	s.Add(Example{Data: data, Score: score})
}

// RemoveExample removes the example at index. Out-of-range indices
// (including negative ones) are silently ignored, so callers may retry
// removals without tracking the current length.
func (s *Snippet) RemoveExample(index int) {
	if index < 0 || index >= len(s.data) {
		return
	}

	s.data = append(s.data[:index], s.data[index+1:]...)
}

// Examples returns a deep copy of the stored examples, in insertion order.
func (s *Snippet) Examples() []Example {
	out := make([]Example, len(s.data))

	for i, ex := range s.data {
		out[i] = Example{Data: copyFloats(ex.Data), Score: ex.Score}
	}

	return out
}

// Scores returns the example scores in insertion order. This is the target
// vector used for training, always unfiltered.
func (s *Snippet) Scores() []float64 {
	scores := make([]float64, len(s.data))

	for i, ex := range s.data {
		scores[i] = ex.Score
	}

	return scores
}

// Reference returns a copy of the first example's parameter vector, or nil
// when the snippet is empty. The first example is conventionally the
// starting design the rest of the set varies around, and is assumed to be a
// positive one.
func (s *Snippet) Reference() []float64 {
	if len(s.data) == 0 {
		return nil
	}

	return copyFloats(s.data[0].Data)
}

// PositiveExamples returns copies of the parameter vectors whose score is
// greater than zero.
func (s *Snippet) PositiveExamples() [][]float64 {
	var pos [][]float64

	for _, ex := range s.data {
		if ex.Score > 0 {
			pos = append(pos, copyFloats(ex.Data))
		}
	}

	return pos
}

// LossHistory returns the per-iteration training losses of the most recent
// Train call. Empty until the snippet has been trained; LoadModel does not
// touch it.
func (s *Snippet) LossHistory() []float64 {
	return copyFloats(s.losses)
}

// Kernel returns the kernel family tag used for subsequent training runs.
func (s *Snippet) Kernel() KernelMode {
	return s.kernelMode
}

// SetKernelMode changes the kernel family used by subsequent Train and
// LoadModel calls. The current fitted model is unaffected.
func (s *Snippet) SetKernelMode(mode KernelMode) {
	s.kernelMode = mode
}

// KernelParams returns a copy of the advisory kernel metadata.
func (s *Snippet) KernelParams() map[string]float64 {
	params := make(map[string]float64, len(s.kernelParams))

	for k, v := range s.kernelParams {
		params[k] = v
	}

	return params
}

// SetKernelParams replaces the advisory kernel metadata. These values
// describe the kernel for callers and serializers; the learned kernel
// parameters live in the model state and are not affected.
func (s *Snippet) SetKernelParams(params map[string]float64) {
	cp := make(map[string]float64, len(params))

	for k, v := range params {
		cp[k] = v
	}

	s.kernelParams = cp
}

// Filter returns a copy of the active parameter filter: the full-space
// dimension indices used for training and inference.
func (s *Snippet) Filter() []int {
	return append([]int(nil), s.filter...)
}

// SetFilter overrides the parameter filter explicitly and turns off
// automatic re-derivation, so the override survives subsequent Train calls.
// Indices should be ascending, unique and valid for the stored examples;
// Train reports an error for indices the examples cannot satisfy.
func (s *Snippet) SetFilter(indices []int) {
	s.filter = append([]int(nil), indices...)
	s.config.AutoFilter = false
}

// DeriveFilter recomputes the parameter filter from the current examples
// and installs it: a dimension is kept exactly when some example differs
// from the first example in that dimension by more than the relative
// tolerance FilterRelTolerance. Dimensions constant across the whole set
// carry no training signal and are dropped. Indices come out ascending.
//
// Important notes:
// - All examples are assumed to have the first example's vector length
// - A single example makes every dimension constant, so the filter comes
//   out empty; the snippet still trains (the model reduces to a constant)
// - On an empty snippet the result is undefined; this implementation clears
//   the filter and returns nil
//
// Train calls this automatically while TrainingConfig.AutoFilter is on.
func (s *Snippet) DeriveFilter() []int {
	if len(s.data) == 0 {
		s.filter = nil

		return nil
	}

	first := s.data[0].Data
	filter := make([]int, 0, len(first))

	for i := range first {
		constant := true

		for _, ex := range s.data {
			if !scalar.EqualWithinRel(ex.Data[i], first[i], FilterRelTolerance) {
				constant = false

				break
			}
		}

		if !constant {
			filter = append(filter, i)
		}
	}

	s.filter = filter

	return append([]int(nil), filter...)
}

// ExtractMatrix returns the filtered design matrix: one row per example, in
// insertion order, keeping only the filter's dimensions. This is the X the
// model trains on. Filter indices must be valid for the stored examples.
func (s *Snippet) ExtractMatrix() [][]float64 {
	rows := make([][]float64, len(s.data))

	for i, ex := range s.data {
		row := make([]float64, len(s.filter))

		for j, idx := range s.filter {
			row[j] = ex.Data[idx]
		}

		rows[i] = row
	}

	return rows
}

// applyFilter maps full-space query vectors into the filtered space the
// model was trained in.
func (s *Snippet) applyFilter(items [][]float64) ([][]float64, error) {
	out := make([][]float64, len(items))

	for i, item := range items {
		row, err := filterVector(item, s.filter)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}

		out[i] = row
	}

	return out, nil
}

// validateExamples checks that the example vectors share one length.
// Requires at least one example.
func (s *Snippet) validateExamples() error {
	width := len(s.data[0].Data)

	for i, ex := range s.data {
		if len(ex.Data) != width {
			return fmt.Errorf("example %d has %d dimensions, want %d", i, len(ex.Data), width)
		}
	}

	return nil
}

// validateFilter checks that the active filter addresses only dimensions
// the examples have. Requires at least one example.
func (s *Snippet) validateFilter() error {
	width := len(s.data[0].Data)

	for _, idx := range s.filter {
		if idx < 0 || idx >= width {
			return fmt.Errorf("filter index %d out of range for examples with %d dimensions", idx, width)
		}
	}

	return nil
}

//////
// Factory.
//////

// New creates an empty snippet with the given name, the default training
// configuration, the RBF kernel and the exact GP backend.
//
// Usage example:
//
//	s := New("brightness")
//	s.AddExample([]float64{0.1, 0.5}, 1.0)
//	s.AddExample([]float64{0.1, 0.9}, -1.0)
//
//	if _, err := s.Train(); err != nil {
//	    return err
//	}
//
//	mean, variance, err := s.PredictOne([]float64{0.1, 0.7})
//
// Important notes:
// - Parameter vectors are assumed normalized to [0,1] per dimension
// - The name is an opaque label used in statuses and messages
func New(name string) *Snippet {
	return &Snippet{
		name:       name,
		kernelMode: KernelRBF,
		kernelParams: map[string]float64{
			"variance":    1.0,
			"lengthscale": 1.0,
		},
		config:  DefaultTrainingConfig(),
		factory: NewExactGP,
	}
}
