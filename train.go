package snippet

import "fmt"

//////
// Exported functionalities.
//////

// DefaultTrainingConfig returns a default configuration.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Steps:         DefaultTrainingSteps,
		LearningRate:  DefaultLearningRate,
		LossTolerance: DefaultLossTolerance,
		AutoFilter:    true,
		ProgressChan:  nil, // Default to no progress updates.
	}
}

// Train fits a fresh Gaussian Process to the snippet's current examples.
//
// How it works:
//  1. An empty example set short-circuits into a StatusNoTrainingData result
//  2. With AutoFilter on (the default) the parameter filter is re-derived,
//     so dimensions that became informative since the last run are picked up
//  3. The filtered design matrix and the score vector are extracted
//  4. A fresh model from the snippet's factory is optimized for the
//     configured number of steps
//  5. The model and its per-iteration loss history replace the previous ones
//
// Returns:
// - *TrainResult: Status report. Code StatusOK with the exported model state
//   on success; StatusNoTrainingData with no state when the snippet is empty
// - error: Shape or numerical failures (ragged example vectors, filter
//   indices the examples cannot satisfy, a covariance that will not
//   factorize). The result is nil in that case
//
// Usage example:
//
//	res, err := s.Train()
//	if err != nil {
//	    return err
//	}
//
//	if res.Code != StatusOK {
//	    log.Println(res.Message)
//	}
//
// Important notes:
// - Every call starts from the unit initialization; nothing is warm-started
// - The loop always runs the configured number of steps (no early stopping)
// - The previous model stays in place when training does not complete
// - Blocks until done; progress is observable through
//   TrainingConfig.ProgressChan
func (s *Snippet) Train() (*TrainResult, error) {
	if len(s.data) == 0 {
		return &TrainResult{
			Code:    StatusNoTrainingData,
			Message: fmt.Sprintf("Snippet training failure. No training data set for Snippet %s", s.name),
		}, nil
	}

	if err := s.validateExamples(); err != nil {
		return nil, err
	}

	// Additional examples may have extended the informative dimensions, so
	// the filter is re-derived unless it was explicitly overridden.
	if s.config.AutoFilter {
		s.DeriveFilter()
	}

	if err := s.validateFilter(); err != nil {
		return nil, err
	}

	model, err := s.factory(s.ExtractMatrix(), s.Scores(), s.kernelMode)
	if err != nil {
		return nil, err
	}

	losses, err := model.Fit(s.config)
	if err != nil {
		return nil, err
	}

	s.model = model
	s.losses = losses

	return &TrainResult{
		State:   model.ExportState(),
		Kernel:  s.kernelMode,
		Code:    StatusOK,
		Message: fmt.Sprintf("Snippet %s training complete", s.name),
	}, nil
}

// LoadModel restores a previously trained model from its exported state
// without running the optimizer.
//
// How it works:
//  1. Replaces the example set with trainData (the set the state was
//     trained against)
//  2. Derives the default filter from that data
//  3. Builds a fresh model through the factory and imports the learned
//     parameters into it
//
// The loss history is left untouched since no optimization happens here.
//
// Returns an error when trainData is empty, example shapes are
// inconsistent, or the state is missing required parameters.
func (s *Snippet) LoadModel(trainData []Example, state ModelState) error {
	if len(trainData) == 0 {
		return fmt.Errorf("load model: no training data for snippet %s", s.name)
	}

	s.SetData(trainData)

	if err := s.validateExamples(); err != nil {
		return err
	}

	s.DeriveFilter()

	model, err := s.factory(s.ExtractMatrix(), s.Scores(), s.kernelMode)
	if err != nil {
		return err
	}

	if err := model.ImportState(state); err != nil {
		return err
	}

	s.model = model

	return nil
}
