package ensemble

import (
	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// TrainingParams contains the boosting hyperparameters shared by the
// regressor and the classifier.
type TrainingParams struct {
	// Basic parameters
	NumIterations int     `json:"num_iterations"`
	LearningRate  float64 `json:"learning_rate"`
	MaxDepth      int     `json:"max_depth"`
	MinDataInLeaf int     `json:"min_data_in_leaf"`

	// Regularization
	Lambda         float64 `json:"lambda_l2"`
	MinGainToSplit float64 `json:"min_gain_to_split"`

	// Objective
	Objective string `json:"objective"`
	NumClass  int    `json:"num_class"`

	// Other
	Seed      int `json:"seed"`
	Verbosity int `json:"verbosity"`
}

// DefaultTrainingParams mirrors the gradient boosting defaults used for
// imputation: 100 rounds, shrinkage 0.1, depth 3, L2 penalty 1.
func DefaultTrainingParams() TrainingParams {
	return TrainingParams{
		NumIterations: 100,
		LearningRate:  0.1,
		MaxDepth:      3,
		MinDataInLeaf: 1,
		Lambda:        1.0,
		Objective:     ObjectiveRegression,
		NumClass:      1,
	}
}

// Validate checks the parameters before any tree is grown.
func (p TrainingParams) Validate() error {
	switch {
	case p.NumIterations < 1:
		return errors.NewValidationError("n_estimators", "must be at least 1", p.NumIterations)
	case p.LearningRate <= 0:
		return errors.NewValidationError("learning_rate", "must be positive", p.LearningRate)
	case p.MaxDepth < 1:
		return errors.NewValidationError("max_depth", "must be at least 1", p.MaxDepth)
	case p.MinDataInLeaf < 1:
		return errors.NewValidationError("min_data_in_leaf", "must be at least 1", p.MinDataInLeaf)
	case p.Lambda < 0:
		return errors.NewValidationError("lambda_l2", "must not be negative", p.Lambda)
	case p.Objective == ObjectiveMulticlass && p.NumClass < 3:
		return errors.NewValidationError("num_class", "multiclass needs at least 3 classes", p.NumClass)
	}
	return nil
}

// numOutputs is the number of trees grown per iteration.
func (p TrainingParams) numOutputs() int {
	if p.Objective == ObjectiveMulticlass {
		return p.NumClass
	}
	return 1
}
