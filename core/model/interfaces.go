// Package model provides the interfaces shared by the estimators and encoders.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns R² for regressors and accuracy for classifiers.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Estimator
	Scorer
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	Scorer

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// LabelTransformer maps a finite set of string labels onto integer codes and back.
type LabelTransformer interface {
	// Fit learns the label vocabulary.
	Fit(labels []string) error

	// Transform maps labels onto codes; unseen labels are an error.
	Transform(labels []string) ([]int, error)

	// FitTransform runs Fit then Transform on the same labels.
	FitTransform(labels []string) ([]int, error)

	// InverseTransform maps codes back onto labels.
	InverseTransform(codes []int) ([]string, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
