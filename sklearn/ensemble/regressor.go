// Package ensemble implements gradient-boosted regression trees for
// regression and classification on gonum matrices.
package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/core/model"
	"github.com/YuminosukeSato/csvclean/metrics"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/pkg/log"
)

// GradientBoostingRegressor fits an additive ensemble of regression trees
// under squared error.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	Model *Model

	// Hyperparameters
	NEstimators    int     // Number of boosting rounds
	LearningRate   float64 // Shrinkage applied to every tree
	MaxDepth       int     // Maximum tree depth
	MinSamplesLeaf int     // Minimum number of samples in one leaf
	RegLambda      float64 // L2 regularization on leaf values
	RandomState    int     // Kept for API compatibility; training is deterministic
	Verbosity      int     // Verbosity level

	nFeatures_    int
	trainingLoss_ float64
}

// NewGradientBoostingRegressor creates a regressor with default parameters
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	def := DefaultTrainingParams()
	return &GradientBoostingRegressor{
		NEstimators:    def.NumIterations,
		LearningRate:   def.LearningRate,
		MaxDepth:       def.MaxDepth,
		MinSamplesLeaf: def.MinDataInLeaf,
		RegLambda:      def.Lambda,
	}
}

// WithNEstimators sets the number of boosting rounds
func (g *GradientBoostingRegressor) WithNEstimators(n int) *GradientBoostingRegressor {
	g.NEstimators = n
	return g
}

// WithLearningRate sets the learning rate
func (g *GradientBoostingRegressor) WithLearningRate(lr float64) *GradientBoostingRegressor {
	g.LearningRate = lr
	return g
}

// WithMaxDepth sets the maximum depth
func (g *GradientBoostingRegressor) WithMaxDepth(d int) *GradientBoostingRegressor {
	g.MaxDepth = d
	return g
}

// WithRandomState sets the random seed
func (g *GradientBoostingRegressor) WithRandomState(seed int) *GradientBoostingRegressor {
	g.RandomState = seed
	return g
}

func (g *GradientBoostingRegressor) trainingParams() TrainingParams {
	return TrainingParams{
		NumIterations: g.NEstimators,
		LearningRate:  g.LearningRate,
		MaxDepth:      g.MaxDepth,
		MinDataInLeaf: g.MinSamplesLeaf,
		Lambda:        g.RegLambda,
		Objective:     ObjectiveRegression,
		NumClass:      1,
		Seed:          g.RandomState,
		Verbosity:     g.Verbosity,
	}
}

// Fit trains the regressor. y must be a single column.
func (g *GradientBoostingRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GradientBoostingRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("Fit", 1, yCols, 1)
	}

	params := g.trainingParams()
	if err := params.Validate(); err != nil {
		return err
	}

	logger := log.GetLoggerWithName("ensemble.regressor")
	logger.Debug("Training GradientBoostingRegressor",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.NEstimatorsKey, g.NEstimators,
		log.LearningRateKey, g.LearningRate,
		log.MaxDepthKey, g.MaxDepth)

	trainer := NewTrainer(params)
	if err := trainer.Fit(X, mat.Col(nil, 0, y)); err != nil {
		return err
	}

	g.Model = trainer.GetModel()
	g.nFeatures_ = cols
	g.trainingLoss_ = trainer.Loss()
	g.SetFitted()
	return nil
}

// Predict returns one prediction per row as an n x 1 matrix.
func (g *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}
	_, cols := X.Dims()
	if cols != g.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", g.nFeatures_, cols, 1)
	}
	return g.Model.RawScores(X)
}

// Score returns the coefficient of determination R^2 of the prediction
func (g *GradientBoostingRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !g.IsFitted() {
		return 0, errors.NewNotFittedError("GradientBoostingRegressor", "Score")
	}
	pred, err := g.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	yVec := mat.NewVecDense(rows, mat.Col(nil, 0, y))
	predVec := mat.NewVecDense(rows, mat.Col(nil, 0, pred))
	return metrics.R2Score(yVec, predVec)
}

// TrainingLoss returns the mean half squared error on the training data.
func (g *GradientBoostingRegressor) TrainingLoss() float64 {
	return g.trainingLoss_
}

// GetParams returns the parameters of the regressor
func (g *GradientBoostingRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     g.NEstimators,
		"learning_rate":    g.LearningRate,
		"max_depth":        g.MaxDepth,
		"min_samples_leaf": g.MinSamplesLeaf,
		"reg_lambda":       g.RegLambda,
		"random_state":     g.RandomState,
	}
}
