package ensemble

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/core/model"
	"github.com/YuminosukeSato/csvclean/metrics"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/pkg/log"
)

// GradientBoostingClassifier fits boosted trees under log loss. Two classes
// use one binary ensemble; more classes grow one tree per class and
// iteration under softmax.
type GradientBoostingClassifier struct {
	model.BaseEstimator

	Model *Model

	// Hyperparameters
	NEstimators    int
	LearningRate   float64
	MaxDepth       int
	MinSamplesLeaf int
	RegLambda      float64
	RandomState    int // Kept for API compatibility; training is deterministic
	Verbosity      int

	classes_      []int
	nFeatures_    int
	trainingLoss_ float64
}

// NewGradientBoostingClassifier creates a classifier with default parameters
func NewGradientBoostingClassifier() *GradientBoostingClassifier {
	def := DefaultTrainingParams()
	return &GradientBoostingClassifier{
		NEstimators:    def.NumIterations,
		LearningRate:   def.LearningRate,
		MaxDepth:       def.MaxDepth,
		MinSamplesLeaf: def.MinDataInLeaf,
		RegLambda:      def.Lambda,
	}
}

// WithNEstimators sets the number of boosting rounds
func (g *GradientBoostingClassifier) WithNEstimators(n int) *GradientBoostingClassifier {
	g.NEstimators = n
	return g
}

// WithLearningRate sets the learning rate
func (g *GradientBoostingClassifier) WithLearningRate(lr float64) *GradientBoostingClassifier {
	g.LearningRate = lr
	return g
}

// WithMaxDepth sets the maximum depth
func (g *GradientBoostingClassifier) WithMaxDepth(d int) *GradientBoostingClassifier {
	g.MaxDepth = d
	return g
}

// WithRandomState sets the random seed
func (g *GradientBoostingClassifier) WithRandomState(seed int) *GradientBoostingClassifier {
	g.RandomState = seed
	return g
}

// classIndex validates labels and maps each one to its position in the
// sorted class list.
func classIndex(labels []float64) ([]int, []float64, error) {
	seen := make(map[int]struct{})
	for _, v := range labels {
		if math.IsNaN(v) || v < 0 || v != math.Trunc(v) {
			return nil, nil, errors.NewValidationError("y", "class labels must be non-negative integers", v)
		}
		seen[int(v)] = struct{}{}
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	if len(classes) < 2 {
		return nil, nil, errors.NewValidationError("y", errors.ErrSingleClass.Error(), len(classes))
	}

	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}
	targets := make([]float64, len(labels))
	for i, v := range labels {
		targets[i] = float64(pos[int(v)])
	}
	return classes, targets, nil
}

// Fit trains the classifier. y must be a single column of class labels.
func (g *GradientBoostingClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GradientBoostingClassifier.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("Fit", 1, yCols, 1)
	}

	classes, targets, err := classIndex(mat.Col(nil, 0, y))
	if err != nil {
		return err
	}

	params := TrainingParams{
		NumIterations: g.NEstimators,
		LearningRate:  g.LearningRate,
		MaxDepth:      g.MaxDepth,
		MinDataInLeaf: g.MinSamplesLeaf,
		Lambda:        g.RegLambda,
		Objective:     ObjectiveBinary,
		NumClass:      len(classes),
		Seed:          g.RandomState,
		Verbosity:     g.Verbosity,
	}
	if len(classes) > 2 {
		params.Objective = ObjectiveMulticlass
	}
	if err := params.Validate(); err != nil {
		return err
	}

	logger := log.GetLoggerWithName("ensemble.classifier")
	logger.Debug("Training GradientBoostingClassifier",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, len(classes),
		log.NEstimatorsKey, g.NEstimators,
		log.LearningRateKey, g.LearningRate,
		log.MaxDepthKey, g.MaxDepth)

	trainer := NewTrainer(params)
	if err := trainer.Fit(X, targets); err != nil {
		return err
	}

	g.Model = trainer.GetModel()
	g.classes_ = classes
	g.nFeatures_ = cols
	g.trainingLoss_ = trainer.Loss()
	g.SetFitted()
	return nil
}

// Classes returns the sorted class labels seen during fitting.
func (g *GradientBoostingClassifier) Classes() []int {
	return append([]int(nil), g.classes_...)
}

// PredictProba returns class probabilities, one column per class in the order
// of Classes.
func (g *GradientBoostingClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !g.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingClassifier", "PredictProba")
	}
	_, cols := X.Dims()
	if cols != g.nFeatures_ {
		return nil, errors.NewDimensionError("PredictProba", g.nFeatures_, cols, 1)
	}
	raw, err := g.Model.RawScores(X)
	if err != nil {
		return nil, err
	}

	rows, _ := raw.Dims()
	nClass := len(g.classes_)
	proba := mat.NewDense(rows, nClass, nil)
	row := make([]float64, nClass)
	for i := 0; i < rows; i++ {
		if nClass == 2 {
			p := sigmoid(raw.At(i, 0))
			proba.Set(i, 0, 1-p)
			proba.Set(i, 1, p)
			continue
		}
		softmax(raw.RawRowView(i), row)
		proba.SetRow(i, row)
	}
	return proba, nil
}

// Predict returns the most probable class label per row as an n x 1 matrix.
// Ties go to the smaller label.
func (g *GradientBoostingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := g.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, nClass := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best := 0
		for k := 1; k < nClass; k++ {
			if proba.At(i, k) > proba.At(i, best) {
				best = k
			}
		}
		out.Set(i, 0, float64(g.classes_[best]))
	}
	return out, nil
}

// Score returns the mean accuracy on the given data and labels.
func (g *GradientBoostingClassifier) Score(X, y mat.Matrix) (float64, error) {
	if !g.IsFitted() {
		return 0, errors.NewNotFittedError("GradientBoostingClassifier", "Score")
	}
	pred, err := g.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	yVec := mat.NewVecDense(rows, mat.Col(nil, 0, y))
	predVec := mat.NewVecDense(rows, mat.Col(nil, 0, pred))
	return metrics.Accuracy(yVec, predVec)
}

// TrainingLoss returns the mean log loss on the training data.
func (g *GradientBoostingClassifier) TrainingLoss() float64 {
	return g.trainingLoss_
}

// GetParams returns the parameters of the classifier
func (g *GradientBoostingClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     g.NEstimators,
		"learning_rate":    g.LearningRate,
		"max_depth":        g.MaxDepth,
		"min_samples_leaf": g.MinSamplesLeaf,
		"reg_lambda":       g.RegLambda,
		"random_state":     g.RandomState,
	}
}
