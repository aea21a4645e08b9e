package impute

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/pkg/log"
	"github.com/YuminosukeSato/csvclean/preprocessing"
	"github.com/YuminosukeSato/csvclean/sklearn/ensemble"
	"github.com/YuminosukeSato/csvclean/table"
)

// BoostParams are the hyperparameters of the imputation model.
type BoostParams struct {
	NEstimators  int     `json:"n_estimators" yaml:"n_estimators"`
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	MaxDepth     int     `json:"max_depth" yaml:"max_depth"`
}

// DefaultBoostParams returns 100 rounds, learning rate 0.1 and depth 3.
func DefaultBoostParams() BoostParams {
	return BoostParams{NEstimators: 100, LearningRate: 0.1, MaxDepth: 3}
}

// ModelImputer fills the nulls of a target column with predictions of a
// gradient-boosted model trained on the rows whose target is present. A text
// target is treated as categorical and goes through a classifier.
type ModelImputer struct {
	Target   string
	Features []string
	Params   BoostParams

	logger log.Logger
}

// NewModelImputer creates an imputer for target using features as inputs.
func NewModelImputer(target string, features []string, params BoostParams) *ModelImputer {
	return &ModelImputer{
		Target:   target,
		Features: append([]string(nil), features...),
		Params:   params,
		logger:   log.GetLoggerWithName("impute.model"),
	}
}

// WithLogger replaces the imputer's logger.
func (m *ModelImputer) WithLogger(l log.Logger) *ModelImputer {
	m.logger = l
	return m
}

// ModelResult describes a completed model-based fill.
type ModelResult struct {
	// Rows are the indices of the cells that were filled.
	Rows []int
	// Categorical is set when the target went through a classifier.
	Categorical bool
	// Encoders holds every encoder fitted during the call.
	Encoders *EncoderRegistry
}

// partition splits row indices by whether the target cell is present.
func partition(target *table.Column) (train, test []int) {
	for i, v := range target.Values {
		if v.Null {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}
	return train, test
}

// validate checks that the target and every feature exist.
func (m *ModelImputer) validate(t *table.Table) (*table.Column, []*table.Column, error) {
	target, ok := t.Column(m.Target)
	if !ok {
		return nil, nil, errors.NewValidationError("target", "column does not exist", m.Target)
	}
	if len(m.Features) == 0 {
		return nil, nil, errors.NewValidationError("features", "at least one feature column is required", "[]")
	}

	var missing []string
	features := make([]*table.Column, 0, len(m.Features))
	for _, name := range m.Features {
		if name == m.Target {
			return nil, nil, errors.NewValidationError("features", "the target cannot be a feature", name)
		}
		c, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		features = append(features, c)
	}
	if len(missing) > 0 {
		return nil, nil, errors.NewValidationError("features", "columns do not exist", errors.QuoteList(missing))
	}
	return target, features, nil
}

// encodeFeature returns the feature values of the train and test rows. Text
// features are label encoded on the train rows only; a null text cell is the
// category "nan". Numeric nulls stay NaN.
func encodeFeature(c *table.Column, train, test []int, reg *EncoderRegistry) ([]float64, []float64, error) {
	if c.IsNumeric() {
		return numericRows(c, train), numericRows(c, test), nil
	}

	le := preprocessing.NewLabelEncoder(c.Name)
	trainCodes, err := le.FitTransform(keys(c, train))
	if err != nil {
		return nil, nil, err
	}
	testCodes, err := le.Transform(keys(c, test))
	if err != nil {
		return nil, nil, err
	}
	reg.Register(le)
	return toFloats(trainCodes), toFloats(testCodes), nil
}

func numericRows(c *table.Column, rows []int) []float64 {
	out := make([]float64, len(rows))
	for n, i := range rows {
		if c.Values[i].Null {
			out[n] = math.NaN()
		} else {
			out[n] = c.Values[i].Num
		}
	}
	return out
}

func keys(c *table.Column, rows []int) []string {
	out := make([]string, len(rows))
	for n, i := range rows {
		out[n] = c.Key(i)
	}
	return out
}

func toFloats(codes []int) []float64 {
	out := make([]float64, len(codes))
	for i, c := range codes {
		out[i] = float64(c)
	}
	return out
}

// Impute trains the model and writes its predictions into the null cells of
// the target column. Nothing in t changes unless the call succeeds.
func (m *ModelImputer) Impute(t *table.Table) (*ModelResult, error) {
	if m.logger == nil {
		m.logger = log.GetLoggerWithName("impute.model")
	}
	target, features, err := m.validate(t)
	if err != nil {
		return nil, err
	}

	train, test := partition(target)
	if len(train) == 0 {
		return nil, errors.NewValidationError("target", "no rows with a present value to train on", m.Target)
	}
	if len(test) == 0 {
		return nil, errors.NewValidationError("target", "no missing values to fill", m.Target)
	}

	reg := NewEncoderRegistry()
	categorical := !target.IsNumeric()

	var targetEncoder *preprocessing.LabelEncoder
	var y []float64
	if categorical {
		targetEncoder = preprocessing.NewLabelEncoder(target.Name)
		codes, err := targetEncoder.FitTransform(keys(target, train))
		if err != nil {
			return nil, err
		}
		reg.Register(targetEncoder)
		y = toFloats(codes)
	} else {
		y = numericRows(target, train)
	}

	xTrain := mat.NewDense(len(train), len(features), nil)
	xTest := mat.NewDense(len(test), len(features), nil)
	for j, c := range features {
		trainVals, testVals, err := encodeFeature(c, train, test, reg)
		if err != nil {
			return nil, err
		}
		xTrain.SetCol(j, trainVals)
		xTest.SetCol(j, testVals)
	}
	yTrain := mat.NewDense(len(train), 1, y)

	m.logger.Debug("Training imputation model",
		log.TargetKey, m.Target,
		log.SamplesKey, len(train),
		log.FeaturesKey, len(features),
		log.NEstimatorsKey, m.Params.NEstimators,
		log.LearningRateKey, m.Params.LearningRate,
		log.MaxDepthKey, m.Params.MaxDepth)

	var values []table.Value
	if categorical {
		values, err = m.fitClassifier(xTrain, yTrain, xTest, targetEncoder)
	} else {
		values, err = m.fitRegressor(xTrain, yTrain, xTest)
	}
	if err != nil {
		return nil, err
	}

	for n, i := range test {
		target.Set(i, values[n])
	}
	return &ModelResult{Rows: test, Categorical: categorical, Encoders: reg}, nil
}

func (m *ModelImputer) fitRegressor(xTrain, yTrain, xTest *mat.Dense) ([]table.Value, error) {
	reg := ensemble.NewGradientBoostingRegressor().
		WithNEstimators(m.Params.NEstimators).
		WithLearningRate(m.Params.LearningRate).
		WithMaxDepth(m.Params.MaxDepth).
		WithRandomState(0)
	if err := reg.Fit(xTrain, yTrain); err != nil {
		return nil, errors.NewTrainingError("GradientBoostingRegressor", err)
	}

	if r2, err := reg.Score(xTrain, yTrain); err == nil {
		m.logger.Info("Imputation model fitted",
			log.ModelNameKey, "GradientBoostingRegressor",
			log.R2ScoreKey, r2,
			log.LossKey, reg.TrainingLoss())
	} else {
		m.logger.Debug("In-sample R² unavailable", log.ErrAttrKey, err)
	}

	pred, err := reg.Predict(xTest)
	if err != nil {
		return nil, errors.NewTrainingError("GradientBoostingRegressor", err)
	}
	rows, _ := pred.Dims()
	values := make([]table.Value, rows)
	for i := range values {
		values[i] = table.Num(pred.At(i, 0))
	}
	return values, nil
}

func (m *ModelImputer) fitClassifier(xTrain, yTrain, xTest *mat.Dense, le *preprocessing.LabelEncoder) ([]table.Value, error) {
	clf := ensemble.NewGradientBoostingClassifier().
		WithNEstimators(m.Params.NEstimators).
		WithLearningRate(m.Params.LearningRate).
		WithMaxDepth(m.Params.MaxDepth).
		WithRandomState(0)
	if err := clf.Fit(xTrain, yTrain); err != nil {
		return nil, errors.NewTrainingError("GradientBoostingClassifier", err)
	}

	if acc, err := clf.Score(xTrain, yTrain); err == nil {
		m.logger.Info("Imputation model fitted",
			log.ModelNameKey, "GradientBoostingClassifier",
			log.ClassesKey, len(clf.Classes()),
			log.AccuracyKey, acc,
			log.LossKey, clf.TrainingLoss())
	}

	pred, err := clf.Predict(xTest)
	if err != nil {
		return nil, errors.NewTrainingError("GradientBoostingClassifier", err)
	}
	rows, _ := pred.Dims()
	codes := make([]int, rows)
	for i := range codes {
		codes[i] = int(pred.At(i, 0))
	}
	labels, err := le.InverseTransform(codes)
	if err != nil {
		return nil, err
	}
	values := make([]table.Value, rows)
	for i, l := range labels {
		values[i] = table.Str(l)
	}
	return values, nil
}
