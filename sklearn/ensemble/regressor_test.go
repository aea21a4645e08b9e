package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/core/model"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

var (
	_ model.Regressor       = (*GradientBoostingRegressor)(nil)
	_ model.ParameterGetter = (*GradientBoostingRegressor)(nil)
)

// stepData returns x = 0..n-1 with y = 0 below n/2 and 10 above.
func stepData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		if i >= n/2 {
			y.Set(i, 0, 10)
		}
	}
	return X, y
}

func TestGradientBoostingRegressorFitsStepFunction(t *testing.T) {
	X, y := stepData(20)

	reg := NewGradientBoostingRegressor()
	require.NoError(t, reg.Fit(X, y))
	assert.True(t, reg.IsFitted())

	pred, err := reg.Predict(X)
	require.NoError(t, err)
	rows, cols := pred.Dims()
	assert.Equal(t, 20, rows)
	assert.Equal(t, 1, cols)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, y.At(i, 0), pred.At(i, 0), 0.05, "row %d", i)
	}

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.99)
	assert.Less(t, reg.TrainingLoss(), 0.01)
}

func TestGradientBoostingRegressorRoutesMissingValues(t *testing.T) {
	nan := math.NaN()
	X := mat.NewDense(6, 1, []float64{1, 2, 3, nan, nan, nan})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 10, 10, 10})

	reg := NewGradientBoostingRegressor()
	require.NoError(t, reg.Fit(X, y))

	pred, err := reg.Predict(mat.NewDense(2, 1, []float64{2, nan}))
	require.NoError(t, err)
	assert.InDelta(t, 0, pred.At(0, 0), 0.1)
	assert.InDelta(t, 10, pred.At(1, 0), 0.1)
}

func TestGradientBoostingRegressorDeterministic(t *testing.T) {
	X := mat.NewDense(30, 2, nil)
	y := mat.NewDense(30, 1, nil)
	for i := 0; i < 30; i++ {
		X.Set(i, 0, float64(i%7))
		X.Set(i, 1, float64(i%5))
		y.Set(i, 0, float64(i%7)*2+float64(i%5))
	}

	a := NewGradientBoostingRegressor().WithRandomState(0)
	b := NewGradientBoostingRegressor().WithRandomState(0)
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	pa, err := a.Predict(X)
	require.NoError(t, err)
	pb, err := b.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(pa, pb))
}

func TestGradientBoostingRegressorTreeShape(t *testing.T) {
	X, y := stepData(40)
	reg := NewGradientBoostingRegressor().WithNEstimators(7).WithMaxDepth(2).WithLearningRate(0.3)
	require.NoError(t, reg.Fit(X, y))

	assert.Len(t, reg.Model.Trees, 7)
	for _, tree := range reg.Model.Trees {
		assert.LessOrEqual(t, tree.Depth(), 2)
		assert.Equal(t, 0.3, tree.ShrinkageRate)
	}
	assert.Equal(t, map[string]interface{}{
		"n_estimators":     7,
		"learning_rate":    0.3,
		"max_depth":        2,
		"min_samples_leaf": 1,
		"reg_lambda":       1.0,
		"random_state":     0,
	}, reg.GetParams())
}

func TestGradientBoostingRegressorErrors(t *testing.T) {
	X, y := stepData(10)

	t.Run("not fitted", func(t *testing.T) {
		_, err := NewGradientBoostingRegressor().Predict(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewGradientBoostingRegressor().Fit(X, mat.NewDense(3, 1, nil))
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("width mismatch on predict", func(t *testing.T) {
		reg := NewGradientBoostingRegressor().WithNEstimators(3)
		require.NoError(t, reg.Fit(X, y))
		_, err := reg.Predict(mat.NewDense(2, 3, nil))
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("invalid params", func(t *testing.T) {
		tests := []*GradientBoostingRegressor{
			NewGradientBoostingRegressor().WithNEstimators(0),
			NewGradientBoostingRegressor().WithLearningRate(0),
			NewGradientBoostingRegressor().WithMaxDepth(0),
		}
		for _, reg := range tests {
			err := reg.Fit(X, y)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
			assert.False(t, reg.IsFitted())
		}
	})

	t.Run("nan target", func(t *testing.T) {
		bad := mat.NewDense(2, 1, []float64{1, math.NaN()})
		err := NewGradientBoostingRegressor().Fit(mat.NewDense(2, 1, []float64{1, 2}), bad)
		require.Error(t, err)
		var me *errors.ModelError
		assert.True(t, errors.As(err, &me))
	})
}
