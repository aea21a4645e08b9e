package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/core/model"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

var _ model.Classifier = (*GradientBoostingClassifier)(nil)

func bandedLabels(n, width int, labels []float64) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, labels[i/width])
	}
	return X, y
}

func TestGradientBoostingClassifierBinary(t *testing.T) {
	X, y := bandedLabels(20, 10, []float64{3, 7})

	clf := NewGradientBoostingClassifier()
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, []int{3, 7}, clf.Classes())
	assert.Equal(t, 1, clf.Model.NumOutputs)

	pred, err := clf.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		assert.Equal(t, y.At(i, 0), pred.At(i, 0), "row %d", i)
	}

	proba, err := clf.PredictProba(mat.NewDense(2, 1, []float64{0, 19}))
	require.NoError(t, err)
	assert.Greater(t, proba.At(0, 0), 0.9)
	assert.Greater(t, proba.At(1, 1), 0.9)
	assert.InDelta(t, 1.0, proba.At(0, 0)+proba.At(0, 1), 1e-12)

	score, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestGradientBoostingClassifierMulticlass(t *testing.T) {
	X, y := bandedLabels(30, 10, []float64{0, 1, 2})

	clf := NewGradientBoostingClassifier().WithNEstimators(50)
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, []int{0, 1, 2}, clf.Classes())
	assert.Len(t, clf.Model.Trees, 50*3)

	pred, err := clf.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		assert.Equal(t, y.At(i, 0), pred.At(i, 0), "row %d", i)
	}

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	rows, cols := proba.Dims()
	assert.Equal(t, 30, rows)
	assert.Equal(t, 3, cols)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, mat.Sum(proba.(*mat.Dense).RowView(i)), 1e-9)
	}
}

func TestGradientBoostingClassifierErrors(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	tests := []struct {
		name   string
		labels []float64
	}{
		{"single class", []float64{1, 1, 1, 1}},
		{"negative label", []float64{0, 1, -1, 0}},
		{"fractional label", []float64{0, 1, 0.5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := NewGradientBoostingClassifier()
			err := clf.Fit(X, mat.NewDense(4, 1, tt.labels))
			assert.True(t, errors.IsValidationError(err), "got %v", err)
			assert.False(t, clf.IsFitted())
		})
	}

	t.Run("single class message", func(t *testing.T) {
		err := NewGradientBoostingClassifier().Fit(X, mat.NewDense(4, 1, []float64{2, 2, 2, 2}))
		assert.Contains(t, err.Error(), "single class")
	})

	t.Run("not fitted", func(t *testing.T) {
		_, err := NewGradientBoostingClassifier().PredictProba(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})
}
