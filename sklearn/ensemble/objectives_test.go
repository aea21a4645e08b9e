package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

func TestCreateObjectiveFunction(t *testing.T) {
	for _, name := range []string{"", "regression", "l2", "mse"} {
		obj, err := CreateObjectiveFunction(name, 1)
		require.NoError(t, err)
		assert.Equal(t, ObjectiveRegression, obj.Name())
	}

	obj, err := CreateObjectiveFunction(ObjectiveBinary, 2)
	require.NoError(t, err)
	assert.Equal(t, ObjectiveBinary, obj.Name())

	_, err = CreateObjectiveFunction(ObjectiveMulticlass, 2)
	assert.True(t, errors.IsValidationError(err))

	_, err = CreateObjectiveFunction("poisson", 1)
	assert.True(t, errors.IsValidationError(err))
}

func TestL2Objective(t *testing.T) {
	obj := &L2Objective{}
	grad, hess := make([]float64, 1), make([]float64, 1)
	obj.GradHess([]float64{3}, 1, grad, hess)
	assert.Equal(t, 2.0, grad[0])
	assert.Equal(t, 1.0, hess[0])
	assert.Equal(t, 2.0, obj.Loss([]float64{3}, 1))
	assert.Equal(t, []float64{2}, obj.InitScores([]float64{1, 2, 3}))
}

func TestBinaryLoglossObjective(t *testing.T) {
	obj := &BinaryLoglossObjective{}
	init := obj.InitScores([]float64{0, 0, 0, 1})
	assert.InDelta(t, math.Log(0.25/0.75), init[0], 1e-12)

	grad, hess := make([]float64, 1), make([]float64, 1)
	obj.GradHess([]float64{0}, 1, grad, hess)
	assert.InDelta(t, -0.5, grad[0], 1e-12)
	assert.InDelta(t, 0.25, hess[0], 1e-12)
	assert.InDelta(t, math.Log(2), obj.Loss([]float64{0}, 1), 1e-12)
}

func TestSoftmaxObjective(t *testing.T) {
	obj := &SoftmaxObjective{numClass: 3}
	grad, hess := make([]float64, 3), make([]float64, 3)
	obj.GradHess([]float64{0, 0, 0}, 1, grad, hess)

	assert.InDelta(t, 1.0/3, grad[0], 1e-12)
	assert.InDelta(t, 1.0/3-1, grad[1], 1e-12)
	assert.InDelta(t, 0, grad[0]+grad[1]+grad[2], 1e-12)
	assert.InDelta(t, 2.0/9, hess[2], 1e-12)
	assert.InDelta(t, math.Log(3), obj.Loss([]float64{0, 0, 0}, 2), 1e-12)

	init := obj.InitScores([]float64{0, 0, 1, 2})
	assert.InDelta(t, math.Log(0.5), init[0], 1e-12)
	assert.InDelta(t, math.Log(0.25), init[2], 1e-12)
}
