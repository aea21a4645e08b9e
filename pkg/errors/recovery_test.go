package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverConvertsPanic(t *testing.T) {
	fit := func() (err error) {
		defer Recover(&err, "GradientBoostingRegressor.Fit")
		var nodes []int
		_ = nodes[3]
		return nil
	}

	err := fit()
	require.Error(t, err)

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "GradientBoostingRegressor.Fit", panicErr.Operation)
	assert.NotEmpty(t, panicErr.StackTrace)
	assert.Contains(t, panicErr.String(), "Stack trace:")
}

func TestRecoverWithoutPanic(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err, "noop")
		return nil
	}
	assert.NoError(t, fn())
}

func TestRecoverKeepsExistingError(t *testing.T) {
	original := fmt.Errorf("original error")
	fn := func() (err error) {
		defer Recover(&err, "Predict")
		err = original
		panic("after error")
	}

	err := fn()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in Predict")
	assert.True(t, errors.Is(err, original))
}

func TestSafeExecute(t *testing.T) {
	assert.NoError(t, SafeExecute("ok", func() error { return nil }))

	sentinel := fmt.Errorf("function error")
	assert.Equal(t, sentinel, SafeExecute("fails", func() error { return sentinel }))

	err := SafeExecute("panics", func() error { panic("boom") })
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.PanicValue)
}
