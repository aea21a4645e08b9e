package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

func TestLabelEncoderFitTransform(t *testing.T) {
	le := NewLabelEncoder("city")

	codes, err := le.FitTransform([]string{"Tokyo", "Osaka", "Tokyo", "Kyoto"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Kyoto", "Osaka", "Tokyo"}, le.Classes)
	assert.Equal(t, []int{2, 1, 2, 0}, codes)
	assert.Equal(t, 3, le.NClasses())
	assert.True(t, le.IsFitted())
}

func TestLabelEncoderInverseRoundTrip(t *testing.T) {
	le := NewLabelEncoder("grade")
	labels := []string{"b", "a", "c", "a", "nan"}

	codes, err := le.FitTransform(labels)
	require.NoError(t, err)

	back, err := le.InverseTransform(codes)
	require.NoError(t, err)
	assert.Equal(t, labels, back)
}

func TestLabelEncoderUnseenCategory(t *testing.T) {
	le := NewLabelEncoder("city")
	require.NoError(t, le.Fit([]string{"Tokyo", "Osaka"}))

	_, err := le.Transform([]string{"Tokyo", "Nagoya"})
	require.Error(t, err)
	assert.True(t, errors.IsEncodingError(err))
	assert.Contains(t, err.Error(), "city")
	assert.Contains(t, err.Error(), "Nagoya")
}

func TestLabelEncoderErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(le *LabelEncoder) error
	}{
		{"transform before fit", func(le *LabelEncoder) error {
			_, err := le.Transform([]string{"a"})
			return err
		}},
		{"inverse before fit", func(le *LabelEncoder) error {
			_, err := le.InverseTransform([]int{0})
			return err
		}},
		{"fit on empty", func(le *LabelEncoder) error {
			return le.Fit(nil)
		}},
		{"inverse out of range", func(le *LabelEncoder) error {
			if err := le.Fit([]string{"a"}); err != nil {
				return nil
			}
			_, err := le.InverseTransform([]int{1})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.run(NewLabelEncoder("")))
		})
	}
}

func TestLabelEncoderString(t *testing.T) {
	le := NewLabelEncoder("x")
	assert.Equal(t, `LabelEncoder(column="x", fitted=false)`, le.String())
	require.NoError(t, le.Fit([]string{"p", "q"}))
	assert.Equal(t, `LabelEncoder(column="x", classes=2)`, le.String())
	assert.Equal(t, 2, le.GetParams()["n_classes"])
}
