package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// Model is a trained boosted ensemble.
type Model struct {
	Trees        []Tree
	InitScores   []float64
	NumOutputs   int
	NumFeatures  int
	NumIteration int
	Objective    string
	LearningRate float64
	MaxDepth     int
}

// RawScores returns the untransformed ensemble output, one column per output.
func (m *Model) RawScores(X mat.Matrix) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if cols != m.NumFeatures {
		return nil, errors.NewDimensionError("RawScores", m.NumFeatures, cols, 1)
	}
	out := mat.NewDense(rows, m.NumOutputs, nil)
	features := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(features, i, X)
		for k, s := range m.InitScores {
			out.Set(i, k, s)
		}
		for ti := range m.Trees {
			tree := &m.Trees[ti]
			out.Set(i, tree.Output, out.At(i, tree.Output)+tree.Predict(features))
		}
	}
	return out, nil
}
