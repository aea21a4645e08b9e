package ensemble

import (
	"math"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// Objective names accepted by CreateObjectiveFunction.
const (
	ObjectiveRegression = "regression"
	ObjectiveBinary     = "binary"
	ObjectiveMulticlass = "multiclass"
)

// ObjectiveFunction computes per-sample gradients and hessians of a loss over
// raw scores. A sample has one raw score per output; single-output objectives
// use a slice of length one.
type ObjectiveFunction interface {
	// GradHess writes the gradient and hessian of each output for one sample.
	GradHess(scores []float64, target float64, grad, hess []float64)

	// Loss returns the loss of one sample.
	Loss(scores []float64, target float64) float64

	// InitScores returns the starting raw score of each output.
	InitScores(targets []float64) []float64

	// Name returns the name of the objective
	Name() string
}

// CreateObjectiveFunction returns the objective registered under name.
func CreateObjectiveFunction(name string, numClass int) (ObjectiveFunction, error) {
	switch name {
	case "", ObjectiveRegression, "l2", "mse":
		return &L2Objective{}, nil
	case ObjectiveBinary:
		return &BinaryLoglossObjective{}, nil
	case ObjectiveMulticlass:
		if numClass < 3 {
			return nil, errors.NewValidationError("num_class", "multiclass needs at least 3 classes", numClass)
		}
		return &SoftmaxObjective{numClass: numClass}, nil
	}
	return nil, errors.NewValidationError("objective", "unknown objective", name)
}

// L2Objective implements L2 (Mean Squared Error) loss
type L2Objective struct{}

func (o *L2Objective) GradHess(scores []float64, target float64, grad, hess []float64) {
	grad[0] = scores[0] - target
	hess[0] = 1.0
}

func (o *L2Objective) Loss(scores []float64, target float64) float64 {
	diff := scores[0] - target
	return 0.5 * diff * diff
}

// InitScores starts from the target mean.
func (o *L2Objective) InitScores(targets []float64) []float64 {
	if len(targets) == 0 {
		return []float64{0}
	}
	sum := 0.0
	for _, t := range targets {
		sum += t
	}
	return []float64{sum / float64(len(targets))}
}

func (o *L2Objective) Name() string {
	return ObjectiveRegression
}

// BinaryLoglossObjective implements the logistic loss for targets in {0, 1}.
type BinaryLoglossObjective struct{}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + errors.StabilizeExp(-x))
}

func (o *BinaryLoglossObjective) GradHess(scores []float64, target float64, grad, hess []float64) {
	p := sigmoid(scores[0])
	grad[0] = p - target
	hess[0] = math.Max(p*(1.0-p), 1e-16)
}

func (o *BinaryLoglossObjective) Loss(scores []float64, target float64) float64 {
	// log(1 + exp(s)) - y*s
	return errors.LogSumExp([]float64{0, scores[0]}) - target*scores[0]
}

// InitScores starts from the log-odds of the positive rate.
func (o *BinaryLoglossObjective) InitScores(targets []float64) []float64 {
	if len(targets) == 0 {
		return []float64{0}
	}
	pos := 0.0
	for _, t := range targets {
		pos += t
	}
	p := pos / float64(len(targets))
	p = math.Min(math.Max(p, 1e-15), 1-1e-15)
	return []float64{math.Log(p / (1 - p))}
}

func (o *BinaryLoglossObjective) Name() string {
	return ObjectiveBinary
}

// SoftmaxObjective implements multiclass cross-entropy with softmax. The
// target is the class index.
type SoftmaxObjective struct {
	numClass int
}

// softmax writes the stable softmax of logits into out.
func softmax(logits, out []float64) {
	lse := errors.LogSumExp(logits)
	for k, v := range logits {
		out[k] = math.Exp(v - lse)
	}
}

func (o *SoftmaxObjective) GradHess(scores []float64, target float64, grad, hess []float64) {
	softmax(scores, grad)
	trueClass := int(target)
	for k := range grad {
		p := grad[k]
		// Hessian: p_k * (1 - p_k) (diagonal approximation)
		hess[k] = math.Max(p*(1.0-p), 1e-16)
		if k == trueClass {
			grad[k] = p - 1.0
		}
	}
}

func (o *SoftmaxObjective) Loss(scores []float64, target float64) float64 {
	return errors.LogSumExp(scores) - scores[int(target)]
}

// InitScores starts from the log prior of each class.
func (o *SoftmaxObjective) InitScores(targets []float64) []float64 {
	counts := make([]float64, o.numClass)
	for _, t := range targets {
		counts[int(t)]++
	}
	init := make([]float64, o.numClass)
	for k, c := range counts {
		p := math.Max(c/float64(len(targets)), 1e-15)
		init[k] = math.Log(p)
	}
	return init
}

func (o *SoftmaxObjective) Name() string {
	return ObjectiveMulticlass
}
