package ensemble

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/pkg/log"
)

// Trainer grows boosted trees depth-wise with an exact greedy split search.
// Missing feature values (NaN) are sent to whichever side gives the larger
// gain, and that side is stored as the node's default direction.
type Trainer struct {
	params TrainingParams

	// Data
	X       *mat.Dense
	targets []float64

	// orderedIdx holds, per feature, the non-NaN sample indices sorted by value.
	orderedIdx [][]int
	inNode     []bool

	// Gradient and Hessian, numSamples x numOutputs
	gradients []float64
	hessians  []float64
	scores    []float64

	objective  ObjectiveFunction
	numOutputs int
	initScores []float64

	trees []Tree
	loss  float64
}

// SplitInfo contains information about a candidate split
type SplitInfo struct {
	Feature     int
	Threshold   float64
	Gain        float64
	DefaultLeft bool
	Found       bool
}

// NewTrainer creates a trainer. Zero values take the defaults of
// DefaultTrainingParams.
func NewTrainer(params TrainingParams) *Trainer {
	def := DefaultTrainingParams()
	if params.NumIterations == 0 {
		params.NumIterations = def.NumIterations
	}
	if params.LearningRate == 0 {
		params.LearningRate = def.LearningRate
	}
	if params.MaxDepth == 0 {
		params.MaxDepth = def.MaxDepth
	}
	if params.MinDataInLeaf == 0 {
		params.MinDataInLeaf = def.MinDataInLeaf
	}
	if params.Objective == "" {
		params.Objective = def.Objective
	}
	return &Trainer{params: params}
}

// Fit trains the ensemble. targets are in objective space: raw values for
// regression, 0/1 for binary and class indices for multiclass.
func (t *Trainer) Fit(X mat.Matrix, targets []float64) error {
	if err := t.params.Validate(); err != nil {
		return err
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewValueError("Trainer.Fit", "no training samples")
	}
	if len(targets) != rows {
		return errors.NewDimensionError("Trainer.Fit", rows, len(targets), 0)
	}
	if err := errors.CheckNumericalStability("Trainer.Fit", targets, 0); err != nil {
		return err
	}

	obj, err := CreateObjectiveFunction(t.params.Objective, t.params.NumClass)
	if err != nil {
		return err
	}
	t.objective = obj
	t.numOutputs = t.params.numOutputs()
	t.X = mat.DenseCopyOf(X)
	t.targets = targets
	t.initialize()

	logger := log.GetLoggerWithName("ensemble.trainer")
	for iter := 0; iter < t.params.NumIterations; iter++ {
		t.calculateGradients()
		for k := 0; k < t.numOutputs; k++ {
			tree := t.buildTree(iter, k)
			t.trees = append(t.trees, tree)
		}

		t.loss = t.calculateLoss()
		if err := errors.CheckNumericalStability("Trainer.Fit", []float64{t.loss}, iter); err != nil {
			return err
		}
		if t.params.Verbosity > 0 && iter%10 == 0 {
			logger.Debug("Training progress",
				log.IterationKey, iter,
				log.LossKey, t.loss)
		}
	}
	return nil
}

// initialize prepares scores, gradient buffers and presorted feature indices.
func (t *Trainer) initialize() {
	rows, cols := t.X.Dims()
	k := t.numOutputs

	t.initScores = t.objective.InitScores(t.targets)
	t.scores = make([]float64, rows*k)
	for i := 0; i < rows; i++ {
		copy(t.scores[i*k:(i+1)*k], t.initScores)
	}
	t.gradients = make([]float64, rows*k)
	t.hessians = make([]float64, rows*k)
	t.inNode = make([]bool, rows)
	t.trees = nil

	t.orderedIdx = make([][]int, cols)
	for j := 0; j < cols; j++ {
		indices := make([]int, 0, rows)
		for i := 0; i < rows; i++ {
			if !math.IsNaN(t.X.At(i, j)) {
				indices = append(indices, i)
			}
		}
		feature := j
		sort.SliceStable(indices, func(a, b int) bool {
			return t.X.At(indices[a], feature) < t.X.At(indices[b], feature)
		})
		t.orderedIdx[j] = indices
	}
}

// calculateGradients computes gradients and hessians for current scores
func (t *Trainer) calculateGradients() {
	k := t.numOutputs
	for i, target := range t.targets {
		lo, hi := i*k, (i+1)*k
		t.objective.GradHess(t.scores[lo:hi], target, t.gradients[lo:hi], t.hessians[lo:hi])
	}
}

// buildTree grows one tree for output k and adds its shrunk leaf values to
// the cached scores of the samples that reach each leaf.
func (t *Trainer) buildTree(iter, k int) Tree {
	tree := Tree{
		TreeIndex:     iter,
		Output:        k,
		ShrinkageRate: t.params.LearningRate,
	}
	rows, _ := t.X.Dims()
	root := make([]int, rows)
	for i := range root {
		root[i] = i
	}
	t.buildNode(&tree, root, -1, 0, k)
	return tree
}

func (t *Trainer) buildNode(tree *Tree, indices []int, parentIdx, depth, k int) int {
	nodeIdx := len(tree.Nodes)

	var split SplitInfo
	if depth < t.params.MaxDepth && len(indices) >= 2*t.params.MinDataInLeaf {
		split = t.findBestSplit(indices, k)
	}
	if !split.Found || split.Gain <= t.params.MinGainToSplit {
		leafValue := t.calculateLeafValue(indices, k)
		tree.Nodes = append(tree.Nodes, Node{
			NodeID:     nodeIdx,
			ParentID:   parentIdx,
			NodeType:   LeafNode,
			LeafValue:  leafValue,
			LeafCount:  len(indices),
			LeftChild:  -1,
			RightChild: -1,
		})
		tree.NumLeaves++
		for _, i := range indices {
			t.scores[i*t.numOutputs+k] += leafValue * tree.ShrinkageRate
		}
		return nodeIdx
	}

	tree.Nodes = append(tree.Nodes, Node{
		NodeID:       nodeIdx,
		ParentID:     parentIdx,
		NodeType:     NumericalNode,
		SplitFeature: split.Feature,
		Threshold:    split.Threshold,
		DefaultLeft:  split.DefaultLeft,
		Gain:         split.Gain,
	})

	left, right := t.splitData(indices, split)
	leftChild := t.buildNode(tree, left, nodeIdx, depth+1, k)
	rightChild := t.buildNode(tree, right, nodeIdx, depth+1, k)
	tree.Nodes[nodeIdx].LeftChild = leftChild
	tree.Nodes[nodeIdx].RightChild = rightChild
	return nodeIdx
}

// findBestSplit scans every feature in order and keeps the first split with
// the strictly largest gain.
func (t *Trainer) findBestSplit(indices []int, k int) SplitInfo {
	for _, i := range indices {
		t.inNode[i] = true
	}
	defer func() {
		for _, i := range indices {
			t.inNode[i] = false
		}
	}()

	var totalGrad, totalHess float64
	for _, i := range indices {
		totalGrad += t.gradients[i*t.numOutputs+k]
		totalHess += t.hessians[i*t.numOutputs+k]
	}

	best := SplitInfo{Gain: -math.MaxFloat64}
	_, cols := t.X.Dims()
	for j := 0; j < cols; j++ {
		split := t.findBestSplitForFeature(j, len(indices), totalGrad, totalHess, k)
		if split.Found && split.Gain > best.Gain {
			best = split
		}
	}
	return best
}

// findBestSplitForFeature evaluates every boundary between distinct values of
// one feature, once with missing values on the right and once on the left,
// plus the split that separates missing values from all present ones.
func (t *Trainer) findBestSplitForFeature(feature, nodeSize int, totalGrad, totalHess float64, k int) SplitInfo {
	ordered := make([]int, 0, nodeSize)
	for _, i := range t.orderedIdx[feature] {
		if t.inNode[i] {
			ordered = append(ordered, i)
		}
	}
	best := SplitInfo{Feature: feature, Gain: -math.MaxFloat64}
	if len(ordered) == 0 {
		return best
	}

	// Whatever the present samples do not account for is missing.
	var presentGrad, presentHess float64
	for _, i := range ordered {
		presentGrad += t.gradients[i*t.numOutputs+k]
		presentHess += t.hessians[i*t.numOutputs+k]
	}
	missGrad, missHess := totalGrad-presentGrad, totalHess-presentHess
	missCount := nodeSize - len(ordered)

	minLeaf := t.params.MinDataInLeaf
	var leftGrad, leftHess float64
	for n := 0; n < len(ordered)-1; n++ {
		i := ordered[n]
		leftGrad += t.gradients[i*t.numOutputs+k]
		leftHess += t.hessians[i*t.numOutputs+k]

		value, next := t.X.At(i, feature), t.X.At(ordered[n+1], feature)
		if value == next {
			continue
		}
		leftCount := n + 1
		rightCount := len(ordered) - leftCount

		// Missing values go right.
		if leftCount >= minLeaf && rightCount+missCount >= minLeaf {
			gain := t.calculateSplitGain(leftGrad, leftHess, totalGrad-leftGrad, totalHess-leftHess, totalGrad, totalHess)
			if gain > best.Gain {
				best = SplitInfo{Feature: feature, Threshold: (value + next) / 2, Gain: gain, Found: true}
			}
		}
		if missCount == 0 {
			continue
		}
		// Missing values go left.
		if leftCount+missCount >= minLeaf && rightCount >= minLeaf {
			lg, lh := leftGrad+missGrad, leftHess+missHess
			gain := t.calculateSplitGain(lg, lh, totalGrad-lg, totalHess-lh, totalGrad, totalHess)
			if gain > best.Gain {
				best = SplitInfo{Feature: feature, Threshold: (value + next) / 2, Gain: gain, DefaultLeft: true, Found: true}
			}
		}
	}

	// Present values on the left, missing values alone on the right.
	if missCount >= minLeaf && len(ordered) >= minLeaf {
		gain := t.calculateSplitGain(presentGrad, presentHess, missGrad, missHess, totalGrad, totalHess)
		if gain > best.Gain {
			last := t.X.At(ordered[len(ordered)-1], feature)
			best = SplitInfo{Feature: feature, Threshold: last, Gain: gain, Found: true}
		}
	}
	return best
}

// calculateSplitGain calculates the gain from a split
func (t *Trainer) calculateSplitGain(leftGrad, leftHess, rightGrad, rightHess, totalGrad, totalHess float64) float64 {
	const epsilon = 1e-10
	lambda := t.params.Lambda

	leftScore := (leftGrad * leftGrad) / (leftHess + lambda + epsilon)
	rightScore := (rightGrad * rightGrad) / (rightHess + lambda + epsilon)
	totalScore := (totalGrad * totalGrad) / (totalHess + lambda + epsilon)

	return 0.5 * (leftScore + rightScore - totalScore)
}

// splitData splits indices based on a split decision
func (t *Trainer) splitData(indices []int, split SplitInfo) ([]int, []int) {
	var left, right []int
	for _, i := range indices {
		v := t.X.At(i, split.Feature)
		goLeft := v <= split.Threshold
		if math.IsNaN(v) {
			goLeft = split.DefaultLeft
		}
		if goLeft {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

// calculateLeafValue calculates the optimal value for a leaf node
func (t *Trainer) calculateLeafValue(indices []int, k int) float64 {
	const epsilon = 1e-10
	var sumGrad, sumHess float64
	for _, i := range indices {
		sumGrad += t.gradients[i*t.numOutputs+k]
		sumHess += t.hessians[i*t.numOutputs+k]
	}
	return -sumGrad / (sumHess + t.params.Lambda + epsilon)
}

// calculateLoss returns the mean training loss over cached scores.
func (t *Trainer) calculateLoss() float64 {
	k := t.numOutputs
	loss := 0.0
	for i, target := range t.targets {
		loss += t.objective.Loss(t.scores[i*k:(i+1)*k], target)
	}
	return loss / float64(len(t.targets))
}

// Loss returns the mean training loss after the last iteration.
func (t *Trainer) Loss() float64 {
	return t.loss
}

// GetModel returns the trained model
func (t *Trainer) GetModel() *Model {
	_, cols := t.X.Dims()
	return &Model{
		Trees:        t.trees,
		InitScores:   append([]float64(nil), t.initScores...),
		NumOutputs:   t.numOutputs,
		NumFeatures:  cols,
		NumIteration: t.params.NumIterations,
		Objective:    t.objective.Name(),
		LearningRate: t.params.LearningRate,
		MaxDepth:     t.params.MaxDepth,
	}
}
