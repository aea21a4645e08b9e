package ensemble

import (
	"math"
)

// NodeType represents the type of a tree node
type NodeType int

const (
	// LeafNode represents a terminal node with a value
	LeafNode NodeType = iota
	// NumericalNode represents a node with a numerical split
	NumericalNode
)

// Node represents a single node in a regression tree.
type Node struct {
	NodeID     int      // Index of the node in Tree.Nodes
	ParentID   int      // Parent node index (-1 for root)
	LeftChild  int      // Left child index (-1 if leaf)
	RightChild int      // Right child index (-1 if leaf)
	NodeType   NodeType // Type of the node

	// Split information (for non-leaf nodes)
	SplitFeature int     // Feature index used for splitting
	Threshold    float64 // Samples with value <= Threshold go left
	DefaultLeft  bool    // Direction for missing (NaN) values
	Gain         float64 // Split gain (reduction in loss)

	// Leaf information (for leaf nodes)
	LeafValue float64 // Unshrunk leaf output
	LeafCount int     // Number of training samples at leaf
}

// IsLeaf returns true if the node is a leaf node
func (n *Node) IsLeaf() bool {
	return n.NodeType == LeafNode
}

// Tree is one boosted tree. Its contribution to a raw score is the leaf value
// scaled by ShrinkageRate.
type Tree struct {
	TreeIndex     int     // Boosting iteration that produced the tree
	Output        int     // Raw score (class) the tree contributes to
	NumLeaves     int     // Number of leaf nodes
	ShrinkageRate float64 // Learning rate applied to this tree

	Nodes []Node
}

// leafFor walks the tree for one sample and returns the reached leaf.
func (t *Tree) leafFor(features []float64) *Node {
	nodeID := 0
	for nodeID >= 0 && nodeID < len(t.Nodes) {
		node := &t.Nodes[nodeID]
		if node.IsLeaf() {
			return node
		}

		v := features[node.SplitFeature]
		switch {
		case math.IsNaN(v):
			if node.DefaultLeft {
				nodeID = node.LeftChild
			} else {
				nodeID = node.RightChild
			}
		case v <= node.Threshold:
			nodeID = node.LeftChild
		default:
			nodeID = node.RightChild
		}
	}
	return nil
}

// Predict returns the shrunk contribution of this tree for one sample.
func (t *Tree) Predict(features []float64) float64 {
	leaf := t.leafFor(features)
	if leaf == nil {
		return 0
	}
	return leaf.LeafValue * t.ShrinkageRate
}

// Depth returns the number of split levels on the longest path.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(id int) int
	walk = func(id int) int {
		n := &t.Nodes[id]
		if n.IsLeaf() {
			return 0
		}
		l, r := walk(n.LeftChild), walk(n.RightChild)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}
