package classifier

import "fmt"

const leaf = -1

// Tree holds the node arrays of one fitted decision tree. Node 0 is the
// root; a node whose left child is -1 is a leaf and Value[node] holds its
// per-class weights.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest averages the class distributions of its trees.
type Forest struct {
	NFeatures int     `json:"n_features"`
	Classes   []int   `json:"classes"`
	Trees     []*Tree `json:"trees"`
}

func (f *Forest) validate() error {
	if len(f.Classes) != 2 {
		return fmt.Errorf("forest must have exactly 2 classes, got %d", len(f.Classes))
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i, t := range f.Trees {
		if t == nil {
			return fmt.Errorf("tree %d is empty", i)
		}
		if err := t.validate(f.NFeatures, len(f.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d has %d class weights, want %d", i, len(t.Value[i]), nClasses)
		}
		for _, w := range t.Value[i] {
			if w < 0 {
				return fmt.Errorf("node %d has a negative class weight", i)
			}
		}
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if sum(t.Value[i]) <= 0 {
				return fmt.Errorf("leaf %d has no weight", i)
			}
			continue
		}
		// Children always come after their parent, which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has children out of range", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on unknown feature %d", i, t.Feature[i])
		}
	}
	return nil
}

// leafValue walks x down the tree. Split values are compared at single
// precision, matching how the thresholds were learned.
func (t *Tree) leafValue(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// PredictProba returns the averaged class distribution for x.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NFeatures {
		return nil, fmt.Errorf("%w: forest expects %d features, got %d", ErrDimensionMismatch, f.NFeatures, len(x))
	}
	proba := make([]float64, len(f.Classes))
	for _, t := range f.Trees {
		v := t.leafValue(x)
		total := sum(v)
		for c := range proba {
			proba[c] += v[c] / total
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba, nil
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}
