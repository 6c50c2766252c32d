package forecasting

import (
	"fmt"
	"sort"
)

// Regressor maps a lag vector (lag_1 first) to a next-day sales prediction.
type Regressor interface {
	Predict(lags [LagWindow]float64) float64
}

// Params configures gradient boosting. The defaults mirror a stock XGBoost
// squared-error regressor with 100 estimators.
type Params struct {
	Rounds         int
	LearningRate   float64
	MaxDepth       int
	Lambda         float64
	MinChildWeight float64
	Gamma          float64

	// OnRound, when set, is called after each boosting round with the 1-based
	// round number.
	OnRound func(round, total int)
}

// DefaultParams returns the model configuration used by the service.
func DefaultParams() Params {
	return Params{
		Rounds:         100,
		LearningRate:   0.3,
		MaxDepth:       6,
		Lambda:         1,
		MinChildWeight: 1,
		Gamma:          0,
	}
}

// minGain is the smallest loss reduction accepted for a split.
const minGain = 1e-6

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

type regressionTree struct {
	nodes []treeNode
}

func (t *regressionTree) predict(x *[LagWindow]float64) float64 {
	i := 0
	for !t.nodes[i].leaf {
		n := &t.nodes[i]
		if x[n.feature] < n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].value
}

// Booster is an additive ensemble of regression trees fitted to squared error.
// It is immutable once Fit returns and safe for concurrent Predict calls.
type Booster struct {
	base  float64
	trees []regressionTree
}

// Fit trains a booster on lag vectors x and targets y. Training is
// deterministic: no row or column sampling is done.
func Fit(x [][LagWindow]float64, y []float64, p Params) (*Booster, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("fit: %d feature rows but %d targets", len(x), len(y))
	}
	if len(y) == 0 {
		return nil, fmt.Errorf("fit: %w: no training rows", ErrInsufficientData)
	}
	if p.Rounds <= 0 || p.MaxDepth < 0 || p.LearningRate <= 0 {
		return nil, fmt.Errorf("fit: invalid params %+v", p)
	}

	n := len(y)
	var sum float64
	for _, v := range y {
		sum += v
	}
	b := &Booster{base: sum / float64(n), trees: make([]regressionTree, 0, p.Rounds)}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = b.base
	}

	grad := make([]float64, n)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	for r := 0; r < p.Rounds; r++ {
		for i := range grad {
			grad[i] = pred[i] - y[i]
		}

		g := &treeGrower{x: x, grad: grad, p: p}
		g.grow(all, 0)
		tree := regressionTree{nodes: g.nodes}
		b.trees = append(b.trees, tree)

		for i := range pred {
			pred[i] += tree.predict(&x[i])
		}
		if p.OnRound != nil {
			p.OnRound(r+1, p.Rounds)
		}
	}

	return b, nil
}

// Predict implements Regressor.
func (b *Booster) Predict(lags [LagWindow]float64) float64 {
	out := b.base
	for i := range b.trees {
		out += b.trees[i].predict(&lags)
	}
	return out
}

// Rounds returns the number of fitted trees.
func (b *Booster) Rounds() int { return len(b.trees) }

// treeGrower builds one tree. With squared error every hessian is 1, so a node's
// hessian sum is its row count.
type treeGrower struct {
	x     [][LagWindow]float64
	grad  []float64
	p     Params
	nodes []treeNode
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

func (g *treeGrower) grow(rows []int, depth int) int {
	var G float64
	for _, i := range rows {
		G += g.grad[i]
	}
	H := float64(len(rows))

	id := len(g.nodes)
	g.nodes = append(g.nodes, treeNode{})

	if depth < g.p.MaxDepth {
		if s, ok := g.bestSplit(rows, G, H); ok {
			left := make([]int, 0, len(rows))
			right := make([]int, 0, len(rows))
			for _, i := range rows {
				if g.x[i][s.feature] < s.threshold {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			l := g.grow(left, depth+1)
			r := g.grow(right, depth+1)
			g.nodes[id] = treeNode{feature: s.feature, threshold: s.threshold, left: l, right: r}
			return id
		}
	}

	g.nodes[id] = treeNode{leaf: true, value: -G / (H + g.p.Lambda) * g.p.LearningRate}
	return id
}

// bestSplit is exact greedy search over every feature and every boundary between
// distinct values. Ties keep the first candidate found.
func (g *treeGrower) bestSplit(rows []int, G, H float64) (split, bool) {
	lambda := g.p.Lambda
	parent := G * G / (H + lambda)

	best := split{gain: minGain}
	found := false

	sorted := make([]int, len(rows))
	for f := 0; f < LagWindow; f++ {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(a, b int) bool {
			return g.x[sorted[a]][f] < g.x[sorted[b]][f]
		})

		var GL, HL float64
		for j := 0; j < len(sorted)-1; j++ {
			GL += g.grad[sorted[j]]
			HL++

			lo, hi := g.x[sorted[j]][f], g.x[sorted[j+1]][f]
			if !(lo < hi) {
				continue
			}
			HR := H - HL
			if HL < g.p.MinChildWeight || HR < g.p.MinChildWeight {
				continue
			}
			GR := G - GL

			gain := 0.5*(GL*GL/(HL+lambda)+GR*GR/(HR+lambda)-parent) - g.p.Gamma
			if gain > best.gain {
				thr := lo + (hi-lo)/2
				if thr <= lo {
					thr = hi
				}
				best = split{feature: f, threshold: thr, gain: gain}
				found = true
			}
		}
	}
	return best, found
}
