package sampler

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/msanta/kgwalk/pkg/graph"
)

// PredFreq biases edge choice by the global occurrence count of the
// candidate's predicate, approximating importance sampling. With Inverse
// set, rare predicates are favored instead of frequent ones.
type PredFreq struct {
	// Inverse flips the bias toward infrequent predicates.
	Inverse bool

	counts map[string]int
}

// NewPredFreq creates a predicate-frequency sampler.
func NewPredFreq(inverse bool) *PredFreq {
	return &PredFreq{Inverse: inverse}
}

// Fit snapshots the predicate occurrence counts of the graph.
func (s *PredFreq) Fit(kg *graph.KG) {
	s.counts = kg.PredicateFrequency()
}

// Sample draws one candidate with probability proportional to its weight.
func (s *PredFreq) Sample(rng *rand.Rand, candidates []graph.Hop) graph.Hop {
	weights := make([]float64, len(candidates))
	for i, hop := range candidates {
		weights[i] = frequencyWeight(s.counts[hop.Pred.Label], s.Inverse)
	}
	return weightedChoice(rng, candidates, weights)
}

// ObjFreq biases edge choice by the in-degree of the candidate's object:
// well-connected entities are favored, or avoided when Inverse is set.
type ObjFreq struct {
	Inverse bool

	degrees map[string]int
}

// NewObjFreq creates an object-degree sampler.
func NewObjFreq(inverse bool) *ObjFreq {
	return &ObjFreq{Inverse: inverse}
}

// Fit snapshots the per-entity in-degree counts of the graph.
func (s *ObjFreq) Fit(kg *graph.KG) {
	s.degrees = kg.ObjectDegree()
}

// Sample draws one candidate with probability proportional to its weight.
func (s *ObjFreq) Sample(rng *rand.Rand, candidates []graph.Hop) graph.Hop {
	weights := make([]float64, len(candidates))
	for i, hop := range candidates {
		weights[i] = frequencyWeight(s.degrees[hop.Target.Label], s.Inverse)
	}
	return weightedChoice(rng, candidates, weights)
}

func frequencyWeight(count int, inverse bool) float64 {
	// Unseen labels (possible on lazily resolved graphs where statistics
	// trail behind traversal) get a neutral weight of one occurrence.
	if count < 1 {
		count = 1
	}
	if inverse {
		return 1 / float64(count)
	}
	return float64(count)
}

// weightedChoice inverts the cumulative distribution of weights with a
// single uniform draw. Falls back to uniform choice when all weights are
// zero.
func weightedChoice(rng *rand.Rand, candidates []graph.Hop, weights []float64) graph.Hop {
	total := floats.Sum(weights)
	if total <= 0 {
		return candidates[rng.Intn(len(candidates))]
	}
	cdf := make([]float64, len(weights))
	floats.CumSum(cdf, weights)

	idx := sort.SearchFloat64s(cdf, rng.Float64()*total)
	if idx >= len(candidates) {
		idx = len(candidates) - 1
	}
	return candidates[idx]
}
