// Package sampler implements the edge-selection policies used by walkers.
//
// A Sampler decides which outgoing hop a walk follows next. Policies range
// from uniform choice to frequency-biased selection driven by the global
// edge statistics of one KG. Samplers are fitted once per graph; any
// internal counters belong to that graph and are never shared across KG
// instances.
//
// All randomness comes from the *rand.Rand handed in by the caller, which
// walkers seed once per extraction run, so identical inputs always produce
// identical walks.
package sampler

import (
	"math/rand"

	"github.com/msanta/kgwalk/pkg/graph"
)

// Sampler selects the next hop of a walk among the candidate edges of the
// current vertex. Sample is never called with an empty candidate slice: a
// vertex without edges terminates the walk before sampling.
type Sampler interface {
	// Fit captures the graph-level statistics the policy needs. Called once
	// before extraction against a given KG.
	Fit(kg *graph.KG)

	// Sample returns one of the candidates.
	Sample(rng *rand.Rand, candidates []graph.Hop) graph.Hop
}

// Uniform picks every candidate edge with equal probability. This is the
// default policy.
type Uniform struct{}

// NewUniform creates a uniform sampler.
func NewUniform() *Uniform { return &Uniform{} }

// Fit is a no-op: uniform choice needs no statistics.
func (s *Uniform) Fit(kg *graph.KG) {}

// Sample picks one candidate uniformly.
func (s *Uniform) Sample(rng *rand.Rand, candidates []graph.Hop) graph.Hop {
	return candidates[rng.Intn(len(candidates))]
}
