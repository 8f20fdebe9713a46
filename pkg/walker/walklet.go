package walker

import (
	"fmt"

	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/sampler"
)

// WalkletWalker decomposes walks into walklets: two-token sequences pairing
// the root with each vertex encountered along a walk. The embedding model
// then sees direct co-occurrence between the root and every hop, whatever
// its distance.
type WalkletWalker struct {
	inner *RandomWalker
}

// NewWalklet creates a WalkletWalker on top of the random strategy.
func NewWalklet(opts Options, s sampler.Sampler) (*WalkletWalker, error) {
	inner, err := NewRandom(opts, s)
	if err != nil {
		return nil, fmt.Errorf("walklet walker: %w", err)
	}
	return &WalkletWalker{inner: inner}, nil
}

// Name implements Walker.
func (w *WalkletWalker) Name() string { return "walklet" }

// Extract implements Walker.
func (w *WalkletWalker) Extract(kg *graph.KG, roots []string) (map[string][]Walk, error) {
	byRoot, err := w.inner.Extract(kg, roots)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Walk, len(byRoot))
	for root, walks := range byRoot {
		var walklets []Walk
		seen := newWalkSet()
		for _, walk := range walks {
			if len(walk) == 1 {
				// A dead-end root has no hops to pair with; keep the root
				// itself so the entity still appears in the corpus.
				if seen.add(walk) {
					walklets = append(walklets, walk)
				}
				continue
			}
			for _, tok := range walk[1:] {
				pair := Walk{walk[0], tok}
				if seen.add(pair) {
					walklets = append(walklets, pair)
				}
			}
		}
		out[root] = walklets
	}
	return out, nil
}
