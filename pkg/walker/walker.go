// Package walker implements the traversal strategies that turn a vertex
// neighborhood into bounded token sequences ("walks").
//
// Every strategy honors the same contract: walks start at the queried root,
// forward length never exceeds 2*MaxDepth+1 tokens, cycles are bounded by
// depth alone (a walk may legally revisit a vertex), and identical inputs
// always produce the identical walk set. Strategies differ only in how they
// enumerate or sample paths and in how they post-process the tokens.
package walker

import (
	"fmt"
	"math/rand"

	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/sampler"
)

// Walk is one extracted token sequence. Tokens alternate
// subject/predicate/object/..., so a walk of k hops has 2k+1 tokens.
type Walk []string

// Walker extracts a bounded collection of walks for each root entity.
type Walker interface {
	// Name identifies the strategy in logs, metrics and configuration.
	Name() string

	// Extract returns, per root label, the walks rooted at it. Every root
	// must already exist in the graph.
	Extract(kg *graph.KG, roots []string) (map[string][]Walk, error)
}

// Options are the knobs shared by all walker strategies.
type Options struct {
	// MaxDepth is the maximum number of hops per walk. Zero yields only the
	// root itself.
	MaxDepth int

	// MaxWalks caps the number of walks returned per root. Zero means
	// unbounded: every reachable walk up to MaxDepth is enumerated.
	MaxWalks int

	// WithReverse additionally extends walks backward from the root through
	// incoming edges; every backward walk is fused with every forward walk
	// at the root.
	WithReverse bool

	// Seed initializes the pseudo-random source, once per Extract call.
	Seed int64
}

func (o Options) validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", o.MaxDepth)
	}
	if o.MaxWalks < 0 {
		return fmt.Errorf("max walks must be >= 0 (0 = unbounded), got %d", o.MaxWalks)
	}
	return nil
}

// hopsFn abstracts traversal direction: forward walks follow NeighborsOut,
// backward walks follow NeighborsIn.
type hopsFn func(label string) ([]graph.Hop, error)

// enumerate returns every maximal walk from root up to depth hops, in the
// deterministic order induced by the graph's sorted adjacency. A walk is
// maximal when it either spans the full depth or ends at a dead end; proper
// prefixes of longer walks are not kept. A dead-end root yields exactly one
// walk holding the root alone.
func enumerate(root string, depth int, hops hopsFn) ([]Walk, error) {
	frontier := []Walk{{root}}
	for d := 0; d < depth; d++ {
		next := make([]Walk, 0, len(frontier))
		extended := false
		for _, w := range frontier {
			candidates, err := hops(w[len(w)-1])
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				next = append(next, w)
				continue
			}
			extended = true
			for _, h := range candidates {
				grown := make(Walk, len(w), len(w)+2)
				copy(grown, w)
				grown = append(grown, h.Pred.Label, h.Target.Label)
				next = append(next, grown)
			}
		}
		frontier = next
		if !extended {
			break
		}
	}
	return frontier, nil
}

// sample draws up to maxWalks walks of at most depth hops each, choosing
// every hop through the sampler. Duplicate walks are discarded, so fewer
// than maxWalks walks may be returned.
func sample(root string, depth, maxWalks int, s sampler.Sampler, rng *rand.Rand, hops hopsFn) ([]Walk, error) {
	walks := make([]Walk, 0, maxWalks)
	seen := newWalkSet()
	for i := 0; i < maxWalks; i++ {
		w := Walk{root}
		cur := root
		for d := 0; d < depth; d++ {
			candidates, err := hops(cur)
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				break
			}
			h := s.Sample(rng, candidates)
			w = append(w, h.Pred.Label, h.Target.Label)
			cur = h.Target.Label
		}
		if seen.add(w) {
			walks = append(walks, w)
		}
	}
	return walks, nil
}

// fuse combines one backward and one forward walk at their shared root: the
// backward walk (which was extracted root-first) is reversed and the forward
// walk appended without repeating the root. Combined length is therefore at
// most (2*depth+1)*2 - 1 tokens.
func fuse(backward, forward Walk) Walk {
	combined := make(Walk, 0, len(backward)+len(forward)-1)
	for i := len(backward) - 1; i >= 0; i-- {
		combined = append(combined, backward[i])
	}
	combined = append(combined, forward[1:]...)
	return combined
}

// combineReverse builds the full cross-product of backward and forward
// walks. With both sides capped at maxWalks this bounds the result by
// maxWalks*maxWalks walks per root. Distinct pairs can fuse into the same
// token sequence, so the result is deduplicated.
func combineReverse(backward, forward []Walk) []Walk {
	if len(backward) == 0 {
		return forward
	}
	combined := make([]Walk, 0, len(backward)*len(forward))
	seen := newWalkSet()
	for _, b := range backward {
		for _, f := range forward {
			if fused := fuse(b, f); seen.add(fused) {
				combined = append(combined, fused)
			}
		}
	}
	return combined
}

// subsample deterministically reduces walks to at most max entries using the
// provided rng. The input order is preserved for the survivors.
func subsample(walks []Walk, max int, rng *rand.Rand) []Walk {
	if max <= 0 || len(walks) <= max {
		return walks
	}
	keep := rng.Perm(len(walks))[:max]
	picked := make(map[int]bool, max)
	for _, i := range keep {
		picked[i] = true
	}
	out := make([]Walk, 0, max)
	for i, w := range walks {
		if picked[i] {
			out = append(out, w)
		}
	}
	return out
}
