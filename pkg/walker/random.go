package walker

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/sampler"
)

// RandomWalker is the default, general-purpose strategy.
//
// With MaxWalks unset it exhaustively enumerates every maximal walk up to
// MaxDepth hops. With MaxWalks set it repeatedly descends from the root,
// picking each hop through the injected Sampler, and keeps the distinct
// walks found.
//
// Extract may be called concurrently for disjoint root chunks of the same
// graph: the shared sampler is fitted exactly once per KG, under a lock, so
// sibling goroutines only ever read its statistics.
type RandomWalker struct {
	opts    Options
	sampler sampler.Sampler

	mu     sync.Mutex
	fitted *graph.KG
}

// NewRandom creates a RandomWalker. Malformed options are rejected here,
// never at extraction time.
func NewRandom(opts Options, s sampler.Sampler) (*RandomWalker, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("random walker: %w", err)
	}
	if s == nil {
		s = sampler.NewUniform()
	}
	return &RandomWalker{opts: opts, sampler: s}, nil
}

// Name implements Walker.
func (w *RandomWalker) Name() string { return "random" }

// Extract implements Walker.
func (w *RandomWalker) Extract(kg *graph.KG, roots []string) (map[string][]Walk, error) {
	w.fit(kg)
	rng := rand.New(rand.NewSource(w.opts.Seed))

	out := make(map[string][]Walk, len(roots))
	for _, root := range roots {
		walks, err := w.extractRoot(kg, root, rng)
		if err != nil {
			return nil, err
		}
		out[root] = walks
	}
	return out, nil
}

// fit fits the sampler once per graph. Concurrent Extract calls over the
// same KG serialize here; whichever arrives first fits, the rest see the
// statistics already in place.
func (w *RandomWalker) fit(kg *graph.KG) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fitted == kg {
		return
	}
	w.sampler.Fit(kg)
	w.fitted = kg
}

func (w *RandomWalker) extractRoot(kg *graph.KG, root string, rng *rand.Rand) ([]Walk, error) {
	forward, err := w.walks(root, rng, kg.NeighborsOut)
	if err != nil {
		return nil, err
	}
	if !w.opts.WithReverse {
		return forward, nil
	}
	backward, err := w.walks(root, rng, kg.NeighborsIn)
	if err != nil {
		return nil, err
	}
	return combineReverse(backward, forward), nil
}

func (w *RandomWalker) walks(root string, rng *rand.Rand, hops hopsFn) ([]Walk, error) {
	if w.opts.MaxWalks == 0 {
		return enumerate(root, w.opts.MaxDepth, hops)
	}
	return sample(root, w.opts.MaxDepth, w.opts.MaxWalks, w.sampler, rng, hops)
}
