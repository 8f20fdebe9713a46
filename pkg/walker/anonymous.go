package walker

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/msanta/kgwalk/pkg/graph"
)

// AnonymousWalker canonicalizes walks structurally: every object position
// (even offsets beyond the first token) is replaced by the 1-based rank of
// that object's first appearance within the walk, while the first token and
// all predicate labels stay literal. The result is topology-sensitive but
// does not leak entity identity into the embedding signal.
//
// Enumeration is exhaustive up to MaxDepth; MaxWalks only subsamples the
// result afterwards. No Sampler is involved.
type AnonymousWalker struct {
	opts Options
}

// NewAnonymous creates an AnonymousWalker. Malformed options are rejected
// here, never at extraction time.
func NewAnonymous(opts Options) (*AnonymousWalker, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("anonymous walker: %w", err)
	}
	return &AnonymousWalker{opts: opts}, nil
}

// Name implements Walker.
func (w *AnonymousWalker) Name() string { return "anonymous" }

// Extract implements Walker.
func (w *AnonymousWalker) Extract(kg *graph.KG, roots []string) (map[string][]Walk, error) {
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

// fusedWalk is a reverse-combined walk plus the position of the shared root
// inside it, which marks where object numbering restarts.
type fusedWalk struct {
	walk    Walk
	rootIdx int
}

func (w *AnonymousWalker) extractRoot(kg *graph.KG, root string, rng *rand.Rand) ([]Walk, error) {
	forward, err := enumerate(root, w.opts.MaxDepth, kg.NeighborsOut)
	if err != nil {
		return nil, err
	}
	forward = subsample(forward, w.opts.MaxWalks, rng)

	var raw []fusedWalk
	if w.opts.WithReverse {
		backward, err := enumerate(root, w.opts.MaxDepth, kg.NeighborsIn)
		if err != nil {
			return nil, err
		}
		backward = subsample(backward, w.opts.MaxWalks, rng)
		raw = make([]fusedWalk, 0, len(backward)*len(forward))
		if len(backward) == 0 {
			for _, f := range forward {
				raw = append(raw, fusedWalk{walk: f})
			}
		} else {
			for _, b := range backward {
				for _, f := range forward {
					raw = append(raw, fusedWalk{walk: fuse(b, f), rootIdx: len(b) - 1})
				}
			}
		}
	} else {
		raw = make([]fusedWalk, 0, len(forward))
		for _, f := range forward {
			raw = append(raw, fusedWalk{walk: f})
		}
	}

	// Canonicalization can collapse structurally identical walks, so the
	// result is deduplicated even though the raw walks are all distinct.
	walks := make([]Walk, 0, len(raw))
	seen := newWalkSet()
	for _, fw := range raw {
		cw := canonicalize(fw.walk, fw.rootIdx)
		if seen.add(cw) {
			walks = append(walks, cw)
		}
	}
	return walks, nil
}

// canonicalize anonymizes the object positions of one walk. Position 0 keeps
// its literal label, odd positions keep their predicate labels, and every
// even position >= 2 becomes the rank (starting at 1) of its label's first
// appearance among the walk's object positions, scanned left to right. In a
// reverse-combined walk the backward and forward halves number their objects
// independently: the rank table restarts past rootIdx, the fusion point.
func canonicalize(w Walk, rootIdx int) Walk {
	out := make(Walk, len(w))
	ranks := make(map[string]int)
	for i, tok := range w {
		if i == 0 || i%2 == 1 {
			out[i] = tok
			continue
		}
		rank, ok := ranks[tok]
		if !ok {
			rank = len(ranks) + 1
			ranks[tok] = rank
		}
		out[i] = strconv.Itoa(rank)
		if i == rootIdx {
			ranks = make(map[string]int)
		}
	}
	return out
}
