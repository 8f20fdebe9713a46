package walker

import (
	"fmt"

	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/sampler"
)

// HALKWalker (Hierarchical ALK) filters rare entities out of the walks: an
// object label that appears in too small a fraction of a root's walks is
// considered uninformative and removed, while the root and all predicate
// labels are kept. One filtered walk set is produced per configured
// threshold.
type HALKWalker struct {
	inner      *RandomWalker
	thresholds []float64
}

// NewHALK creates a HALKWalker on top of the random strategy. With no
// thresholds given, 0.001 is used, matching the conventional default.
func NewHALK(opts Options, s sampler.Sampler, thresholds []float64) (*HALKWalker, error) {
	inner, err := NewRandom(opts, s)
	if err != nil {
		return nil, fmt.Errorf("halk walker: %w", err)
	}
	for _, th := range thresholds {
		if th < 0 || th > 1 {
			return nil, fmt.Errorf("halk walker: threshold must be in [0,1], got %v", th)
		}
	}
	if len(thresholds) == 0 {
		thresholds = []float64{0.001}
	}
	return &HALKWalker{inner: inner, thresholds: thresholds}, nil
}

// Name implements Walker.
func (w *HALKWalker) Name() string { return "halk" }

// Extract implements Walker.
func (w *HALKWalker) Extract(kg *graph.KG, roots []string) (map[string][]Walk, error) {
	byRoot, err := w.inner.Extract(kg, roots)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Walk, len(byRoot))
	for root, walks := range byRoot {
		out[root] = w.filter(walks)
	}
	return out, nil
}

// filter drops uninformative object labels. Frequency of a label is the
// fraction of the root's walks it appears in at an object position.
func (w *HALKWalker) filter(walks []Walk) []Walk {
	appearsIn := make(map[string]map[int]bool)
	for i, walk := range walks {
		for pos := 2; pos < len(walk); pos += 2 {
			label := walk[pos]
			if appearsIn[label] == nil {
				appearsIn[label] = make(map[int]bool)
			}
			appearsIn[label][i] = true
		}
	}

	total := float64(len(walks))
	var filtered []Walk
	seen := newWalkSet()
	for _, th := range w.thresholds {
		for _, walk := range walks {
			kept := Walk{walk[0]}
			for pos := 1; pos < len(walk); pos++ {
				if pos%2 == 1 {
					kept = append(kept, walk[pos])
					continue
				}
				if float64(len(appearsIn[walk[pos]]))/total >= th {
					kept = append(kept, walk[pos])
				}
			}
			if seen.add(kept) {
				filtered = append(filtered, kept)
			}
		}
	}
	return filtered
}
