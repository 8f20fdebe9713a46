// Package extract implements the extraction driver: it fans a set of
// configured walkers out over the root entities of a graph and flattens the
// results into one ordered corpus of token sequences for the embedding
// trainer.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msanta/kgwalk/pkg/graph"
	"github.com/msanta/kgwalk/pkg/metrics"
	"github.com/msanta/kgwalk/pkg/walker"
)

// ErrUnknownInstance is returned when a requested root entity is not present
// in the graph. Roots must be loaded (or at least seeded, for
// resolver-backed graphs) before extraction.
var ErrUnknownInstance = errors.New("instance not found in graph")

// Corpus is the extraction output: an ordered list of token sequences, one
// per walk. The embedding collaborator assumes no further structure.
type Corpus [][]string

// Options configures a Transformer.
type Options struct {
	// Workers bounds how many goroutines partition the roots during one
	// walker invocation. Values below 1 mean sequential extraction.
	Workers int
}

// Transformer orchestrates one or more walkers over a graph. Extraction
// never mutates the graph (lazy resolution aside), so a fully materialized
// KG can be shared by concurrent workers.
type Transformer struct {
	walkers []walker.Walker
	workers int
	runID   string
}

// New creates a Transformer over the given walkers.
func New(walkers []walker.Walker, opts Options) (*Transformer, error) {
	if len(walkers) == 0 {
		return nil, fmt.Errorf("at least one walker must be configured")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Transformer{
		walkers: walkers,
		workers: workers,
		runID:   uuid.New().String(),
	}, nil
}

// RunID identifies this transformer's extraction runs in logs and output
// manifests.
func (t *Transformer) RunID() string { return t.runID }

// Extract validates the roots, runs every walker over them and concatenates
// all walks into one corpus. Walks are ordered by walker, then by the given
// root order, then by each walker's own deterministic walk order; no
// deduplication happens across walkers.
func (t *Transformer) Extract(kg *graph.KG, roots []string) (Corpus, error) {
	// Fail fast on unknown instances, before any walk is attempted.
	for _, root := range roots {
		if !kg.Contains(root) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownInstance, root)
		}
	}

	var corpus Corpus
	for _, w := range t.walkers {
		start := time.Now()
		byRoot, err := t.runWalker(w, kg, roots)
		if err != nil {
			return nil, fmt.Errorf("walker %s: %w", w.Name(), err)
		}

		count := 0
		for _, root := range roots {
			for _, walk := range byRoot[root] {
				corpus = append(corpus, walk)
				count++
			}
		}

		metrics.WalksExtracted.WithLabelValues(w.Name()).Add(float64(count))
		metrics.ExtractionDuration.WithLabelValues(w.Name()).Observe(time.Since(start).Seconds())
		slog.Info("walker finished", "run", t.runID, "walker", w.Name(), "roots", len(roots), "walks", count)
	}

	metrics.GraphVertices.Set(float64(kg.Len()))
	return corpus, nil
}

// runWalker invokes one walker, partitioning the roots across workers when
// parallelism is enabled. Results are merged per root, so the corpus order
// does not depend on scheduling.
func (t *Transformer) runWalker(w walker.Walker, kg *graph.KG, roots []string) (map[string][]walker.Walk, error) {
	if t.workers == 1 || len(roots) <= 1 {
		return w.Extract(kg, roots)
	}

	chunks := partition(roots, t.workers)
	results := make([]map[string][]walker.Walk, len(chunks))
	errs := make([]error, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []string) {
			defer wg.Done()
			results[i], errs[i] = w.Extract(kg, chunk)
		}(i, chunk)
	}
	wg.Wait()

	merged := make(map[string][]walker.Walk, len(roots))
	for i := range chunks {
		if errs[i] != nil {
			return nil, errs[i]
		}
		for root, walks := range results[i] {
			merged[root] = walks
		}
	}
	return merged, nil
}

// partition splits roots into at most n contiguous chunks of near-equal
// size.
func partition(roots []string, n int) [][]string {
	if n > len(roots) {
		n = len(roots)
	}
	chunks := make([][]string, 0, n)
	size := (len(roots) + n - 1) / n
	for start := 0; start < len(roots); start += size {
		end := start + size
		if end > len(roots) {
			end = len(roots)
		}
		chunks = append(chunks, roots[start:end])
	}
	return chunks
}
