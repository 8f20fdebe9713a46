// Package graph implements the in-memory knowledge-graph model used by the
// walk extraction engine.
//
// The graph is a directed multigraph over labeled vertices. Every edge is a
// (subject, predicate, object) triple; the predicate is itself a vertex so
// that walks can carry edge labels as tokens. Adjacency is kept in ordered
// maps, so neighbor lookups always return hops in a stable lexicographic
// order regardless of insertion order.
//
// A KG can be fully materialized up front (AddTriple) or backed by a
// Resolver that fetches the outgoing edges of a vertex on first access and
// caches them for the lifetime of the graph. Walkers never need to know
// which of the two they are traversing.
package graph

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tidwall/btree"
)

// Edge is one raw outgoing edge as reported by a Resolver: the predicate
// label and the object label.
type Edge struct {
	Predicate string
	Object    string
}

// Resolver fetches the outgoing edges of an entity from an external source
// (e.g. a SPARQL endpoint). The call is synchronous; the graph merges and
// caches the result, so each entity is resolved at most once per KG.
type Resolver interface {
	Resolve(entity string) ([]Edge, error)
}

// Options configures a KG instance.
type Options struct {
	// Resolver, when set, is consulted the first time the outgoing edges of
	// an unmaterialized vertex are requested. Nil means the graph is fully
	// local.
	Resolver Resolver

	// Strict surfaces resolver failures as errors from NeighborsOut.
	// When false (the default) a failed resolution is treated as a dead
	// end: the vertex simply has no outgoing edges.
	Strict bool
}

// KG is a mutable directed multigraph keyed by vertex label.
//
// A single mutex guards edge insertion and lazy-resolution merges, so the
// graph may be traversed while resolution is still filling it in. Once
// population is complete, traversal is read-mostly and contention-free in
// practice.
type KG struct {
	mu sync.Mutex

	vertices map[string]*Vertex
	out      map[string]*btree.Map[string, Hop]
	in       map[string]*btree.Map[string, Hop]

	// Global edge statistics, scoped to this KG. Samplers read these to
	// bias edge choice.
	predCount map[string]int
	objCount  map[string]int

	resolver Resolver
	strict   bool
	resolved map[string]bool
}

// New creates an empty, fully local KG.
func New() *KG {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty KG with the given options.
func NewWithOptions(opts Options) *KG {
	return &KG{
		vertices:  make(map[string]*Vertex),
		out:       make(map[string]*btree.Map[string, Hop]),
		in:        make(map[string]*btree.Map[string, Hop]),
		predCount: make(map[string]int),
		objCount:  make(map[string]int),
		resolver:  opts.Resolver,
		strict:    opts.Strict,
		resolved:  make(map[string]bool),
	}
}

// hopKey orders hops lexicographically by predicate, then target.
// \x1f (unit separator) cannot appear in IRIs, so the key is unambiguous.
func hopKey(pred, target string) string {
	return pred + "\x1f" + target
}

// AddTriple inserts the (subject, predicate, object) triple. The predicate
// vertex is created per edge and wired to its subject and object. Re-adding
// an identical triple is a no-op: the graph never holds duplicate edges.
func (g *KG) AddTriple(subject, predicate, object string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addTripleLocked(subject, predicate, object)
}

func (g *KG) addTripleLocked(subject, predicate, object string) {
	subj := g.internVertex(subject)
	obj := g.internVertex(object)
	pred := NewPredicate(predicate, subj, obj)

	key := hopKey(predicate, object)
	fwd, ok := g.out[subject]
	if !ok {
		fwd = new(btree.Map[string, Hop])
		g.out[subject] = fwd
	}
	if _, exists := fwd.Get(key); exists {
		return
	}
	fwd.Set(key, Hop{Pred: pred, Target: obj})

	rev, ok := g.in[object]
	if !ok {
		rev = new(btree.Map[string, Hop])
		g.in[object] = rev
	}
	rev.Set(hopKey(predicate, subject), Hop{Pred: pred, Target: subj})

	g.predCount[predicate]++
	g.objCount[object]++
}

func (g *KG) internVertex(label string) *Vertex {
	if v, ok := g.vertices[label]; ok {
		return v
	}
	v := NewVertex(label)
	g.vertices[label] = v
	return v
}

// Contains reports whether the entity is known to the graph, either as a
// subject or as an object of some triple.
func (g *KG) Contains(label string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.vertices[label]
	return ok
}

// AddVertex registers an entity vertex without any edges. Mostly useful to
// seed roots into a resolver-backed graph before extraction.
func (g *KG) AddVertex(label string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.internVertex(label)
}

// NeighborsOut returns the outgoing hops of the entity, ordered by
// (predicate, object) label. If the vertex has not been materialized yet and
// a resolver is configured, resolution happens first and the result is
// merged into the graph for the lifetime of the KG.
//
// A vertex with no outgoing edges (including one the resolver cannot find)
// yields an empty slice: a dead end, not an error. In strict mode resolver
// failures are returned instead of being swallowed.
func (g *KG) NeighborsOut(label string) ([]Hop, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resolver != nil && !g.resolved[label] {
		if err := g.resolveLocked(label); err != nil && g.strict {
			return nil, err
		}
	}
	return collectHops(g.out[label]), nil
}

// NeighborsIn returns the incoming hops of the entity (predicate plus
// subject), ordered by (predicate, subject) label. Incoming edges are only
// known for triples already materialized: reverse traversal does not trigger
// remote resolution.
func (g *KG) NeighborsIn(label string) ([]Hop, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return collectHops(g.in[label]), nil
}

// resolveLocked fetches and merges the outgoing edges of label. The vertex
// is marked resolved even on failure so a flaky endpoint is not hammered
// once per walk.
func (g *KG) resolveLocked(label string) error {
	g.resolved[label] = true

	edges, err := g.resolver.Resolve(label)
	if err != nil {
		slog.Debug("resolution failed, treating as dead end", "entity", label, "error", err)
		return fmt.Errorf("resolving %q: %w", label, err)
	}
	for _, e := range edges {
		g.addTripleLocked(label, e.Predicate, e.Object)
	}
	return nil
}

func collectHops(m *btree.Map[string, Hop]) []Hop {
	if m == nil || m.Len() == 0 {
		return nil
	}
	hops := make([]Hop, 0, m.Len())
	m.Scan(func(_ string, h Hop) bool {
		hops = append(hops, h)
		return true
	})
	return hops
}

// PredicateFrequency returns a snapshot of the global predicate occurrence
// counts of this KG.
func (g *KG) PredicateFrequency() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	counts := make(map[string]int, len(g.predCount))
	for k, v := range g.predCount {
		counts[k] = v
	}
	return counts
}

// ObjectDegree returns a snapshot of the per-entity in-degree counts of
// this KG.
func (g *KG) ObjectDegree() map[string]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	counts := make(map[string]int, len(g.objCount))
	for k, v := range g.objCount {
		counts[k] = v
	}
	return counts
}

// Len returns the number of known vertices.
func (g *KG) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.vertices)
}
