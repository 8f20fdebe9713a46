package graph

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAddTripleIdempotent(t *testing.T) {
	kg := New()

	// 1. Insert the same triple twice plus a parallel edge.
	kg.AddTriple("Alice", "knows", "Bob")
	kg.AddTriple("Alice", "knows", "Bob")
	kg.AddTriple("Alice", "likes", "Bob")

	hops, err := kg.NeighborsOut("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 2 {
		t.Fatalf("expected 2 distinct edges, got %d", len(hops))
	}

	// 2. Predicate counts must not double-count the duplicate.
	if got := kg.PredicateFrequency()["knows"]; got != 1 {
		t.Errorf("knows count = %d, want 1", got)
	}
}

func TestNeighborsOrderingIsDeterministic(t *testing.T) {
	// Insertion order differs from lexicographic order on purpose.
	kg := New()
	kg.AddTriple("hub", "z_pred", "zeta")
	kg.AddTriple("hub", "a_pred", "beta")
	kg.AddTriple("hub", "a_pred", "alpha")

	hops, err := kg.NeighborsOut("hub")
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]string{
		{"a_pred", "alpha"},
		{"a_pred", "beta"},
		{"z_pred", "zeta"},
	}
	if len(hops) != len(want) {
		t.Fatalf("got %d hops, want %d", len(hops), len(want))
	}
	for i, h := range hops {
		if h.Pred.Label != want[i][0] || h.Target.Label != want[i][1] {
			t.Errorf("hop %d = (%s,%s), want (%s,%s)", i, h.Pred.Label, h.Target.Label, want[i][0], want[i][1])
		}
	}
}

func TestPredicateBackReferences(t *testing.T) {
	kg := New()
	kg.AddTriple("Alice", "knows", "Bob")

	hops, _ := kg.NeighborsOut("Alice")
	pred := hops[0].Pred
	if !pred.Predicate {
		t.Fatal("expected a predicate vertex")
	}
	if pred.Prev == nil || pred.Prev.Label != "Alice" {
		t.Errorf("predicate prev = %v, want Alice", pred.Prev)
	}
	if pred.Next == nil || pred.Next.Label != "Bob" {
		t.Errorf("predicate next = %v, want Bob", pred.Next)
	}

	// Entity vertices never carry back-references.
	if hops[0].Target.Prev != nil || hops[0].Target.Next != nil {
		t.Error("entity vertex must not carry prev/next")
	}
}

func TestVertexEquality(t *testing.T) {
	kg := New()
	kg.AddTriple("Alice", "knows", "Bob")
	kg.AddTriple("Dean", "knows", "Bob")

	out, _ := kg.NeighborsOut("Alice")
	in, _ := kg.NeighborsIn("Bob")

	// 1. The same entity reached through different edges is the same node.
	if !out[0].Target.Equal(in[0].Pred.Next) {
		t.Error("Bob via the forward and reverse index must be equal")
	}

	// 2. Two occurrences of one predicate identify the same graph node even
	//    though each edge carries its own vertex instance.
	if !out[0].Pred.Equal(in[1].Pred) {
		t.Error("occurrences of the same predicate must be equal")
	}

	// 3. A predicate vertex never equals an entity vertex of the same label.
	if out[0].Pred.Equal(NewVertex("knows")) {
		t.Error("predicate and entity vertices sharing a label must differ")
	}
}

func TestNeighborsIn(t *testing.T) {
	kg := New()
	kg.AddTriple("Alice", "knows", "Bob")
	kg.AddTriple("Dean", "loves", "Bob")

	hops, err := kg.NeighborsIn("Bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 2 {
		t.Fatalf("expected 2 incoming edges, got %d", len(hops))
	}
	// Ordered by (predicate, subject).
	if hops[0].Pred.Label != "knows" || hops[0].Target.Label != "Alice" {
		t.Errorf("first incoming hop = (%s,%s)", hops[0].Pred.Label, hops[0].Target.Label)
	}
}

type fakeResolver struct {
	edges map[string][]Edge
	err   error
	calls map[string]int
}

func (r *fakeResolver) Resolve(entity string) ([]Edge, error) {
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[entity]++
	if r.err != nil {
		return nil, r.err
	}
	return r.edges[entity], nil
}

func TestLazyResolution(t *testing.T) {
	resolver := &fakeResolver{edges: map[string][]Edge{
		"Alice": {{Predicate: "knows", Object: "Bob"}},
	}}
	kg := NewWithOptions(Options{Resolver: resolver})
	kg.AddVertex("Alice")

	// 1. First access resolves and merges.
	hops, err := kg.NeighborsOut("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 1 || hops[0].Target.Label != "Bob" {
		t.Fatalf("unexpected hops: %+v", hops)
	}

	// 2. Second access is served from the graph.
	if _, err := kg.NeighborsOut("Alice"); err != nil {
		t.Fatal(err)
	}
	if resolver.calls["Alice"] != 1 {
		t.Errorf("resolver called %d times, want 1", resolver.calls["Alice"])
	}

	// 3. An entity the collaborator cannot find is a dead end, not an error.
	hops, err = kg.NeighborsOut("Ghost")
	if err != nil {
		t.Fatal(err)
	}
	if len(hops) != 0 {
		t.Errorf("expected dead end, got %d hops", len(hops))
	}
}

func TestStrictModeSurfacesResolverErrors(t *testing.T) {
	boom := errors.New("endpoint down")
	kg := NewWithOptions(Options{
		Resolver: &fakeResolver{err: boom},
		Strict:   true,
	})

	if _, err := kg.NeighborsOut("Alice"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped resolver error, got %v", err)
	}
}

func TestContains(t *testing.T) {
	kg := New()
	kg.AddTriple("Alice", "knows", "Bob")

	if !kg.Contains("Alice") || !kg.Contains("Bob") {
		t.Error("subject and object must both be known")
	}
	if kg.Contains("Dean") {
		t.Error("Dean was never added")
	}
}

func TestLoadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triples.tsv")
	data := "# a comment\nAlice\tknows\tBob\n\nBob\tknows\tDean\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	kg := New()
	if err := kg.LoadTSV(path); err != nil {
		t.Fatal(err)
	}
	if kg.Len() != 3 {
		t.Errorf("vertices = %d, want 3", kg.Len())
	}

	// Malformed lines are rejected with a position.
	bad := filepath.Join(t.TempDir(), "bad.tsv")
	if err := os.WriteFile(bad, []byte("only two\tfields\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := kg.LoadTSV(bad); err == nil {
		t.Error("expected error on malformed triple")
	}
}
