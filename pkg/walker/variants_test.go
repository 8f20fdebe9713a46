package walker

import (
	"testing"
)

func TestWalkletDecomposition(t *testing.T) {
	kg := chainGraph()
	w, err := NewWalklet(Options{MaxDepth: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Walks from Alice at depth 2 are "Alice knows Bob knows Mathilde" and
	// "Alice knows Dean"; every non-root token pairs with the root once.
	walks := extractRoot(t, w, kg, "Alice")
	want := map[string]bool{
		"Alice knows":    true,
		"Alice Bob":      true,
		"Alice Mathilde": true,
		"Alice Dean":     true,
	}
	got := walkSetOf(walks)
	if len(got) != len(want) {
		t.Fatalf("walklets = %v, want %v", got, want)
	}
	for k := range want {
		if !got[k] {
			t.Errorf("missing walklet %q", k)
		}
	}
}

func TestWalkletDeadEndKeepsRoot(t *testing.T) {
	kg := chainGraph()
	w, err := NewWalklet(Options{MaxDepth: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}

	walks := extractRoot(t, w, kg, "Julio")
	if len(walks) != 1 || walkString(walks[0]) != "Julio" {
		t.Errorf("walks = %v, want [[Julio]]", walks)
	}
}

func TestHALKDropsRareObjects(t *testing.T) {
	kg := loopGraph()

	// Walks from Alice at depth 1: "Alice knows Bob" and "Alice knows
	// Dean". Bob and Dean each appear in half of the walks.
	for _, tc := range []struct {
		threshold float64
		want      map[string]bool
	}{
		// 1. Below the appearance ratio: everything is kept.
		{0.4, map[string]bool{"Alice knows Bob": true, "Alice knows Dean": true}},
		// 2. Above it: both objects vanish, the stripped walks collapse.
		{0.6, map[string]bool{"Alice knows": true}},
	} {
		w, err := NewHALK(Options{MaxDepth: 1}, nil, []float64{tc.threshold})
		if err != nil {
			t.Fatal(err)
		}
		walks := extractRoot(t, w, kg, "Alice")
		got := walkSetOf(walks)
		if len(got) != len(tc.want) {
			t.Fatalf("threshold=%v: walks = %v, want %v", tc.threshold, got, tc.want)
		}
		for k := range tc.want {
			if !got[k] {
				t.Errorf("threshold=%v: missing %q", tc.threshold, k)
			}
		}
	}
}

func TestHALKRejectsBadThreshold(t *testing.T) {
	if _, err := NewHALK(Options{MaxDepth: 1}, nil, []float64{1.5}); err == nil {
		t.Error("threshold above 1 must be rejected")
	}
}
