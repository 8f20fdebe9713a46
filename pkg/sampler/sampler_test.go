package sampler

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/msanta/kgwalk/pkg/graph"
)

// hub returns a graph whose "hub" vertex offers one frequent and one rare
// predicate, with the frequent one repeated across many other subjects so
// the global statistics are skewed.
func hub() *graph.KG {
	kg := graph.New()
	kg.AddTriple("hub", "common", "target_a")
	kg.AddTriple("hub", "rare", "target_b")
	for i := 0; i < 50; i++ {
		kg.AddTriple("filler", "common", "target_a")
	}
	return kg
}

func candidates(t *testing.T, kg *graph.KG, label string) []graph.Hop {
	t.Helper()
	hops, err := kg.NeighborsOut(label)
	if err != nil {
		t.Fatal(err)
	}
	return hops
}

func TestUniformIsDeterministicPerSeed(t *testing.T) {
	kg := hub()
	hops := candidates(t, kg, "hub")
	s := NewUniform()

	draw := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		picks := make([]string, 100)
		for i := range picks {
			picks[i] = s.Sample(rng, hops).Pred.Label
		}
		return picks
	}

	a, b := draw(42), draw(42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestPredFreqBias(t *testing.T) {
	kg := hub()
	hops := candidates(t, kg, "hub")

	// 1. Direct bias: the frequent predicate dominates. Distinct objects
	//    keep each filler triple a separate edge.
	for i := 0; i < 50; i++ {
		kg.AddTriple("filler", "common", fmt.Sprintf("spread_%d", i))
	}

	count := func(inverse bool) map[string]int {
		s := NewPredFreq(inverse)
		s.Fit(kg)
		rng := rand.New(rand.NewSource(42))
		got := make(map[string]int)
		for i := 0; i < 500; i++ {
			got[s.Sample(rng, hops).Pred.Label]++
		}
		return got
	}

	direct := count(false)
	if direct["common"] <= direct["rare"] {
		t.Errorf("direct bias: common=%d rare=%d, want common dominant", direct["common"], direct["rare"])
	}

	// 2. Inverse bias flips the preference.
	inverse := count(true)
	if inverse["rare"] <= inverse["common"] {
		t.Errorf("inverse bias: common=%d rare=%d, want rare dominant", inverse["common"], inverse["rare"])
	}
}

func TestObjFreqBias(t *testing.T) {
	kg := graph.New()
	kg.AddTriple("hub", "p", "popular")
	kg.AddTriple("hub", "p", "obscure")
	for i := 0; i < 50; i++ {
		kg.AddTriple(fmt.Sprintf("fan_%d", i), "p", "popular")
	}
	hops := candidates(t, kg, "hub")

	s := NewObjFreq(false)
	s.Fit(kg)
	rng := rand.New(rand.NewSource(42))
	got := make(map[string]int)
	for i := 0; i < 500; i++ {
		got[s.Sample(rng, hops).Target.Label]++
	}
	if got["popular"] <= got["obscure"] {
		t.Errorf("object bias: popular=%d obscure=%d", got["popular"], got["obscure"])
	}
}

func TestFitIsScopedToOneGraph(t *testing.T) {
	skewed := hub()
	for i := 0; i < 50; i++ {
		skewed.AddTriple("filler", "common", "spread")
	}
	flat := graph.New()
	flat.AddTriple("hub", "common", "target_a")
	flat.AddTriple("hub", "rare", "target_b")

	s := NewPredFreq(false)
	s.Fit(skewed)
	if s.counts["common"] <= s.counts["rare"] {
		t.Fatal("expected skewed counts after fitting the skewed graph")
	}

	// Refitting on an unskewed graph must replace, not accumulate.
	s.Fit(flat)
	if s.counts["common"] != 1 || s.counts["rare"] != 1 {
		t.Errorf("counts after refit = %v, want 1/1", s.counts)
	}
}
