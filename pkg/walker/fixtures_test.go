package walker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/msanta/kgwalk/pkg/graph"
)

// loopGraph builds a 4-edge graph with a directed cycle through Alice:
//
//	Alice --knows--> Bob
//	Alice --knows--> Dean
//	Bob   --knows--> Dean
//	Dean  --loves--> Alice
func loopGraph() *graph.KG {
	kg := graph.New()
	kg.AddTriple("Alice", "knows", "Bob")
	kg.AddTriple("Alice", "knows", "Dean")
	kg.AddTriple("Bob", "knows", "Dean")
	kg.AddTriple("Dean", "loves", "Alice")
	return kg
}

// chainGraph builds a long chain with one short dead-end branch:
//
//	Alice --> Bob --> Mathilde --> Alfy --> Stephane --> Alfred --> Emma --> Julio
//	Alice --> Dean
func chainGraph() *graph.KG {
	kg := graph.New()
	kg.AddTriple("Alice", "knows", "Bob")
	kg.AddTriple("Alice", "knows", "Dean")
	kg.AddTriple("Bob", "knows", "Mathilde")
	kg.AddTriple("Mathilde", "knows", "Alfy")
	kg.AddTriple("Alfy", "knows", "Stephane")
	kg.AddTriple("Stephane", "knows", "Alfred")
	kg.AddTriple("Alfred", "knows", "Emma")
	kg.AddTriple("Emma", "knows", "Julio")
	return kg
}

func extractRoot(t *testing.T, w Walker, kg *graph.KG, root string) []Walk {
	t.Helper()
	byRoot, err := w.Extract(kg, []string{root})
	if err != nil {
		t.Fatal(err)
	}
	return byRoot[root]
}

func walkString(w Walk) string {
	return strings.Join(w, " ")
}

func walkSetOf(walks []Walk) map[string]bool {
	set := make(map[string]bool, len(walks))
	for _, w := range walks {
		set[walkString(w)] = true
	}
	return set
}

func isNumeral(tok string) bool {
	_, err := strconv.Atoi(tok)
	return err == nil
}
