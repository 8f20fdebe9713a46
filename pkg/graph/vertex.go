package graph

// Vertex is a single node of the knowledge graph: either an entity
// (subject/object) or one occurrence of a predicate connecting two entities.
//
// Vertices are value objects: two vertices are considered the same node when
// their Label and Predicate flag match. Prev and Next are only populated on
// predicate vertices and point to the subject and object of the triple the
// predicate occurrence belongs to; entity vertices never carry them.
type Vertex struct {
	Label     string
	Predicate bool

	Prev *Vertex
	Next *Vertex
}

// NewVertex creates an entity vertex.
func NewVertex(label string) *Vertex {
	return &Vertex{Label: label}
}

// NewPredicate creates a predicate vertex linked to the subject and object
// it connects.
func NewPredicate(label string, prev, next *Vertex) *Vertex {
	return &Vertex{Label: label, Predicate: true, Prev: prev, Next: next}
}

// Equal reports whether two vertices identify the same graph node.
func (v *Vertex) Equal(other *Vertex) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Label == other.Label && v.Predicate == other.Predicate
}

// Hop is one outgoing (or incoming) edge of a vertex: the predicate
// occurrence and the vertex it leads to.
type Hop struct {
	Pred   *Vertex
	Target *Vertex
}
