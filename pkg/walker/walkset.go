package walker

import (
	"lukechampine.com/blake3"
)

// walkSet tracks walks already produced for a root. Membership is keyed by
// a blake3 digest of the token sequence, so long walks do not pin their
// full text in the set.
type walkSet struct {
	seen map[[32]byte]bool
}

func newWalkSet() *walkSet {
	return &walkSet{seen: make(map[[32]byte]bool)}
}

// add inserts the walk and reports whether it was new.
func (s *walkSet) add(w Walk) bool {
	key := digest(w)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

func digest(w Walk) [32]byte {
	h := blake3.New(32, nil)
	for _, tok := range w {
		h.Write([]byte(tok))
		h.Write([]byte{0x1f})
	}
	var key [32]byte
	h.Sum(key[:0])
	return key
}
