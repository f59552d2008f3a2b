package ogst

import "golang.org/x/exp/slices"

// unresolvedLeaf marks a leaf whose implicit "grow to end" edge has been
// rebound to a different sequence because that leaf's own sequence is not
// the one currently being extended. It carries everything needed to walk
// the leaf's real position forward the next time its own sequence grows.
// SPEC_FULL.md §3 "UnresolvedLeaf".
type unresolvedLeaf struct {
	edge       edgeID
	length     int
	scanCursor int
	seq        string
}

// leafDepth computes depth(edge.from) + length without needing a Tree
// receiver, given the caller already has the edge's from-node depth.
func leafDepth(fromDepth, length int) int {
	return fromDepth + length
}

// sortUnresolvedDesc sorts leaf ids by decreasing (depth(edge.from) +
// length), the order SPEC_FULL.md §4.5 requires so that a split never
// invalidates a shallower leaf's cached edge pointer before it is visited.
// The Python source re-sorts on every drain pass with a standing TODO
// suggesting the list is already sorted; SPEC_FULL.md §9 resolves that open
// question by keeping the defensive sort, which is what this does.
func sortUnresolvedDesc(ids []leafID, keyOf func(leafID) int) {
	slices.SortFunc(ids, func(a, b leafID) bool {
		return keyOf(a) > keyOf(b)
	})
}
