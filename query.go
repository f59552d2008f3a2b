package ogst

import (
	"fmt"
	"strings"

	digest "github.com/opencontainers/go-digest"
)

// ContainsResult is the outcome of a Contains query: whether the pattern
// occurs anywhere in the indexed sequences, and if so, every (sequence,
// offset) pair at which it starts.
type ContainsResult struct {
	Present   bool
	Positions map[string][]int
}

// Pattern is one entry returned by the frequency-filtered enumeration
// queries: the symbols on a root-to-node path, how many times that path
// occurs across all indexed sequences, and where.
type Pattern[S comparable] struct {
	Symbols     []S
	Occurrences int
	Positions   map[string][]int
}

// Contains reports whether pattern occurs in any indexed sequence. An
// empty pattern is, per SPEC_FULL.md §9, always present, with Positions the
// union of every starting position recorded anywhere in the tree (every
// sequence starts with the empty string at every one of its offsets).
func (t *Tree[S]) Contains(pattern []S) ContainsResult {
	key := t.cacheKey(pattern)
	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			return cached
		}
	}

	result := t.containsUncached(pattern)

	if t.cache != nil {
		t.cache.Add(key, result)
	}
	return result
}

func (t *Tree[S]) containsUncached(pattern []S) ContainsResult {
	if len(pattern) == 0 {
		union := make(map[string]*positionSet)
		t.walkAll(root, func(id nodeID) {
			for seqID, ps := range t.n(id).startingPositions {
				u, ok := union[seqID]
				if !ok {
					u = newPositionSet()
					union[seqID] = u
				}
				for _, off := range ps.values() {
					u.add(off)
				}
			}
		})
		positions := make(map[string][]int, len(union))
		for seqID, u := range union {
			positions[seqID] = u.values()
		}
		return ContainsResult{Present: true, Positions: positions}
	}

	cur := root
	i := 0
	for i < len(pattern) {
		sym := pattern[i]
		eid, ok := t.n(cur).outgoing[sym]
		if !ok {
			return ContainsResult{Present: false}
		}
		e := t.e(eid)
		el := t.edgeLength(e)
		matchLen := el
		if remain := len(pattern) - i; remain < matchLen {
			matchLen = remain
		}
		for j := 0; j < matchLen; j++ {
			if t.symbolAt(e, j) != pattern[i+j] {
				return ContainsResult{Present: false}
			}
		}
		i += matchLen
		cur = e.to
	}

	return ContainsResult{Present: true, Positions: t.n(cur).positionsSnapshot()}
}

func (t *Tree[S]) walkAll(id nodeID, visit func(nodeID)) {
	visit(id)
	for _, eid := range t.n(id).order {
		t.walkAll(t.e(eid).to, visit)
	}
}

func (t *Tree[S]) cacheKey(pattern []S) string {
	var b strings.Builder
	for _, sym := range pattern {
		fmt.Fprintf(&b, "%v\x00", sym)
	}
	return b.String()
}

// PatternsWithCountAtLeast enumerates every distinct substring that occurs
// at least k times across all indexed sequences, along with every position
// it occurs at. The empty root path is never itself reported.
func (t *Tree[S]) PatternsWithCountAtLeast(k int) []Pattern[S] {
	var out []Pattern[S]
	t.collectPatterns(root, nil, k, 0, &out)
	return out
}

// PatternsWithLengthAndCountAtLeast is PatternsWithCountAtLeast additionally
// filtered to patterns of at least minLength symbols, not exactly
// minLength: a pattern that is itself longer than
// minLength still satisfies the filter, since every prefix of it that
// reaches minLength also occurs at least k times at that shallower node.
func (t *Tree[S]) PatternsWithLengthAndCountAtLeast(minLength, k int) []Pattern[S] {
	var out []Pattern[S]
	t.collectPatterns(root, nil, k, minLength, &out)
	return out
}

func (t *Tree[S]) collectPatterns(id nodeID, prefix []S, k, minLength int, out *[]Pattern[S]) {
	n := t.n(id)
	for _, eid := range n.order {
		e := t.e(eid)
		label := t.label(e)
		full := make([]S, 0, len(prefix)+len(label))
		full = append(full, prefix...)
		full = append(full, label...)

		child := t.n(e.to)
		count := child.totalCount()

		if count >= k {
			// A pattern ending inside this edge's label occurs exactly where
			// the child's path does, since nothing branches before the child.
			for l := max(len(prefix)+1, minLength); l <= len(full); l++ {
				*out = append(*out, Pattern[S]{
					Symbols:     full[:l:l],
					Occurrences: count,
					Positions:   child.positionsSnapshot(),
				})
			}
		}

		t.collectPatterns(e.to, full, k, minLength, out)
	}
}

// DebugWalk visits every node of the tree except the root in a deterministic pre-order,
// reporting the label reconstructed to reach it, its depth, and its
// recorded starting positions. Traversal stops early if visit returns
// false. Intended for tests and manual inspection, not hot-path use.
func (t *Tree[S]) DebugWalk(visit func(label []S, depth int, positions map[string][]int) bool) {
	t.debugWalk(root, nil, visit)
}

func (t *Tree[S]) debugWalk(id nodeID, prefix []S, visit func([]S, int, map[string][]int) bool) bool {
	n := t.n(id)
	if id != root {
		if !visit(prefix, t.depthOf(id), n.positionsSnapshot()) {
			return false
		}
	}
	for _, eid := range n.order {
		e := t.e(eid)
		label := t.label(e)
		full := make([]S, 0, len(prefix)+len(label))
		full = append(full, prefix...)
		full = append(full, label...)
		if !t.debugWalk(e.to, full, visit) {
			return false
		}
	}
	return true
}

// Fingerprint summarizes the tree's current shape and content into a
// content digest, stable across equivalent trees built from the same
// sequences regardless of insertion order or timing. Useful for the
// ordering-insensitivity property tests exercise: two trees built from the
// same sequences via different extension orders fingerprint identically.
func (t *Tree[S]) Fingerprint() digest.Digest {
	var b strings.Builder
	var walk func(id nodeID, prefix []S)
	walk = func(id nodeID, prefix []S) {
		n := t.n(id)
		if id != root {
			fmt.Fprintf(&b, "%v|%d;", prefix, n.totalCount())
		}
		children := make([]edgeID, len(n.order))
		copy(children, n.order)
		sortEdgesByLabel(t, children)
		for _, eid := range children {
			e := t.e(eid)
			label := t.label(e)
			full := make([]S, 0, len(prefix)+len(label))
			full = append(full, prefix...)
			full = append(full, label...)
			walk(e.to, full)
		}
	}
	walk(root, nil)
	return digest.FromString(b.String())
}

func sortEdgesByLabel[S comparable](t *Tree[S], ids []edgeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0; j-- {
			a, b := t.e(ids[j-1]), t.e(ids[j])
			if fmt.Sprint(t.symbolAt(a, 0)) <= fmt.Sprint(t.symbolAt(b, 0)) {
				break
			}
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
