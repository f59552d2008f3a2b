package ogst

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// nodeID is a stable handle into a Tree's node arena. The zero value is
// reserved for the root (it is always the first node allocated).
type nodeID int32

const invalidNode nodeID = -1

// positionSet is an ordered collection of distinct start offsets, the
// realization of SPEC_FULL.md §3's "ordered collection of start offsets".
// Backed by a red-black tree set so iteration is always ascending and
// insertion de-duplicates, which the construction algorithm relies on
// (the same (sequence, offset) pair is never recorded twice at a node).
type positionSet struct {
	set *treeset.Set
}

func newPositionSet() *positionSet {
	return &positionSet{set: treeset.NewWith(utils.IntComparator)}
}

func (p *positionSet) add(offset int) {
	p.set.Add(offset)
}

func (p *positionSet) len() int {
	return p.set.Size()
}

// values returns the offsets in ascending order.
func (p *positionSet) values() []int {
	raw := p.set.Values()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = v.(int)
	}
	return out
}

func (p *positionSet) clone() *positionSet {
	clone := newPositionSet()
	for _, v := range p.values() {
		clone.add(v)
	}
	return clone
}

// node is a node in the suffix tree graph. It never holds pointers to other
// nodes, edges, or leaves directly: every cross-reference is a handle into
// one of the Tree's arenas, per SPEC_FULL.md §3's arena-ownership decision.
type node[S comparable] struct {
	depth int

	// outgoing maps a first symbol to the edgeID of the unique outgoing
	// edge starting with that symbol. This generalizes the teacher's
	// byte-bitmap edge dispatch (hashicorp/go-immutable-radix's
	// edgeBitMap) to an arbitrary comparable alphabet.
	outgoing map[S]edgeID

	// order records edgeIDs in the sequence they were first attached, so
	// that traversal (query enumeration, DebugWalk, Fingerprint) is
	// reproducible for a given tree even though outgoing is a map.
	order []edgeID

	incoming   edgeID // invalidEdge for the root
	suffixLink nodeID // invalidNode if none

	// startingPositions maps sequence id to the ordered set of offsets at
	// which the root-to-node path occurs in that sequence.
	startingPositions map[string]*positionSet
}

func newNode[S comparable](depth int) *node[S] {
	return &node[S]{
		depth:             depth,
		outgoing:          make(map[S]edgeID),
		incoming:          invalidEdge,
		suffixLink:        invalidNode,
		startingPositions: make(map[string]*positionSet),
	}
}

func (n *node[S]) isLeaf() bool {
	return len(n.outgoing) == 0
}

// addOutgoing attaches a new outgoing edge, keeping the dispatch map and the
// deterministic order slice in sync.
func (n *node[S]) addOutgoing(sym S, eid edgeID) {
	if _, exists := n.outgoing[sym]; !exists {
		n.order = append(n.order, eid)
	}
	n.outgoing[sym] = eid
}

func (n *node[S]) recordStart(seqID string, offset int) {
	ps, ok := n.startingPositions[seqID]
	if !ok {
		ps = newPositionSet()
		n.startingPositions[seqID] = ps
	}
	ps.add(offset)
}

// totalCount sums the number of recorded start positions over every
// sequence, used by the frequency-filtered query operations.
func (n *node[S]) totalCount() int {
	total := 0
	for _, ps := range n.startingPositions {
		total += ps.len()
	}
	return total
}

// clonePositions deep-copies every sequence's position set, used to seed a
// freshly split internal node per SPEC_FULL.md §4.2's split_edge contract.
func (n *node[S]) clonePositions() map[string]*positionSet {
	out := make(map[string]*positionSet, len(n.startingPositions))
	for seqID, ps := range n.startingPositions {
		out[seqID] = ps.clone()
	}
	return out
}

// positionsSnapshot flattens startingPositions into plain slices for
// returning to callers outside the package.
func (n *node[S]) positionsSnapshot() map[string][]int {
	out := make(map[string][]int, len(n.startingPositions))
	for seqID, ps := range n.startingPositions {
		out[seqID] = ps.values()
	}
	return out
}
