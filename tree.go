package ogst

import (
	"github.com/hashicorp/go-uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/schuko/tracing"
)

// Tree is an online generalized suffix tree over sequences of symbols of
// type S. The zero value is not usable; construct one with New.
//
// Tree is not safe for concurrent use. Extend is the sole mutator and is
// not reentrant; query methods must not be called while an Extend call for
// the same Tree is in flight, per SPEC_FULL.md §5.
type Tree[S comparable] struct {
	seqs *sequenceStore[S]

	nodes  []*node[S]
	edges  []*edge[S]
	leaves []*unresolvedLeaf

	active map[string]*activePoint

	// activeSeq names the sequence currently being extended; it is only
	// meaningful during a call to Extend (and the helpers it calls).
	activeSeq string

	// pendingSuffixLink mirrors the Python source's
	// created_nodes_during_step: nodes that add_edge grew a branch from
	// during the current symbol's insertion cascade and that still need
	// their suffix link threaded to the next branching node
	// (SPEC_FULL.md §4.2).
	pendingSuffixLink []nodeID

	tracer tracing.Trace
	cache  *lru.Cache[string, ContainsResult]
}

// New constructs an empty Tree over alphabet S.
func New[S comparable](opts ...Option) *Tree[S] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Tree[S]{
		seqs:   newSequenceStore[S](),
		active: make(map[string]*activePoint),
		tracer: cfg.tracer,
	}
	t.allocNode(0) // nodeID(0) is always the root

	if cfg.cacheSize > 0 {
		cache, err := lru.New[string, ContainsResult](cfg.cacheSize)
		assertf(err == nil, "constructing query cache: %v", err)
		t.cache = cache
	}
	return t
}

const root nodeID = 0

func (t *Tree[S]) allocNode(depth int) nodeID {
	t.nodes = append(t.nodes, newNode[S](depth))
	return nodeID(len(t.nodes) - 1)
}

func (t *Tree[S]) allocOpenEdge(from, to nodeID, seq string, begin int) edgeID {
	t.edges = append(t.edges, newEdge[S](from, to, seq, begin))
	return edgeID(len(t.edges) - 1)
}

func (t *Tree[S]) allocClosedEdge(from, to nodeID, seq string, begin, end int) edgeID {
	t.edges = append(t.edges, newClosedEdge[S](from, to, seq, begin, end))
	return edgeID(len(t.edges) - 1)
}

func (t *Tree[S]) allocLeaf(l unresolvedLeaf) leafID {
	t.leaves = append(t.leaves, &l)
	return leafID(len(t.leaves) - 1)
}

func (t *Tree[S]) n(id nodeID) *node[S] { return t.nodes[id] }
func (t *Tree[S]) e(id edgeID) *edge[S] { return t.edges[id] }
func (t *Tree[S]) l(id leafID) *unresolvedLeaf { return t.leaves[id] }

// edgeEnd returns the effective end offset of e: its stored end if closed,
// or the current length of its canonical sequence if open. This is the
// single point where SPEC_FULL.md §3's "open edge" generalization of
// Ukkonen's shared global end is resolved.
func (t *Tree[S]) edgeEnd(e *edge[S]) int {
	if e.open {
		return t.seqs.length(e.seq)
	}
	return e.end
}

func (t *Tree[S]) edgeLength(e *edge[S]) int {
	return t.edgeEnd(e) - e.begin
}

// label returns the symbols labeling e.
func (t *Tree[S]) label(e *edge[S]) []S {
	return t.seqs.slice(e.seq, e.begin, t.edgeEnd(e))
}

// symbolAt returns the symbol at position i along e's label (i must be in
// [0, edgeLength(e))).
func (t *Tree[S]) symbolAt(e *edge[S], i int) S {
	return t.seqs.get(e.seq, e.begin+i)
}

// Extend appends symbols to the sequence named seqID, creating it on first
// use, and updates the index after each symbol per SPEC_FULL.md §4.3.
//
// The returned error is always nil for a Tree[S] constructed through New:
// Go's type system already rules out the "alphabet mismatch" failure mode
// documented on ErrAlphabetMismatch, since every symbol passed to Extend is
// statically of type S. The error return exists so that any future entry
// point accepting symbols from outside that static guarantee (e.g. a
// dynamically-typed adapter) can report ErrAlphabetMismatch through the
// same signature without breaking callers.
func (t *Tree[S]) Extend(seqID string, symbols ...S) error {
	if t.seqs.ensure(seqID) {
		t.active[seqID] = newActivePoint(root)
	}
	t.activeSeq = seqID
	ap := t.active[seqID]

	for _, sym := range symbols {
		txID, _ := uuid.GenerateUUID()
		t.seqs.append(seqID, sym)
		t.pendingSuffixLink = nil
		ap.remainder++
		t.tracer.Debugf("extend tx=%s seq=%s symbol=%v remainder=%d", txID, seqID, sym, ap.remainder)
		t.insertSuffix(ap)
	}

	if t.cache != nil {
		t.cache.Purge()
	}
	return nil
}
