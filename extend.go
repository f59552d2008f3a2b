package ogst

// insertSuffix implements one step of SPEC_FULL.md §4.3: given the active
// sequence has just grown by one symbol, extend every suffix still pending
// for that sequence (ap.remainder of them) by the new symbol, recursing
// until either a match absorbs the new symbol implicitly or remainder
// reaches zero. Grounded in original_source/TreeBuilder.py's insert_suffix.
func (t *Tree[S]) insertSuffix(ap *activePoint) {
	if ap.hasEdge() {
		t.walkDown(ap)
	}
	if len(ap.unresolved) > 0 {
		t.drainUnresolvedLeaves(ap)
	}

	c := t.seqs.get(t.activeSeq, t.seqs.length(t.activeSeq)-1)

	if !ap.hasEdge() {
		if eid, ok := t.n(ap.node).outgoing[c]; ok {
			ap.edge = eid
			ap.length = 1
			return
		}

		startingPosition := t.seqs.length(t.activeSeq) - t.depthOf(ap.node) - 1
		t.addEdge(ap.node, startingPosition)
		ap.remainder--
		t.updateAfterSplit(ap)
		if ap.remainder >= 1 {
			t.insertSuffix(ap)
		}
		return
	}

	e := t.e(ap.edge)
	if t.symbolAt(e, ap.length) == c {
		ap.length++
		return
	}

	t.splitEdge(ap.edge, ap.length)
	ap.remainder--
	t.updateAfterSplit(ap)
	if ap.remainder >= 1 {
		t.insertSuffix(ap)
	}
}

// depthOf returns the path length from root to id. For every node but a
// leaf this is a fixed value cached at creation time; a leaf's incoming
// edge may be open, so its depth is derived live from the edge's current
// length (SPEC_FULL.md §9, resolving the "no sentinel depth" open question).
func (t *Tree[S]) depthOf(id nodeID) int {
	n := t.n(id)
	if id == root || !n.isLeaf() {
		return n.depth
	}
	e := t.e(n.incoming)
	return t.n(e.from).depth + t.edgeLength(e)
}

// walkDown canonizes the active point forward while its length reaches or
// exceeds the active edge's length, per SPEC_FULL.md §4.4. An open edge
// canonically owned by a different sequence is reclaimed for the active
// sequence along the way, generalizing Ukkonen's single-sequence
// canonization to the online, multi-sequence setting.
func (t *Tree[S]) walkDown(ap *activePoint) {
	for ap.hasEdge() {
		e := t.e(ap.edge)
		el := t.edgeLength(e)
		if ap.length < el {
			break
		}

		if e.open && e.seq != t.activeSeq {
			t.reclaimOpenEdge(ap, ap.edge)
			continue
		}

		dest := e.to
		ap.node = dest
		ap.length -= el
		ap.scanCursor += el

		destDepth := t.depthOf(dest)
		posA := t.seqs.length(t.activeSeq) - 1 - destDepth - ap.length
		posB := ap.scanCursor - 1
		pos := posA
		if posB < pos {
			pos = posB
		}
		t.n(dest).recordStart(t.activeSeq, pos)

		if ap.length >= 1 {
			sym := t.seqs.get(t.activeSeq, ap.scanCursor)
			eid, ok := t.n(dest).outgoing[sym]
			assertf(ok, "active point re-entry: no outgoing edge at node for symbol %v after descending", sym)
			ap.edge = eid
		} else {
			ap.clearEdge()
		}
	}

	if ap.length == 0 {
		ap.clearEdge()
	}
}

// reclaimOpenEdge "steals" an open edge canonically belonging to a
// different sequence for the active sequence, leaving the stolen-from
// sequence an unresolvedLeaf that reconciles its real position the next
// time that sequence is itself extended. SPEC_FULL.md §4.4, grounded in
// TreeBuilder.py's handling of canonical_range[1] == -1 during
// update_active_edge.
func (t *Tree[S]) reclaimOpenEdge(ap *activePoint, eid edgeID) {
	e := t.e(eid)
	origSeq := e.seq
	length := t.edgeLength(e)
	t.tracer.Debugf("walk_down: reclaiming open edge %d (seq=%s) for seq=%s", eid, origSeq, t.activeSeq)

	lf := unresolvedLeaf{
		edge:       eid,
		length:     length,
		scanCursor: t.seqs.length(origSeq),
		seq:        origSeq,
	}
	lid := t.allocLeaf(lf)
	e.addUnresolved(lid)
	t.active[origSeq].addUnresolved(lid)

	leaf := t.n(e.to)
	delete(leaf.startingPositions, origSeq)

	e.seq = t.activeSeq
	e.begin = ap.scanCursor

	leaf.recordStart(t.activeSeq, t.seqs.length(t.activeSeq)-ap.remainder)
	ap.remainder--

	from := t.n(e.from)
	if from.suffixLink != invalidNode {
		ap.node = from.suffixLink
		sym := t.seqs.get(t.activeSeq, ap.scanCursor)
		if eid2, ok := t.n(ap.node).outgoing[sym]; ok {
			ap.edge = eid2
		}
		return
	}

	ap.node = root
	ap.length = ap.remainder - 1
	ap.scanCursor = t.seqs.length(t.activeSeq) - ap.remainder
	if ap.remainder > 1 {
		sym := t.seqs.get(t.activeSeq, ap.scanCursor)
		if eid2, ok := t.n(root).outgoing[sym]; ok {
			ap.edge = eid2
			ap.length = ap.remainder - 1
		}
	}
}

// splitEdge breaks oldID into two edges joined by a new internal node at
// offset length along oldID's label, and immediately grows a new branch
// from that node for the suffix currently being inserted for the active
// sequence. Returns the new node. SPEC_FULL.md §4.2, grounded in
// TreeBuilder.py's split_edge.
func (t *Tree[S]) splitEdge(oldID edgeID, length int) nodeID {
	old := t.e(oldID)
	fromDepth := t.n(old.from).depth
	midDepth := fromDepth + length
	t.tracer.Debugf("split_edge: edge=%d at length=%d (mid depth=%d) seq=%s", oldID, length, midDepth, t.activeSeq)

	midID := t.allocNode(midDepth)
	mid := t.n(midID)
	mid.startingPositions = t.n(old.to).clonePositions()

	startingPosition := t.seqs.length(t.activeSeq) - midDepth - 1
	mid.recordStart(t.activeSeq, startingPosition)

	t.addEdge(midID, startingPosition)

	var newTailID edgeID
	if old.open {
		newTailID = t.allocOpenEdge(midID, old.to, old.seq, old.begin+length)
	} else {
		newTailID = t.allocClosedEdge(midID, old.to, old.seq, old.begin+length, old.end)
	}
	newTail := t.e(newTailID)
	mid.addOutgoing(t.symbolAt(newTail, 0), newTailID)
	t.n(old.to).incoming = newTailID

	old.end = old.begin + length
	old.open = false

	for id := range old.unresolved {
		lf := t.l(id)
		if lf.length > length {
			lf.length -= length
			lf.edge = newTailID
			mid.recordStart(lf.seq, t.seqs.length(lf.seq)-midDepth-lf.length)
			newTail.addUnresolved(id)
			delete(old.unresolved, id)
		}
	}

	// Reconcile every other sequence's active point resting on old_edge,
	// recording its pending suffix's start at mid when that suffix reaches
	// mid; the active sequence's own active point is updated by the caller
	// via updateAfterSplit instead.
	var rebindToTail []string
	for _, seqID := range t.seqs.ids() {
		if seqID == t.activeSeq {
			continue
		}
		other := t.active[seqID]
		if other == nil || other.edge != oldID {
			continue
		}
		switch {
		case other.length == length:
			mid.recordStart(seqID, t.seqs.length(seqID)-midDepth)
			other.node = midID
			other.clearEdge()
		case other.length > length:
			mid.recordStart(seqID, t.seqs.length(seqID)-fromDepth-other.length)
			other.length -= length
			rebindToTail = append(rebindToTail, seqID)
		}
	}

	old.to = midID
	mid.incoming = oldID

	for _, seqID := range rebindToTail {
		t.active[seqID].edge = newTailID
	}

	return midID
}

// addEdge grows a brand new leaf edge from from, open-ended over the
// active sequence starting at its current last symbol, and threads the
// pending suffix-link queue per SPEC_FULL.md §4.2. Grounded in
// TreeBuilder.py's add_edge.
func (t *Tree[S]) addEdge(from nodeID, startingPosition int) edgeID {
	begin := t.seqs.length(t.activeSeq) - 1
	leafNodeID := t.allocNode(0)

	eid := t.allocOpenEdge(from, leafNodeID, t.activeSeq, begin)
	t.n(from).addOutgoing(t.symbolAt(t.e(eid), 0), eid)
	t.n(leafNodeID).incoming = eid
	t.n(leafNodeID).recordStart(t.activeSeq, startingPosition)
	t.tracer.Debugf("add_edge: from=%d leaf=%d seq=%s begin=%d start=%d", from, leafNodeID, t.activeSeq, begin, startingPosition)

	if len(t.pendingSuffixLink) > 0 && from != root {
		t.n(t.pendingSuffixLink[0]).suffixLink = from
		t.pendingSuffixLink = t.pendingSuffixLink[1:]
	}
	t.pendingSuffixLink = append(t.pendingSuffixLink, from)

	return eid
}

// updateAfterSplit re-homes the active point after a split or a new leaf
// edge has consumed one suffix, following a suffix link when the active
// node has one and re-seeding starting positions on every node the link
// skipped over. SPEC_FULL.md §4.6, grounded in TreeBuilder.py's
// update_after_split.
func (t *Tree[S]) updateAfterSplit(ap *activePoint) {
	node := t.n(ap.node)

	if node.suffixLink != invalidNode {
		dest := node.suffixLink
		ap.node = dest

		if dest != root {
			p := t.seqs.length(t.activeSeq) - t.depthOf(dest) - 1 - ap.length
			for cur := dest; cur != root; {
				t.n(cur).recordStart(t.activeSeq, p)
				cur = t.e(t.n(cur).incoming).from
			}
		}

		if ap.hasEdge() {
			oldFirstSym := t.symbolAt(t.e(ap.edge), 0)
			eid, ok := t.n(dest).outgoing[oldFirstSym]
			assertf(ok, "suffix link target missing expected edge for symbol %v", oldFirstSym)
			ap.edge = eid
			t.walkDown(ap)
		}
		return
	}

	ap.node = root
	ap.scanCursor = t.seqs.length(t.activeSeq) - ap.remainder
	if ap.remainder >= 1 {
		sym := t.seqs.get(t.activeSeq, ap.scanCursor)
		if eid, ok := t.n(root).outgoing[sym]; ok {
			ap.edge = eid
			ap.length = ap.remainder - 1
			return
		}
	}
	ap.clearEdge()
}

// drainUnresolvedLeaves advances every leaf pending on ap's sequence by the
// symbol that was just appended, splitting edges, swapping reclaimed edges
// back, or growing new branches as each leaf's situation requires.
// SPEC_FULL.md §4.5, grounded in TreeBuilder.py's solve_unresolved_leaves.
func (t *Tree[S]) drainUnresolvedLeaves(ap *activePoint) {
	ids := append([]leafID(nil), ap.unresolved...)
	sortUnresolvedDesc(ids, func(id leafID) int {
		lf := t.l(id)
		return t.n(t.e(lf.edge).from).depth + lf.length
	})

	c := t.seqs.get(t.activeSeq, t.seqs.length(t.activeSeq)-1)
	t.tracer.Debugf("solve_unresolved_leaves: draining %d leaf(s) for seq=%s symbol=%v", len(ids), t.activeSeq, c)

	var toRemove []leafID
	var pendingDrainLinks []nodeID

	for _, id := range ids {
		lf := t.l(id)
		e := t.e(lf.edge)
		el := t.edgeLength(e)

		switch {
		case lf.length < el:
			if t.symbolAt(e, lf.length) == c {
				lf.length++
				continue
			}

			toRemove = append(toRemove, id)
			e.removeUnresolved(id)
			midID := t.splitEdge(lf.edge, lf.length)
			t.tracer.Debugf("solve_unresolved_leaves: leaf=%d resolved by splitting edge=%d at mid=%d (seq=%s)", id, lf.edge, midID, lf.seq)

			if len(pendingDrainLinks) > 0 {
				front := pendingDrainLinks[0]
				if t.n(front).depth == t.n(midID).depth+1 {
					t.n(front).suffixLink = midID
					pendingDrainLinks = pendingDrainLinks[1:]
				} else {
					pendingDrainLinks = nil
				}
			}
			pendingDrainLinks = append(pendingDrainLinks, midID)

		case lf.length == el:
			if e.open {
				origSeq := e.seq
				swapped := unresolvedLeaf{
					edge:       lf.edge,
					length:     el,
					scanCursor: t.seqs.length(origSeq),
					seq:        origSeq,
				}
				sid := t.allocLeaf(swapped)
				t.active[origSeq].addUnresolved(sid)
				e.addUnresolved(sid)

				toRemove = append(toRemove, id)
				e.removeUnresolved(id)

				dest := t.n(e.to)
				delete(dest.startingPositions, origSeq)

				fromDepth := t.n(e.from).depth
				e.seq = t.activeSeq
				dest.recordStart(t.activeSeq, t.seqs.length(t.activeSeq)-(fromDepth+el))
				e.begin = t.seqs.length(t.activeSeq) - el
				t.tracer.Debugf("solve_unresolved_leaves: leaf=%d resolved, edge=%d ownership swapped from seq=%s to seq=%s", id, lf.edge, origSeq, t.activeSeq)
			} else {
				dest := t.n(e.to)
				destDepth := t.depthOf(e.to)
				dest.recordStart(lf.seq, t.seqs.length(t.activeSeq)-destDepth-1)

				if eid2, ok := dest.outgoing[c]; ok {
					e.removeUnresolved(id)
					lf.scanCursor += el
					lf.edge = eid2
					lf.length = 1
					t.e(eid2).addUnresolved(id)
					t.tracer.Debugf("solve_unresolved_leaves: leaf=%d migrated onto child edge=%d (seq=%s)", id, eid2, lf.seq)
				} else {
					t.addEdge(e.to, t.seqs.length(t.activeSeq)-destDepth-1)
					toRemove = append(toRemove, id)
					e.removeUnresolved(id)
					t.tracer.Debugf("solve_unresolved_leaves: leaf=%d resolved by growing new edge from node=%d (seq=%s)", id, e.to, lf.seq)
				}
			}

		default:
			assertf(false, "unresolved leaf length %d exceeds edge length %d", lf.length, el)
		}
	}

	for _, id := range toRemove {
		ap.removeUnresolved(id)
	}
}
