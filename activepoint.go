package ogst

// activePoint is the canonical insertion cursor for one sequence:
// SPEC_FULL.md §3 "ActivePoint". edge is invalidEdge when length is 0.
type activePoint struct {
	node       nodeID
	edge       edgeID // invalidEdge iff length == 0
	length     int
	scanCursor int
	remainder  int

	// unresolved holds, per SPEC_FULL.md §3, the leaves whose own
	// sequence is this active point's sequence and which must be
	// advanced before the active point's own next symbol is compared
	// (SPEC_FULL.md §4.5).
	unresolved []leafID
}

func newActivePoint(root nodeID) *activePoint {
	return &activePoint{node: root, edge: invalidEdge}
}

func (ap *activePoint) hasEdge() bool {
	return ap.edge != invalidEdge
}

func (ap *activePoint) clearEdge() {
	ap.edge = invalidEdge
	ap.length = 0
}

func (ap *activePoint) addUnresolved(id leafID) {
	ap.unresolved = append(ap.unresolved, id)
}

// removeUnresolved deletes id from the pending list; it is a no-op if id is
// not present (already removed by an earlier pass in the same drain).
func (ap *activePoint) removeUnresolved(id leafID) {
	for i, v := range ap.unresolved {
		if v == id {
			ap.unresolved = append(ap.unresolved[:i], ap.unresolved[i+1:]...)
			return
		}
	}
}
