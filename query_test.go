package ogst

import (
	"bytes"
	"sort"
	"testing"

	"github.com/cnf/structhash"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsWithCountAtLeast_FindsSharedSubstrings(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("abab")...))
	require.NoError(t, tree.Extend("s2", []byte("ab")...))

	patterns := tree.PatternsWithCountAtLeast(3)

	found := false
	for _, p := range patterns {
		if bytes.Equal(p.Symbols, []byte("ab")) {
			found = true
			assert.GreaterOrEqual(t, p.Occurrences, 3)
		}
	}
	assert.True(t, found, "expected \"ab\" among patterns occurring at least 3 times")

	for _, p := range tree.PatternsWithCountAtLeast(100) {
		t.Fatalf("no pattern should occur 100 times, got %q with %d", p.Symbols, p.Occurrences)
	}
}

func TestPatternsWithLengthAndCountAtLeast_FiltersByMinimumLength(t *testing.T) {
	// spec.md §8 scenario 2.
	tree := New[byte]()
	require.NoError(t, tree.Extend("s0", []byte("miss")...))
	require.NoError(t, tree.Extend("s0", []byte("issippi")...))
	require.NoError(t, tree.Extend("s1", []byte("mississippi")...))

	patterns := tree.PatternsWithLengthAndCountAtLeast(3, 2)
	for _, p := range patterns {
		assert.GreaterOrEqual(t, len(p.Symbols), 3)
		assert.GreaterOrEqual(t, p.Occurrences, 2)
	}

	want := [][]byte{[]byte("iss"), []byte("issi"), []byte("ssi")}
	for _, w := range want {
		found := false
		for _, p := range patterns {
			if bytes.Equal(p.Symbols, w) {
				found = true
				break
			}
		}
		assert.Truef(t, found, "expected %q among patterns at least 3 long occurring at least twice", w)
	}
}

func TestDebugWalk_VisitsEveryNodeOnce(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("abcabc")...))

	visited := 0
	tree.DebugWalk(func(label []byte, depth int, positions map[string][]int) bool {
		visited++
		assert.Equal(t, len(label), depth)
		return true
	})
	assert.Greater(t, visited, 0)
	// Every node but the root is visited exactly once.
	assert.Equal(t, len(tree.nodes)-1, visited)
}

func TestFingerprint_InsensitiveToExtensionOrder(t *testing.T) {
	oneShot := New[byte]()
	require.NoError(t, oneShot.Extend("a", []byte("abcabx")...))
	require.NoError(t, oneShot.Extend("b", []byte("abcaby")...))

	interleaved := New[byte]()
	sa, sb := []byte("abcabx"), []byte("abcaby")
	for i := 0; i < len(sa); i++ {
		require.NoError(t, interleaved.Extend("b", sb[i]))
		require.NoError(t, interleaved.Extend("a", sa[i]))
	}

	assert.Equal(t, oneShot.Fingerprint(), interleaved.Fingerprint())
}

func TestFingerprint_DiffersForDifferentContent(t *testing.T) {
	t1 := New[byte]()
	require.NoError(t, t1.Extend("s1", []byte("abc")...))

	t2 := New[byte]()
	require.NoError(t, t2.Extend("s1", []byte("abd")...))

	assert.NotEqual(t, t1.Fingerprint(), t2.Fingerprint())
}

func TestPatterns_IsomorphicAcrossExtensionOrder(t *testing.T) {
	oneShot := New[byte]()
	require.NoError(t, oneShot.Extend("a", []byte("abcabx")...))
	require.NoError(t, oneShot.Extend("b", []byte("abcaby")...))

	interleaved := New[byte]()
	sa, sb := []byte("abcabx"), []byte("abcaby")
	for i := 0; i < len(sa); i++ {
		require.NoError(t, interleaved.Extend("a", sa[i]))
		require.NoError(t, interleaved.Extend("b", sb[i]))
	}

	sortedPatterns := func(tr *Tree[byte]) []Pattern[byte] {
		ps := tr.PatternsWithCountAtLeast(1)
		sort.Slice(ps, func(i, j int) bool {
			if c := bytes.Compare(ps[i].Symbols, ps[j].Symbols); c != 0 {
				return c < 0
			}
			return ps[i].Occurrences < ps[j].Occurrences
		})
		return ps
	}

	left := sortedPatterns(oneShot)
	right := sortedPatterns(interleaved)

	require.Len(t, right, len(left))

	hashLeft, err := structhash.Hash(left, 1)
	require.NoError(t, err)
	hashRight, err := structhash.Hash(right, 1)
	require.NoError(t, err)
	assert.Equal(t, hashLeft, hashRight)

	if diff := cmp.Diff(left, right); diff != "" {
		t.Fatalf("pattern sets differ (-oneShot +interleaved):\n%s", diff)
	}
}
