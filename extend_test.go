package ogst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtend_SingleSequenceSubstringOccurrences(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("banana")...))

	res := tree.Contains([]byte("ana"))
	require.True(t, res.Present)
	assert.ElementsMatch(t, []int{1, 3}, res.Positions["s1"])

	res = tree.Contains([]byte("nan"))
	require.True(t, res.Present)
	assert.Equal(t, []int{2}, res.Positions["s1"])

	res = tree.Contains([]byte("banana"))
	require.True(t, res.Present)
	assert.Equal(t, []int{0}, res.Positions["s1"])

	res = tree.Contains([]byte("xyz"))
	assert.False(t, res.Present)
	assert.Nil(t, res.Positions)
}

func TestExtend_SingleSymbolCascade(t *testing.T) {
	// In "aaaa" every symbol after the first matches implicitly along the
	// single open edge, so remainder builds up to 3 without any further
	// explicit insertion; every run of 'a' must still be found.
	tree := New[byte]()
	for _, b := range []byte("aaaa") {
		require.NoError(t, tree.Extend("s1", b))
	}

	for _, sub := range [][]byte{{'a'}, {'a', 'a'}, {'a', 'a', 'a'}, {'a', 'a', 'a', 'a'}} {
		res := tree.Contains(sub)
		require.Truef(t, res.Present, "expected %q present", sub)
	}

	res := tree.Contains([]byte("aaaaa"))
	assert.False(t, res.Present)
}

func TestExtend_TwoSequencesShareStructure(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("xabcy")...))
	require.NoError(t, tree.Extend("s2", []byte("abcz")...))

	res := tree.Contains([]byte("abc"))
	require.True(t, res.Present)
	assert.Equal(t, []int{1}, res.Positions["s1"])
	assert.Equal(t, []int{0}, res.Positions["s2"])

	res = tree.Contains([]byte("bcz"))
	require.True(t, res.Present)
	_, inS1 := res.Positions["s1"]
	assert.False(t, inS1)
	assert.Equal(t, []int{1}, res.Positions["s2"])
}

func TestExtend_LaterExtensionOfEarlierSequence(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("ab")...))
	require.NoError(t, tree.Extend("s2", []byte("abx")...))
	// Extending s2 to the end of s1's open leaf edges makes walkDown
	// reclaim them for s2, leaving s1 unresolved leaves; growing s1 again
	// must resolve those leaves by splitting the reclaimed edges.
	require.NoError(t, tree.Extend("s1", []byte("y")...))

	res := tree.Contains([]byte("ab"))
	require.True(t, res.Present)
	assert.Equal(t, []int{0}, res.Positions["s1"])
	assert.Equal(t, []int{0}, res.Positions["s2"])

	res = tree.Contains([]byte("aby"))
	require.True(t, res.Present)
	assert.Equal(t, []int{0}, res.Positions["s1"])
	_, inS2 := res.Positions["s2"]
	assert.False(t, inS2)

	res = tree.Contains([]byte("abx"))
	require.True(t, res.Present)
	_, inS1 := res.Positions["s1"]
	assert.False(t, inS1)
	assert.Equal(t, []int{0}, res.Positions["s2"])
}

func TestExtend_InterleavedExtensionTriggersReclamation(t *testing.T) {
	tree := New[byte]()
	// Alternate single-symbol extends across two sequences that share a
	// long common prefix, forcing repeated edge reclamation back and
	// forth between them.
	a := []byte("abcabx")
	b := []byte("abcaby")
	maxLen := len(a)
	for i := 0; i < maxLen; i++ {
		require.NoError(t, tree.Extend("a", a[i]))
		require.NoError(t, tree.Extend("b", b[i]))
	}

	res := tree.Contains([]byte("abcab"))
	require.True(t, res.Present)
	assert.Equal(t, []int{0}, res.Positions["a"])
	assert.Equal(t, []int{0}, res.Positions["b"])

	res = tree.Contains([]byte("abcabx"))
	require.True(t, res.Present)
	assert.Equal(t, []int{0}, res.Positions["a"])
	_, inB := res.Positions["b"]
	assert.False(t, inB)

	res = tree.Contains([]byte("abcaby"))
	require.True(t, res.Present)
	_, inA := res.Positions["a"]
	assert.False(t, inA)
	assert.Equal(t, []int{0}, res.Positions["b"])
}

func TestExtend_TokenAlphabet(t *testing.T) {
	tree := New[string]()
	require.NoError(t, tree.Extend("log1", "GET", "/a", "200", "GET", "/b", "200"))

	res := tree.Contains([]string{"GET", "/b"})
	require.True(t, res.Present)
	assert.Equal(t, []int{3}, res.Positions["log1"])

	res = tree.Contains([]string{"POST"})
	assert.False(t, res.Present)
}

func TestContains_EmptyPatternAlwaysPresent(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("ab")...))

	res := tree.Contains(nil)
	require.True(t, res.Present)
	assert.NotEmpty(t, res.Positions["s1"])

	res = tree.Contains([]byte{})
	require.True(t, res.Present)
}

func TestContains_IsIdempotent(t *testing.T) {
	tree := New[byte]()
	require.NoError(t, tree.Extend("s1", []byte("mississippi")...))

	first := tree.Contains([]byte("issi"))
	second := tree.Contains([]byte("issi"))
	assert.Equal(t, first, second)
}
