package rbtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLess(a, b *Node[int]) bool {
	return a.Item < b.Item
}

func buildInts(keys ...int) (*Root[int], []*Node[int]) {
	r := New[int]()
	nodes := make([]*Node[int], 0, len(keys))
	for _, k := range keys {
		n := &Node[int]{Item: k}
		r.Insert(n, intLess)
		nodes = append(nodes, n)
	}
	return r, nodes
}

func TestVerifyEmpty(t *testing.T) {
	r := New[int]()
	assert.NoError(t, Verify(r, intLess))

	r.leftmost = &Node[int]{}
	assert.ErrorIs(t, Verify(r, intLess), ErrBrokenInvariant)
}

func TestVerifyDetectsRedTop(t *testing.T) {
	r, _ := buildInts(3, 1, 2)
	require.NoError(t, Verify(r, intLess))

	r.top.color = red
	assert.ErrorIs(t, Verify(r, intLess), ErrBrokenInvariant)
}

func TestVerifyDetectsStaleLeftmost(t *testing.T) {
	r, nodes := buildInts(3, 1, 2)

	r.leftmost = nodes[0]
	err := Verify(r, intLess)
	assert.ErrorIs(t, err, ErrBrokenInvariant)
	assert.Contains(t, err.Error(), "leftmost")
}

func TestVerifyDetectsOrder(t *testing.T) {
	r, _ := buildInts(1, 2, 3)

	r.top.Item = 100
	err := Verify(r, intLess)
	assert.ErrorIs(t, err, ErrBrokenInvariant)
}

func TestVerifyDetectsCount(t *testing.T) {
	r, _ := buildInts(1, 2, 3)

	r.size = 7
	assert.ErrorIs(t, Verify(r, intLess), ErrBrokenInvariant)
}

func TestResetKeepsAugmentChoice(t *testing.T) {
	r := New[int]()
	assert.False(t, r.Augmented())

	r.Reset(Callbacks(
		func(*Node[int], bool) bool { return true },
		func(*Node[int], *Node[int]) {},
	))
	assert.True(t, r.Augmented())
	assert.True(t, r.Empty())
}
