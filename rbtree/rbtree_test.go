package rbtree_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meander-Cloud/go-timerqueue/rbtree"
)

type item struct {
	key  int
	seq  int
	size int
	link rbtree.Node[*item]
}

func newItem(key, seq int) *item {
	it := &item{key: key, seq: seq}
	it.link.Item = it
	return it
}

func less(a, b *rbtree.Node[*item]) bool {
	return a.Item.key < b.Item.key
}

func computeSize(n *rbtree.Node[*item], exit bool) bool {
	size := 1
	if l := n.Left(); l != nil {
		size += l.Item.size
	}
	if r := n.Right(); r != nil {
		size += r.Item.size
	}
	if exit && n.Item.size == size {
		return true
	}
	n.Item.size = size
	return false
}

func transferSize(from, to *rbtree.Node[*item]) {
	to.Item.size = from.Item.size
}

// checkSize returns the subtree size and fails the test on a stale value.
func checkSize(t *testing.T, n *rbtree.Node[*item]) int {
	t.Helper()
	if n == nil {
		return 0
	}
	size := 1 + checkSize(t, n.Left()) + checkSize(t, n.Right())
	require.Equal(t, size, n.Item.size, "stale subtree size at key %d", n.Item.key)
	return size
}

func keys(r *rbtree.Root[*item]) []int {
	var out []int
	r.Walk(func(n *rbtree.Node[*item]) bool {
		out = append(out, n.Item.key)
		return true
	})
	return out
}

func TestInsertKeepsOrder(t *testing.T) {
	r := rbtree.New[*item]()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		it := newItem(rng.Intn(100), i)
		r.Insert(&it.link, less)
		require.NoError(t, rbtree.Verify(r, less))
	}

	assert.Equal(t, 500, r.Len())
	out := keys(r)
	require.Len(t, out, 500)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1], out[i])
	}
	assert.Equal(t, out[0], r.First().Item.key)
	assert.Equal(t, out[len(out)-1], r.Last().Item.key)
}

func TestInsertReportsLeftmost(t *testing.T) {
	r := rbtree.New[*item]()

	assert.True(t, r.Insert(&newItem(5, 0).link, less))
	assert.True(t, r.Insert(&newItem(1, 1).link, less))
	assert.False(t, r.Insert(&newItem(3, 2).link, less))
	// equal to the current minimum goes after it
	assert.False(t, r.Insert(&newItem(1, 3).link, less))
	assert.True(t, r.Insert(&newItem(0, 4).link, less))

	assert.Equal(t, []int{0, 1, 1, 3, 5}, keys(r))
}

func TestEqualKeysKeepInsertionOrder(t *testing.T) {
	r := rbtree.New[*item]()

	for i := 0; i < 64; i++ {
		r.Insert(&newItem(i%4, i).link, less)
	}

	prev := map[int]int{}
	r.Walk(func(n *rbtree.Node[*item]) bool {
		last, ok := prev[n.Item.key]
		if ok {
			assert.Greater(t, n.Item.seq, last)
		}
		prev[n.Item.key] = n.Item.seq
		return true
	})
}

func TestEraseMaintainsTree(t *testing.T) {
	r := rbtree.NewAugmented[*item](rbtree.Callbacks(computeSize, transferSize))
	rng := rand.New(rand.NewSource(11))

	items := make([]*item, 0, 300)
	for i := 0; i < 300; i++ {
		it := newItem(rng.Intn(50), i)
		items = append(items, it)
		r.Insert(&it.link, less)
		checkSize(t, r.Top())
	}
	require.NoError(t, rbtree.Verify(r, less))

	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	for i, it := range items {
		first := r.First()
		wasLeftmost := r.Erase(&it.link)
		assert.Equal(t, first == &it.link, wasLeftmost)
		assert.False(t, it.link.Linked())
		assert.Equal(t, len(items)-i-1, r.Len())

		require.NoError(t, rbtree.Verify(r, less))
		checkSize(t, r.Top())
	}

	assert.True(t, r.Empty())
	assert.Nil(t, r.First())
	assert.Nil(t, r.Top())
}

func TestAugmentSurvivesReuse(t *testing.T) {
	r := rbtree.NewAugmented[*item](rbtree.Callbacks(computeSize, transferSize))

	a := newItem(1, 0)
	b := newItem(2, 1)
	r.Insert(&a.link, less)
	r.Insert(&b.link, less)
	r.Erase(&b.link)

	// b still carries size 1 from its previous life
	r.Insert(&b.link, less)
	c := newItem(3, 2)
	c.size = 1
	r.Insert(&c.link, less)

	assert.Equal(t, 3, checkSize(t, r.Top()))
}

func TestNextPrev(t *testing.T) {
	r := rbtree.New[*item]()
	for i := 9; i >= 0; i-- {
		r.Insert(&newItem(i, i).link, less)
	}

	var forward []int
	for n := r.First(); n != nil; n = n.Next() {
		forward = append(forward, n.Item.key)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, forward)

	var backward []int
	for n := r.Last(); n != nil; n = n.Prev() {
		backward = append(backward, n.Item.key)
	}
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, backward)

	unlinked := newItem(0, 0)
	assert.Nil(t, unlinked.link.Next())
	assert.Nil(t, unlinked.link.Prev())
}

func TestWalkStopsEarly(t *testing.T) {
	r := rbtree.New[*item]()
	for i := 0; i < 10; i++ {
		r.Insert(&newItem(i, i).link, less)
	}

	visited := 0
	r.Walk(func(n *rbtree.Node[*item]) bool {
		visited++
		return n.Item.key < 3
	})
	assert.Equal(t, 4, visited)
}

func TestOwns(t *testing.T) {
	r1 := rbtree.New[*item]()
	r2 := rbtree.New[*item]()
	it := newItem(1, 0)

	assert.False(t, r1.Owns(&it.link))
	r1.Insert(&it.link, less)
	assert.True(t, r1.Owns(&it.link))
	assert.False(t, r2.Owns(&it.link))
	assert.Same(t, r1, it.link.Tree())

	r1.Erase(&it.link)
	assert.False(t, r1.Owns(&it.link))
	assert.Nil(t, it.link.Tree())
}
