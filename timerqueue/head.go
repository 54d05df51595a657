package timerqueue

import (
	"cmp"
	"fmt"
	"io"
	"iter"

	"github.com/Meander-Cloud/go-timerqueue/rbtree"
)

// Head orders queued nodes by expiration and caches the earliest one.
//
// A Head does no locking. All calls on one head, and on the nodes queued in
// it, must come from a single goroutine or be serialized by the caller.
type Head[K cmp.Ordered, V any] struct {
	root rbtree.Root[*Node[K, V]]
}

func NewHead[K cmp.Ordered, V any]() *Head[K, V] {
	h := &Head[K, V]{}
	h.Init()
	return h
}

// NewAugmentedHead returns a head whose tree calls augment on every structural change.
func NewAugmentedHead[K cmp.Ordered, V any](augment Augment[K, V]) *Head[K, V] {
	h := &Head[K, V]{}
	h.InitAugmented(augment)
	return h
}

// Init sets up an empty plain head. A zero Head is already a valid plain head.
func (h *Head[K, V]) Init() {
	h.root.Reset(nil)
}

func (h *Head[K, V]) InitAugmented(augment Augment[K, V]) {
	if augment == nil {
		h.root.Reset(nil)
		return
	}
	if f, ok := augment.(*augmentFunc[K, V]); ok && f != nil {
		h.root.Reset(f.engine)
		return
	}
	h.root.Reset(&adapter[K, V]{augment: augment})
}

func (h *Head[K, V]) Augmented() bool {
	return h.root.Augmented()
}

// Add queues n, whose expiration must already be set. Among equal expirations
// nodes keep the order in which they were added. Reports whether n is now the
// earliest node.
func (h *Head[K, V]) Add(n *Node[K, V]) bool {
	if n.Queued() {
		panic(fmt.Sprintf("timerqueue: add of queued node, expires=%v", n.expires))
	}

	n.link.Item = n
	return h.root.Insert(&n.link, less[K, V])
}

// Del removes n from h and leaves it unqueued with its expiration intact.
// Reports whether n was the earliest node.
func (h *Head[K, V]) Del(n *Node[K, V]) bool {
	if !h.root.Owns(&n.link) {
		if n.Queued() {
			panic(fmt.Sprintf("timerqueue: del of node queued in another head, expires=%v", n.expires))
		}
		panic(fmt.Sprintf("timerqueue: del of unqueued node, expires=%v", n.expires))
	}

	return h.root.Erase(&n.link)
}

// GetNext returns the node with the earliest expiration, or nil if h is empty.
func (h *Head[K, V]) GetNext() *Node[K, V] {
	return owner(h.root.First())
}

// GetRoot returns the node at the top of the tree. It is not the earliest node.
func (h *Head[K, V]) GetRoot() *Node[K, V] {
	return owner(h.root.Top())
}

// IterateNext returns the node following n in expiration order.
func (h *Head[K, V]) IterateNext(n *Node[K, V]) *Node[K, V] {
	return IterateNext(n)
}

// IterateNext returns the node following n in its head, or nil when n is the
// last node or not queued.
func IterateNext[K cmp.Ordered, V any](n *Node[K, V]) *Node[K, V] {
	if n == nil {
		return nil
	}
	return owner(n.link.Next())
}

// Contains reports whether n is queued in h.
func (h *Head[K, V]) Contains(n *Node[K, V]) bool {
	return h.root.Owns(&n.link)
}

func (h *Head[K, V]) Len() int {
	return h.root.Len()
}

func (h *Head[K, V]) Empty() bool {
	return h.root.Empty()
}

// All yields queued nodes from earliest to latest. The sequence is lazy:
// removing the yielded node inside the loop is allowed, any other change to h
// is not.
func (h *Head[K, V]) All() iter.Seq[*Node[K, V]] {
	return func(yield func(*Node[K, V]) bool) {
		for n := h.GetNext(); n != nil; {
			next := IterateNext(n)
			if !yield(n) {
				return
			}
			n = next
		}
	}
}

// Verify checks the tree and the earliest-node cache, and that every queued
// node is reached through its own embedded link.
func (h *Head[K, V]) Verify() error {
	if err := rbtree.Verify(&h.root, less[K, V]); err != nil {
		return err
	}

	index := 0
	for n := h.root.First(); n != nil; n = n.Next() {
		if n.Item == nil || &n.Item.link != n {
			return fmt.Errorf("%w: node %d does not own its link", rbtree.ErrBrokenInvariant, index)
		}
		index++
	}
	return nil
}

// Dump writes one line per queued node in expiration order.
func (h *Head[K, V]) Dump(w io.Writer) error {
	index := 0
	for n := range h.All() {
		if _, err := fmt.Fprintf(w, "%d: expires=%v value=%v\n", index, n.expires, n.Value); err != nil {
			return err
		}
		index++
	}
	return nil
}
