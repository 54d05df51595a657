package timerqueue

import (
	"cmp"
	"fmt"

	"github.com/Meander-Cloud/go-timerqueue/rbtree"
)

// Node is a timer-like entry ordered by its expiration.
//
// The zero value is an unqueued node with a zero expiration. A node is owned
// by the caller, a Head only links it in and out, and it must not be copied
// while queued.
type Node[K cmp.Ordered, V any] struct {
	link    rbtree.Node[*Node[K, V]]
	expires K

	// caller payload, never read by the queue
	Value V
}

func NewNode[K cmp.Ordered, V any](expires K, value V) *Node[K, V] {
	return &Node[K, V]{
		expires: expires,
		Value:   value,
	}
}

// Init puts the node into the unqueued state, it must not be queued in any head.
func (n *Node[K, V]) Init() {
	n.link.Clear()
	n.link.Item = nil
}

// SetExpires changes the expiration of an unqueued node.
func (n *Node[K, V]) SetExpires(expires K) {
	if n.Queued() {
		panic(fmt.Sprintf("timerqueue: set expires=%v on queued node", n.expires))
	}
	n.expires = expires
}

func (n *Node[K, V]) Expires() K {
	return n.expires
}

func (n *Node[K, V]) Queued() bool {
	return n.link.Linked()
}

// Left, Right and Parent expose the tree shape to augmentation callbacks.

func (n *Node[K, V]) Left() *Node[K, V] {
	return owner(n.link.Left())
}

func (n *Node[K, V]) Right() *Node[K, V] {
	return owner(n.link.Right())
}

func (n *Node[K, V]) Parent() *Node[K, V] {
	return owner(n.link.Parent())
}

func owner[K cmp.Ordered, V any](link *rbtree.Node[*Node[K, V]]) *Node[K, V] {
	if link == nil {
		return nil
	}
	return link.Item
}

func less[K cmp.Ordered, V any](a, b *rbtree.Node[*Node[K, V]]) bool {
	return a.Item.expires < b.Item.expires
}
