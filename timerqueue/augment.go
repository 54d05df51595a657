package timerqueue

import (
	"cmp"

	"github.com/Meander-Cloud/go-timerqueue/rbtree"
)

// Augment maintains caller data per subtree of a head, typically stored in
// Node.Value. See rbtree.Augment for the meaning of each callback.
type Augment[K cmp.Ordered, V any] interface {
	Propagate(n, stop *Node[K, V])
	Copy(old, new *Node[K, V])
	Rotate(old, new *Node[K, V])
}

// augmentFunc runs the engine's callback helper on queue nodes. A head
// initialized with one hands engine to its tree directly.
type augmentFunc[K cmp.Ordered, V any] struct {
	engine rbtree.Augment[*Node[K, V]]
}

// AugmentFunc builds an Augment from a compute function, which recalculates n
// from its children and, when exit is set, reports that nothing changed, and a
// transfer function, which copies the subtree data between nodes.
func AugmentFunc[K cmp.Ordered, V any](
	compute func(n *Node[K, V], exit bool) bool,
	transfer func(from, to *Node[K, V]),
) Augment[K, V] {
	return &augmentFunc[K, V]{
		engine: rbtree.Callbacks(
			func(link *rbtree.Node[*Node[K, V]], exit bool) bool {
				return compute(owner(link), exit)
			},
			func(from, to *rbtree.Node[*Node[K, V]]) {
				transfer(owner(from), owner(to))
			},
		),
	}
}

func (a *augmentFunc[K, V]) Propagate(n, stop *Node[K, V]) {
	a.engine.Propagate(linkOf(n), linkOf(stop))
}

func (a *augmentFunc[K, V]) Copy(old, new *Node[K, V]) {
	a.engine.Copy(linkOf(old), linkOf(new))
}

func (a *augmentFunc[K, V]) Rotate(old, new *Node[K, V]) {
	a.engine.Rotate(linkOf(old), linkOf(new))
}

func linkOf[K cmp.Ordered, V any](n *Node[K, V]) *rbtree.Node[*Node[K, V]] {
	if n == nil {
		return nil
	}
	return &n.link
}

// adapter presents a caller-defined Augment to the tree engine.
type adapter[K cmp.Ordered, V any] struct {
	augment Augment[K, V]
}

func (a *adapter[K, V]) Propagate(n, stop *rbtree.Node[*Node[K, V]]) {
	a.augment.Propagate(owner(n), owner(stop))
}

func (a *adapter[K, V]) Copy(old, new *rbtree.Node[*Node[K, V]]) {
	a.augment.Copy(owner(old), owner(new))
}

func (a *adapter[K, V]) Rotate(old, new *rbtree.Node[*Node[K, V]]) {
	a.augment.Rotate(owner(old), owner(new))
}
