package rbtree

// Augment keeps per-subtree data current while the tree changes shape.
//
// Propagate recomputes n and its ancestors up to, but not including, stop.
// Copy gives new the subtree data of old when new takes old's place.
// Rotate is called after new was rotated into old's position.
type Augment[T any] interface {
	Propagate(n, stop *Node[T])
	Copy(old, new *Node[T])
	Rotate(old, new *Node[T])
}

type callbacks[T any] struct {
	compute  func(n *Node[T], exit bool) bool
	transfer func(from, to *Node[T])
}

// Callbacks builds an Augment from two functions.
//
// compute recalculates the data of n from n and its children. When exit is
// true it must report whether the stored value was already up to date, which
// ends propagation early. transfer copies the stored data from one node to
// another.
func Callbacks[T any](
	compute func(n *Node[T], exit bool) bool,
	transfer func(from, to *Node[T]),
) Augment[T] {
	return &callbacks[T]{
		compute:  compute,
		transfer: transfer,
	}
}

func (c *callbacks[T]) Propagate(n, stop *Node[T]) {
	for n != stop {
		if c.compute(n, true) {
			break
		}
		n = n.parent
	}
}

func (c *callbacks[T]) Copy(old, new *Node[T]) {
	c.transfer(old, new)
}

func (c *callbacks[T]) Rotate(old, new *Node[T]) {
	c.transfer(old, new)
	c.compute(old, false)
}
