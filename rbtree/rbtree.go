package rbtree

type color bool

const (
	red   color = false
	black color = true
)

// Node is the link embedded into a caller-owned element.
// The zero value is unlinked.
type Node[T any] struct {
	parent *Node[T]
	left   *Node[T]
	right  *Node[T]
	color  color

	// tree this node is linked into, nil when unlinked
	root *Root[T]

	// element owning this link, set by the caller before insert
	Item T
}

// Root is a red-black tree of intrusive nodes with a cached leftmost node.
type Root[T any] struct {
	top      *Node[T]
	leftmost *Node[T]
	size     int

	// fixed at construction, nil for a plain tree
	augment Augment[T]
}

func New[T any]() *Root[T] {
	return &Root[T]{}
}

func NewAugmented[T any](augment Augment[T]) *Root[T] {
	return &Root[T]{
		augment: augment,
	}
}

// Reset empties the root and sets its augmentation, the root must not have linked nodes.
func (r *Root[T]) Reset(augment Augment[T]) {
	r.top = nil
	r.leftmost = nil
	r.size = 0
	r.augment = augment
}

func (r *Root[T]) Augmented() bool {
	return r.augment != nil
}

func (r *Root[T]) Len() int {
	return r.size
}

func (r *Root[T]) Empty() bool {
	return r.top == nil
}

// First returns the cached leftmost node, or nil if the tree is empty.
func (r *Root[T]) First() *Node[T] {
	return r.leftmost
}

func (r *Root[T]) Last() *Node[T] {
	if r.top == nil {
		return nil
	}
	return r.top.maximum()
}

// Top returns the root-most node.
func (r *Root[T]) Top() *Node[T] {
	return r.top
}

// Owns reports whether n is linked into r.
func (r *Root[T]) Owns(n *Node[T]) bool {
	return n.root == r
}

// Insert links n using less as the strict order. Nodes comparing equal to an
// existing node are placed after it. Reports whether n became the leftmost node.
func (r *Root[T]) Insert(n *Node[T], less func(a, b *Node[T]) bool) bool {
	var parent *Node[T]
	link := &r.top
	leftmost := true

	for *link != nil {
		parent = *link
		if less(n, parent) {
			link = &parent.left
		} else {
			link = &parent.right
			leftmost = false
		}
	}

	n.parent = parent
	n.left = nil
	n.right = nil
	n.color = red
	n.root = r
	*link = n

	if leftmost {
		r.leftmost = n
	}
	r.size++

	if r.augment != nil {
		// the new leaf is computed on its own so a stale value on a reused
		// node cannot stop propagation early
		r.augment.Propagate(n, parent)
		r.augment.Propagate(parent, nil)
	}
	r.insertFixup(n)

	return leftmost
}

// Erase unlinks n, which must be linked into r, and clears it.
// Reports whether n was the leftmost node.
func (r *Root[T]) Erase(n *Node[T]) bool {
	wasLeftmost := r.leftmost == n
	if wasLeftmost {
		r.leftmost = n.Next()
	}

	r.erase(n)
	r.size--

	n.Clear()
	return wasLeftmost
}

// Walk visits nodes in order until fn returns false.
func (r *Root[T]) Walk(fn func(n *Node[T]) bool) {
	for n := r.leftmost; n != nil; n = n.Next() {
		if !fn(n) {
			return
		}
	}
}

// Clear puts n into the unlinked state without touching any tree.
func (n *Node[T]) Clear() {
	n.parent = nil
	n.left = nil
	n.right = nil
	n.color = red
	n.root = nil
}

func (n *Node[T]) Linked() bool {
	return n.root != nil
}

// Tree returns the root n is linked into, or nil.
func (n *Node[T]) Tree() *Root[T] {
	return n.root
}

func (n *Node[T]) Left() *Node[T] {
	return n.left
}

func (n *Node[T]) Right() *Node[T] {
	return n.right
}

func (n *Node[T]) Parent() *Node[T] {
	return n.parent
}

// Next returns the in-order successor of a linked node, or nil.
func (n *Node[T]) Next() *Node[T] {
	if n.root == nil {
		return nil
	}
	if n.right != nil {
		return n.right.minimum()
	}
	for n.parent != nil && n == n.parent.right {
		n = n.parent
	}
	return n.parent
}

// Prev returns the in-order predecessor of a linked node, or nil.
func (n *Node[T]) Prev() *Node[T] {
	if n.root == nil {
		return nil
	}
	if n.left != nil {
		return n.left.maximum()
	}
	for n.parent != nil && n == n.parent.left {
		n = n.parent
	}
	return n.parent
}

func (n *Node[T]) minimum() *Node[T] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func (n *Node[T]) maximum() *Node[T] {
	for n.right != nil {
		n = n.right
	}
	return n
}

func isRed[T any](n *Node[T]) bool {
	return n != nil && n.color == red
}

func isBlack[T any](n *Node[T]) bool {
	return n == nil || n.color == black
}
