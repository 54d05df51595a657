package rbtree

import (
	"errors"
	"fmt"
)

var ErrBrokenInvariant = errors.New("rbtree: broken invariant")

// Verify walks the whole tree and reports the first structural defect found.
// less, when not nil, is also checked against in-order neighbours.
func Verify[T any](r *Root[T], less func(a, b *Node[T]) bool) error {
	if r.top == nil {
		if r.leftmost != nil {
			return fmt.Errorf("%w: empty tree caches leftmost", ErrBrokenInvariant)
		}
		if r.size != 0 {
			return fmt.Errorf("%w: empty tree counts %d nodes", ErrBrokenInvariant, r.size)
		}
		return nil
	}

	if r.top.parent != nil {
		return fmt.Errorf("%w: top has a parent", ErrBrokenInvariant)
	}
	if r.top.color != black {
		return fmt.Errorf("%w: top is red", ErrBrokenInvariant)
	}
	if r.leftmost != r.top.minimum() {
		return fmt.Errorf("%w: cached leftmost is not the minimum", ErrBrokenInvariant)
	}

	count := 0
	if _, err := verifySubtree(r, r.top, &count); err != nil {
		return err
	}
	if count != r.size {
		return fmt.Errorf("%w: counted %d nodes, tree records %d", ErrBrokenInvariant, count, r.size)
	}

	if less != nil {
		var prev *Node[T]
		index := 0
		for n := r.leftmost; n != nil; n = n.Next() {
			if prev != nil && less(n, prev) {
				return fmt.Errorf("%w: node %d orders before its predecessor", ErrBrokenInvariant, index)
			}
			prev = n
			index++
		}
		if index != r.size {
			return fmt.Errorf("%w: in-order walk visited %d of %d nodes", ErrBrokenInvariant, index, r.size)
		}
	}

	return nil
}

// verifySubtree returns the black height of n.
func verifySubtree[T any](r *Root[T], n *Node[T], count *int) (int, error) {
	if n == nil {
		return 1, nil
	}
	*count++

	if n.root != r {
		return 0, fmt.Errorf("%w: node links back to another tree", ErrBrokenInvariant)
	}
	if n.left != nil && n.left.parent != n {
		return 0, fmt.Errorf("%w: left child has wrong parent", ErrBrokenInvariant)
	}
	if n.right != nil && n.right.parent != n {
		return 0, fmt.Errorf("%w: right child has wrong parent", ErrBrokenInvariant)
	}
	if n.color == red && (isRed(n.left) || isRed(n.right)) {
		return 0, fmt.Errorf("%w: red node has a red child", ErrBrokenInvariant)
	}

	lh, err := verifySubtree(r, n.left, count)
	if err != nil {
		return 0, err
	}
	rh, err := verifySubtree(r, n.right, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: black height %d on the left, %d on the right", ErrBrokenInvariant, lh, rh)
	}

	if n.color == black {
		lh++
	}
	return lh, nil
}
