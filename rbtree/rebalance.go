package rbtree

// replaceChild points parent (or the tree top) at newChild where it pointed at oldChild.
func (r *Root[T]) replaceChild(oldChild, newChild, parent *Node[T]) {
	if parent == nil {
		r.top = newChild
	} else if parent.left == oldChild {
		parent.left = newChild
	} else {
		parent.right = newChild
	}
}

// rotateLeft moves x.right up into x's position.
func (r *Root[T]) rotateLeft(x *Node[T]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	r.replaceChild(x, y, x.parent)
	y.left = x
	x.parent = y

	if r.augment != nil {
		r.augment.Rotate(x, y)
	}
}

// rotateRight moves x.left up into x's position.
func (r *Root[T]) rotateRight(x *Node[T]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	r.replaceChild(x, y, x.parent)
	y.right = x
	x.parent = y

	if r.augment != nil {
		r.augment.Rotate(x, y)
	}
}

func (r *Root[T]) insertFixup(z *Node[T]) {
	for {
		parent := z.parent
		if parent == nil {
			z.color = black
			return
		}
		if parent.color == black {
			return
		}

		// a red parent is never the top, so grandparent exists
		gparent := parent.parent

		if parent == gparent.left {
			uncle := gparent.right
			if isRed(uncle) {
				parent.color = black
				uncle.color = black
				gparent.color = red
				z = gparent
				continue
			}

			if z == parent.right {
				r.rotateLeft(parent)
				z = parent
				parent = z.parent
			}

			parent.color = black
			gparent.color = red
			r.rotateRight(gparent)
			return
		}

		uncle := gparent.left
		if isRed(uncle) {
			parent.color = black
			uncle.color = black
			gparent.color = red
			z = gparent
			continue
		}

		if z == parent.left {
			r.rotateRight(parent)
			z = parent
			parent = z.parent
		}

		parent.color = black
		gparent.color = red
		r.rotateLeft(gparent)
		return
	}
}

func (r *Root[T]) erase(z *Node[T]) {
	// parent of the position that lost a black node, nil if none did
	var rebalance *Node[T]

	if z.left == nil || z.right == nil {
		child := z.left
		if child == nil {
			child = z.right
		}
		parent := z.parent

		r.replaceChild(z, child, parent)
		if child != nil {
			// a lone child is a red leaf under a black node
			child.parent = parent
			child.color = black
		} else if z.color == black {
			rebalance = parent
		}

		if r.augment != nil {
			r.augment.Propagate(parent, nil)
		}
	} else {
		successor := z.right.minimum()

		var parent, child *Node[T]
		if successor == z.right {
			parent = successor
			child = successor.right
			if r.augment != nil {
				r.augment.Copy(z, successor)
			}
		} else {
			parent = successor.parent
			child = successor.right

			parent.left = child
			if child != nil {
				child.parent = parent
			}
			successor.right = z.right
			z.right.parent = successor

			if r.augment != nil {
				r.augment.Copy(z, successor)
				r.augment.Propagate(parent, successor)
			}
		}

		successor.left = z.left
		z.left.parent = successor
		successor.parent = z.parent
		r.replaceChild(z, successor, z.parent)

		successorColor := successor.color
		successor.color = z.color

		if child != nil {
			child.color = black
		} else if successorColor == black {
			rebalance = parent
		}

		if r.augment != nil {
			r.augment.Propagate(successor, nil)
		}
	}

	if rebalance != nil {
		r.eraseFixup(rebalance)
	}
}

// eraseFixup restores black heights after a black node was removed below parent.
// The deficient subtree starts out empty.
func (r *Root[T]) eraseFixup(parent *Node[T]) {
	var node *Node[T]

	for {
		sibling := parent.right
		if node != sibling {
			// node is the left child
			if isRed(sibling) {
				r.rotateLeft(parent)
				sibling.color = black
				parent.color = red
				sibling = parent.right
			}

			if isBlack(sibling.left) && isBlack(sibling.right) {
				sibling.color = red
				if parent.color == red {
					parent.color = black
					return
				}
				node = parent
				parent = node.parent
				if parent == nil {
					return
				}
				continue
			}

			if isBlack(sibling.right) {
				sibling.left.color = black
				sibling.color = red
				r.rotateRight(sibling)
				sibling = parent.right
			}

			sibling.color = parent.color
			parent.color = black
			sibling.right.color = black
			r.rotateLeft(parent)
			return
		}

		sibling = parent.left
		if isRed(sibling) {
			r.rotateRight(parent)
			sibling.color = black
			parent.color = red
			sibling = parent.left
		}

		if isBlack(sibling.left) && isBlack(sibling.right) {
			sibling.color = red
			if parent.color == red {
				parent.color = black
				return
			}
			node = parent
			parent = node.parent
			if parent == nil {
				return
			}
			continue
		}

		if isBlack(sibling.left) {
			sibling.right.color = black
			sibling.color = red
			r.rotateLeft(sibling)
			sibling = parent.left
		}

		sibling.color = parent.color
		parent.color = black
		sibling.left.color = black
		r.rotateRight(parent)
		return
	}
}
