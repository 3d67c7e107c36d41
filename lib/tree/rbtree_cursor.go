package tree

var _ RBCursor[int, int] = rbCursor[int, int]{}

// rbCursor keeps the owning tree to step back from the end sentinel.
// The node nil is the end sentinel.
type rbCursor[K any, V any] struct {
	tree *rbTree[K, V]
	node *rbNode[K, V]
}

// Key returns the zero value at the end sentinel.
func (c rbCursor[K, V]) Key() K {
	if c.node == nil {
		var k K
		return k
	}
	return c.node.key
}

// Val returns the zero value at the end sentinel.
func (c rbCursor[K, V]) Val() V {
	if c.node == nil {
		var v V
		return v
	}
	return c.node.val
}

func (c rbCursor[K, V]) IsEnd() bool {
	return c.node == nil
}

// Next stays at the end sentinel once reached.
func (c rbCursor[K, V]) Next() RBCursor[K, V] {
	return rbCursor[K, V]{tree: c.tree, node: c.node.succ()}
}

// Prev of the end sentinel is the largest key.
// Prev of the smallest key is the end sentinel.
func (c rbCursor[K, V]) Prev() RBCursor[K, V] {
	if c.node == nil {
		if c.tree == nil {
			return c
		}
		return rbCursor[K, V]{tree: c.tree, node: c.tree.root.maximum()}
	}
	return rbCursor[K, V]{tree: c.tree, node: c.node.pred()}
}

func (c rbCursor[K, V]) Equal(other RBCursor[K, V]) bool {
	o, ok := other.(rbCursor[K, V])
	if !ok {
		return false
	}
	return c.tree == o.tree && c.node == o.node
}

func (tree *rbTree[K, V]) Begin() RBCursor[K, V] {
	return rbCursor[K, V]{tree: tree, node: tree.root.minimum()}
}

func (tree *rbTree[K, V]) Last() RBCursor[K, V] {
	return rbCursor[K, V]{tree: tree, node: tree.root.maximum()}
}

func (tree *rbTree[K, V]) End() RBCursor[K, V] {
	return rbCursor[K, V]{tree: tree}
}
