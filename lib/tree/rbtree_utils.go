package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xrbmap/lib/infra"
)

var (
	ErrRBTreeRedViolation   = errors.New("rbtree red violation")
	ErrRBTreeBlackViolation = errors.New("rbtree black violation")
	ErrRBTreeRootNotBlack   = errors.New("rbtree root is not black")
	ErrRBTreeOrderViolation = errors.New("rbtree order violation")
)

func isBlack[K any, V any](node RBNode[K, V]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K any, V any](node RBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

func blackDepthTo[K any, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	var aux RBNode[K, V] = tree.Root()
	if aux == nil {
		return nil
	}

	stack := make([]RBNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed[K, V](aux) {
			if isRed[K, V](aux.Left()) || isRed[K, V](aux.Right()) {
				return fmt.Errorf("%w at key %v", ErrRBTreeRedViolation, aux.Key())
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes owning at least one NIL leaf.
func bfsLeaves[K any, V any](tree RBTree[K, V]) []RBNode[K, V] {
	var aux RBNode[K, V] = tree.Root()
	if aux == nil {
		return nil
	}

	leaves := make([]RBNode[K, V], 0, tree.Len()>>1+1)
	queue := make([]RBNode[K, V], 0, 64)
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K, V](leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[K, V](leaves[i], tree.Root()); depth != blackDepth {
			return fmt.Errorf("%w at key %v, depth %d, expected %d",
				ErrRBTreeBlackViolation, leaves[i].Key(), depth, blackDepth)
		}
	}
	return nil
}

// BlackHeight counts the black nodes from the root down to any NIL leaf,
// the NIL leaf included. An empty tree has black height 1.
func BlackHeight[K any, V any](tree RBTree[K, V]) (int, error) {
	return blackHeight[K, V](tree.Root())
}

func blackHeight[K any, V any](node RBNode[K, V]) (int, error) {
	if node == nil {
		return 1, nil
	}
	l, err := blackHeight[K, V](node.Left())
	if err != nil {
		return 0, err
	}
	r, err := blackHeight[K, V](node.Right())
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, fmt.Errorf("%w at key %v, left %d, right %d",
			ErrRBTreeBlackViolation, node.Key(), l, r)
	}
	if isBlack[K, V](node) {
		l++
	}
	return l, nil
}

// Validate checks every rbtree property. The key order is checked too
// if cmp is not nil. All violations are combined.
func Validate[K any, V any](tree RBTree[K, V], cmp infra.OrderedKeyComparator[K]) error {
	var merr error
	if root := tree.Root(); root != nil && root.Color() != Black {
		merr = multierr.Append(merr, ErrRBTreeRootNotBlack)
	}
	merr = multierr.Append(merr, RedViolationValidate[K, V](tree))
	merr = multierr.Append(merr, BlackViolationValidate[K, V](tree))
	if _, err := BlackHeight[K, V](tree); err != nil {
		merr = multierr.Append(merr, err)
	}
	if cmp != nil {
		merr = multierr.Append(merr, orderValidate[K, V](tree, cmp))
	}
	return merr
}

func orderValidate[K any, V any](tree RBTree[K, V], cmp infra.OrderedKeyComparator[K]) error {
	count := int64(0)
	end := tree.End()
	for prev, c := tree.Begin(), tree.Begin(); !c.Equal(end); c = c.Next() {
		if count > 0 && cmp(prev.Key(), c.Key()) >= 0 {
			return fmt.Errorf("%w: %v is not less than %v", ErrRBTreeOrderViolation, prev.Key(), c.Key())
		}
		prev = c
		count++
	}
	if count != tree.Len() {
		return fmt.Errorf("%w: visited %d nodes, len %d", ErrRBTreeOrderViolation, count, tree.Len())
	}
	return nil
}
