package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbmap/lib/infra"
)

// link builds a tree by hand, bypassing the insert fixup.
func link[K any, V any](tree *rbTree[K, V], parent *rbNode[K, V], left, right *rbNode[K, V]) {
	parent.left, parent.right = left, right
	parent.fixLink()
	if parent.parent == nil {
		tree.root = parent
	}
}

func TestValidate_RedViolation(t *testing.T) {
	tree := newRBTree[int, int](infra.NaturalComparator[int]())
	root := &rbNode[int, int]{key: 2, color: Black}
	l := &rbNode[int, int]{key: 1, color: Red}
	r := &rbNode[int, int]{key: 4, color: Red}
	rl := &rbNode[int, int]{key: 3, color: Red}
	link(tree, root, l, r)
	link(tree, r, rl, nil)
	tree.count = 4

	err := RedViolationValidate[int, int](tree)
	require.ErrorIs(t, err, ErrRBTreeRedViolation)
	require.Contains(t, err.Error(), "key 4")
}

func TestValidate_BlackViolation(t *testing.T) {
	tree := newRBTree[int, int](infra.NaturalComparator[int]())
	root := &rbNode[int, int]{key: 2, color: Black}
	l := &rbNode[int, int]{key: 1, color: Black}
	link(tree, root, l, nil)
	tree.count = 2

	require.NoError(t, RedViolationValidate[int, int](tree))
	require.ErrorIs(t, BlackViolationValidate[int, int](tree), ErrRBTreeBlackViolation)
	_, err := BlackHeight[int, int](tree)
	require.ErrorIs(t, err, ErrRBTreeBlackViolation)
}

func TestValidate_Combined(t *testing.T) {
	tree := newRBTree[int, int](infra.NaturalComparator[int]())
	root := &rbNode[int, int]{key: 5, color: Red}
	l := &rbNode[int, int]{key: 7, color: Red}
	r := &rbNode[int, int]{key: 6, color: Black}
	link(tree, root, l, r)
	tree.count = 3

	err := Validate[int, int](tree, infra.NaturalComparator[int]())
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.True(t, errors.Is(err, ErrRBTreeRootNotBlack))
	require.True(t, errors.Is(err, ErrRBTreeRedViolation))
	require.True(t, errors.Is(err, ErrRBTreeOrderViolation))
	require.True(t, errors.Is(err, ErrRBTreeBlackViolation))
	require.Len(t, errs, 5)

	// Without a comparator the order is not checked.
	require.Len(t, multierr.Errors(Validate[int, int](tree, nil)), 4)
}

func TestValidate_EmptyTree(t *testing.T) {
	tree := NewRBTree[int, int]()
	require.NoError(t, Validate[int, int](tree, infra.NaturalComparator[int]()))
	h, err := BlackHeight[int, int](tree)
	require.NoError(t, err)
	require.Equal(t, 1, h)
}
