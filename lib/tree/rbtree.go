package tree

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/benz9527/xrbmap/lib/infra"
)

type rbNode[K any, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// NIL leaves are black.
func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	if node.isRoot() {
		return nil
	}
	return node.parent.sibling()
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	if node.isRoot() {
		return nil
	}
	return node.parent.parent
}

func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
// Nil means there is no previous node.
func (node *rbNode[K, V]) pred() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
// Nil means the end of the sequence.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

type rbTree[K any, V any] struct {
	root   *rbNode[K, V]
	count  int64
	cmp    infra.OrderedKeyComparator[K]
	isDesc bool
	logger *zap.Logger
	stats  *rbTreeStats
}

func (tree *rbTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K, V]) Min() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root.minimum()
}

func (tree *rbTree[K, V]) Max() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root.maximum()
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black. It is repainted after each insertion.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x *rbNode[K, V]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
	tree.traceRotate(Left, x)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x *rbNode[K, V]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
	tree.traceRotate(Right, x)
}

// Insert never fails. An equal key only replaces the value in place.
// i1: Empty rbtree, the new node becomes the root and is painted to black.
func (tree *rbTree[K, V]) Insert(key K, val V) {
	if /* i1 */ tree.root == nil {
		tree.root = &rbNode[K, V]{
			key:   key,
			val:   val,
			color: Red,
		}
		tree.afterInsert()
		tree.insertRebalance(tree.root)
		return
	}

	var (
		x, y *rbNode[K, V] = tree.root, nil
		res  int64
	)
	for x != nil {
		y = x
		if res = tree.cmp(key, x.key); /* equal */ res == 0 {
			x.val = val
			tree.stats.IncreaseOverwriteCount()
			return
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
	}
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}
	tree.afterInsert()
	tree.insertRebalance(z)
}

func (tree *rbTree[K, V]) afterInsert() {
	atomic.AddInt64(&tree.count, 1)
	tree.stats.IncreaseInsertCount()
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X is root. Repaint it into black.

im2: Current node X's parent P is black, so hold p3 and p4.

im3: Current node X's parent P is red and P is root, repaint P into black.

	<P>         [P]
	 |   ====>   |
	<X>         <X>

im4: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Loop to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im5: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im6 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im6: Handle im5 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

Only im4 loops and it always climbs two levels, so the loop ends within
the tree height.
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for x != nil {
		if /* im1 */ x.isRoot() {
			tree.traceFixup(1, x)
			x.color = Black
			return
		}

		p := x.parent
		if /* im2 */ p.isBlack() {
			tree.traceFixup(2, x)
			return
		}

		// Guard only. im1 keeps the root black, so a red root parent is unreachable.
		if /* im3 */ p.isRoot() {
			tree.traceFixup(3, x)
			p.color = Black
			return
		}

		gp := x.grandpa()
		if u := x.uncle(); /* im4 */ u.isRed() {
			tree.traceFixup(4, x)
			p.color = Black
			u.color = Black
			gp.color = Red
			x = gp
			continue
		}

		// The uncle is black or NIL.
		if dir := x.Direction(); /* im5 */ dir != p.Direction() {
			tree.traceFixup(5, x)
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im5)")
			}
			x, p = p, x // enter im6 to fix
		}

		tree.traceFixup(6, x)
		switch /* im6 */ p.Direction() {
		case Left:
			tree.rightRotate(gp)
		case Right:
			tree.leftRotate(gp)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im6)")
		}
		p.color = Black
		gp.color = Red
		return
	}
}

func (tree *rbTree[K, V]) traceFixup(fixCase int, x *rbNode[K, V]) {
	tree.stats.IncreaseFixupCaseCount(fixCase)
	if ce := tree.logger.Check(zap.DebugLevel, "rbtree insert fixup"); ce != nil {
		ce.Write(
			zap.Int("case", fixCase),
			zap.Any("key", x.key),
			zap.Stringer("color", x.color),
		)
	}
}

func (tree *rbTree[K, V]) traceRotate(dir RBDirection, x *rbNode[K, V]) {
	tree.stats.IncreaseRotateCount(dir)
	if ce := tree.logger.Check(zap.DebugLevel, "rbtree rotate"); ce != nil {
		ce.Write(
			zap.Stringer("direction", dir),
			zap.Any("pivot", x.key),
		)
	}
}

func (tree *rbTree[K, V]) Get(key K) (V, bool) {
	x := tree.Search(tree.Root(), func(node RBNode[K, V]) int64 {
		return tree.cmp(key, node.Key())
	})
	if x == nil {
		var zero V
		return zero, false
	}
	return x.Val(), true
}

func (tree *rbTree[K, V]) Search(x RBNode[K, V], fn func(RBNode[K, V]) int64) RBNode[K, V] {
	if x == nil {
		return nil
	}

	for aux := x; aux != nil; {
		res := fn(aux)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.Right()
		} else {
			aux = aux.Left()
		}
	}
	return nil
}

// Inorder traversal driven by the succ links, without a stack.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	idx := int64(0)
	for aux := tree.root.minimum(); aux != nil; aux = aux.succ() {
		if !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
	}
}

// Release unlinks every node. The tree is empty and reusable afterward.
func (tree *rbTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	released := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right, aux.parent = nil, nil, nil
		released++
	}
	atomic.StoreInt64(&tree.count, 0)
	tree.stats.RecordReleased(released)
}

type RBTreeOpt[K any, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K any, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

func WithRBTreeLogger[K any, V any](logger *zap.Logger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

// NewRBTree orders keys by their natural order.
func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](infra.NaturalComparator[K](), opts...)
}

// NewRBTreeFunc orders keys by cmp, which must be a strict weak ordering.
func NewRBTreeFunc[K any, V any](cmp infra.OrderedKeyComparator[K], opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil key comparator")
	}
	return newRBTree[K, V](cmp, opts...)
}

func newRBTree[K any, V any](cmp infra.OrderedKeyComparator[K], opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	tree := &rbTree[K, V]{
		cmp:    cmp,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(tree)
	}
	if tree.isDesc {
		tree.cmp = tree.cmp.Reverse()
	}
	return tree
}
