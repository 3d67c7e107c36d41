package tree

import "io"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type RBNode[K any, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Direction() RBDirection
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBCursor is a position inside a tree. The zero position past the
// largest key is the end sentinel.
// A cursor is invalidated by any insertion into its tree.
type RBCursor[K any, V any] interface {
	Key() K
	Val() V
	IsEnd() bool
	Next() RBCursor[K, V]
	Prev() RBCursor[K, V]
	Equal(other RBCursor[K, V]) bool
}

type RBTree[K any, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V)
	Get(key K) (V, bool)
	Search(x RBNode[K, V], fn func(RBNode[K, V]) int64) RBNode[K, V]
	Min() RBNode[K, V]
	Max() RBNode[K, V]
	Begin() RBCursor[K, V]
	Last() RBCursor[K, V]
	End() RBCursor[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	ExportDebugView() string
	ExportGraphviz(w io.Writer) error
	Release()
}

// SyncRBTree guards a tree with a single RW lock.
// Cursors are not exposed because they would escape the lock.
type SyncRBTree[K any, V any] interface {
	Len() int64
	Insert(key K, val V)
	Get(key K) (V, bool)
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	ExportDebugView() string
	Release()
}
