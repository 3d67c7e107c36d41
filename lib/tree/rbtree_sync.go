package tree

import (
	"sync"

	"github.com/benz9527/xrbmap/lib/infra"
)

type syncRBTree[K any, V any] struct {
	lock sync.RWMutex
	tree *rbTree[K, V]
}

func (t *syncRBTree[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Len()
}

func (t *syncRBTree[K, V]) Insert(key K, val V) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Insert(key, val)
}

func (t *syncRBTree[K, V]) Get(key K) (V, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Get(key)
}

// Foreach holds the read lock during the whole walk.
// The action must not insert into the same tree.
func (t *syncRBTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	t.tree.Foreach(action)
}

func (t *syncRBTree[K, V]) ExportDebugView() string {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.ExportDebugView()
}

func (t *syncRBTree[K, V]) Release() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Release()
}

func NewSyncRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) SyncRBTree[K, V] {
	return &syncRBTree[K, V]{
		tree: newRBTree[K, V](infra.NaturalComparator[K](), opts...),
	}
}

func NewSyncRBTreeFunc[K any, V any](cmp infra.OrderedKeyComparator[K], opts ...RBTreeOpt[K, V]) SyncRBTree[K, V] {
	if cmp == nil {
		panic("[rbtree] nil key comparator")
	}
	return &syncRBTree[K, V]{
		tree: newRBTree[K, V](cmp, opts...),
	}
}
