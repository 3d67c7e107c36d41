package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xrbmap/rbtree"
)

type rbTreeStats struct {
	nodeCount      metric.Int64UpDownCounter
	insertCount    metric.Int64Counter
	overwriteCount metric.Int64Counter
	rotateCount    metric.Int64Counter
	fixupCount     metric.Int64Counter
	// Attribute sets are built once, the fixup cases are 1..6.
	fixupCaseAttrs [7]metric.AddOption
	rotateAttrs    map[RBDirection]metric.AddOption
}

func (stats *rbTreeStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1)
	stats.nodeCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseOverwriteCount() {
	if stats == nil {
		return
	}
	stats.overwriteCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseRotateCount(dir RBDirection) {
	if stats == nil {
		return
	}
	stats.rotateCount.Add(context.Background(), 1, stats.rotateAttrs[dir])
}

func (stats *rbTreeStats) IncreaseFixupCaseCount(fixCase int) {
	if stats == nil || fixCase <= 0 || fixCase >= len(stats.fixupCaseAttrs) {
		return
	}
	stats.fixupCount.Add(context.Background(), 1, stats.fixupCaseAttrs[fixCase])
}

func (stats *rbTreeStats) RecordReleased(count int64) {
	if stats == nil {
		return
	}
	stats.nodeCount.Add(context.Background(), -count)
}

// WithRBTreeStats records the tree operations into the global otel meter
// provider, under the meter "xrbmap/rbtree/<name>".
func WithRBTreeStats[K any, V any](name string) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.stats = newRBTreeStats(name)
	}
}

func newRBTreeStats(name string) *rbTreeStats {
	if len(name) == 0 {
		name = "default"
	}
	meter := otel.Meter(fmt.Sprintf("%s/%s", RBTreeStatsName, name))
	stats := &rbTreeStats{
		nodeCount: lo.Must[metric.Int64UpDownCounter](meter.
			Int64UpDownCounter(
				"rbtree.node.count",
				metric.WithDescription("The number of nodes in the rbtree."),
			),
		),
		insertCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.insert.count",
				metric.WithDescription("The number of new keys inserted into the rbtree."),
			),
		),
		overwriteCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.overwrite.count",
				metric.WithDescription("The number of inserts that replaced the value of an existing key."),
			),
		),
		rotateCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.rotate.count",
				metric.WithDescription("The number of rotations done by the insert fixup."),
			),
		),
		fixupCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.fixup.case.count",
				metric.WithDescription("The number of insert fixup steps by case."),
			),
		),
		rotateAttrs: map[RBDirection]metric.AddOption{
			Left:  metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotate.direction", Left.String()))),
			Right: metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotate.direction", Right.String()))),
		},
	}
	for i := 1; i < len(stats.fixupCaseAttrs); i++ {
		stats.fixupCaseAttrs[i] = metric.WithAttributeSet(attribute.NewSet(attribute.Int("rbtree.fixup.case", i)))
	}
	return stats
}
