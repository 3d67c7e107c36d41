package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader sdkmetric.Reader) map[string][]metricdata.DataPoint[int64] {
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	sums := make(map[string][]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = append(sums[m.Name], sum.DataPoints...)
			}
		}
	}
	return sums
}

func total(points []metricdata.DataPoint[int64]) int64 {
	sum := int64(0)
	for _, p := range points {
		sum += p.Value
	}
	return sum
}

func TestRbtreeStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()
	otel.SetMeterProvider(provider)

	tree := NewRBTree[int, int](WithRBTreeStats[int, int]("stats-test"))
	for i := 1; i <= 3; i++ {
		tree.Insert(i, i)
	}
	tree.Insert(2, 20)

	sums := collectSums(t, reader)
	require.Equal(t, int64(3), total(sums["rbtree.insert.count"]))
	require.Equal(t, int64(1), total(sums["rbtree.overwrite.count"]))
	require.Equal(t, int64(1), total(sums["rbtree.rotate.count"]))
	require.Equal(t, int64(3), total(sums["rbtree.node.count"]))
	require.Equal(t, int64(3), total(sums["rbtree.fixup.case.count"]))

	cases := make(map[int64]int64)
	for _, p := range sums["rbtree.fixup.case.count"] {
		v, ok := p.Attributes.Value(attribute.Key("rbtree.fixup.case"))
		require.True(t, ok)
		cases[v.AsInt64()] = p.Value
	}
	require.Equal(t, map[int64]int64{1: 1, 2: 1, 6: 1}, cases)

	tree.Release()
	sums = collectSums(t, reader)
	require.Equal(t, int64(0), total(sums["rbtree.node.count"]))
}

func TestRbtreeStats_Disabled(t *testing.T) {
	var stats *rbTreeStats
	require.NotPanics(t, func() {
		stats.IncreaseInsertCount()
		stats.IncreaseOverwriteCount()
		stats.IncreaseRotateCount(Left)
		stats.IncreaseFixupCaseCount(4)
		stats.RecordReleased(10)
	})
}
