package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/benz9527/xrbmap/lib/tree"
)

func TestConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(buf, time.Hour, time.Second)
	require.NoError(t, err)

	rbtree := tree.NewRBTree[int, int](tree.WithRBTreeStats[int, int]("console"))
	for i := 0; i < 16; i++ {
		rbtree.Insert(i, i)
	}
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "rbtree.insert.count")
	require.Contains(t, buf.String(), "xrbmap/rbtree/console")
}

func TestPrometheusMetricsExporter(t *testing.T) {
	shutdown, err := NewPrometheusMetricsExporter()
	require.NoError(t, err)
	require.NotNil(t, otel.GetMeterProvider())

	rbtree := tree.NewRBTree[int, int](tree.WithRBTreeStats[int, int]("prom"))
	for i := 0; i < 16; i++ {
		rbtree.Insert(i, i)
	}
	rbtree.Insert(3, 30)

	buf := &bytes.Buffer{}
	require.NoError(t, WritePrometheusMetrics(buf))
	require.Contains(t, buf.String(), "rbtree_insert_count")
	require.Contains(t, buf.String(), "rbtree_overwrite_count")
	require.Contains(t, buf.String(), `otel_scope_name="xrbmap/rbtree/prom"`)
	require.NoError(t, shutdown(context.Background()))
}
