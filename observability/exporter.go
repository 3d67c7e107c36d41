package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type ShutdownFunc func(ctx context.Context) error

// NewConsoleMetricsExporter serves for test/dev environment.
// Metrics are written to w on every interval and once more on shutdown.
func NewConsoleMetricsExporter(w io.Writer, interval, timeout time.Duration) (ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(w),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// metrics are fetched from the default prometheus registry by HTTP.
func NewPrometheusMetricsExporter() (ShutdownFunc, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// WritePrometheusMetrics dumps the default prometheus registry to w in
// the text exposition format.
func WritePrometheusMetrics(w io.Writer) error {
	families, err := promclient.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
