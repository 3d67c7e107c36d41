// rbdemo replays the canonical insertion scenarios of the red-black tree
// and prints each tree shape followed by its ordered sequence.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/panjf2000/ants/v2"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbmap/lib/xlog"
	"github.com/benz9527/xrbmap/observability"
)

type statsShutdown observability.ShutdownFunc

func newLogger(cfg *config) xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.logLevel)),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerConsoleCore(),
	)
}

func newPool(lc fx.Lifecycle, cfg *config, logger xlog.XLogger) (*ants.Pool, error) {
	pool, err := ants.NewPool(cfg.poolSize, ants.WithLogger(xlog.NewAntsXLogger(logger)))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(pool.Release))
	return pool, nil
}

// The meter provider has to be installed before any tree is created.
func newStats(lc fx.Lifecycle, cfg *config) (statsShutdown, error) {
	if !cfg.stats {
		return func(context.Context) error { return nil }, nil
	}

	var shutdown observability.ShutdownFunc
	switch cfg.statsExporter {
	case exporterPrometheus:
		promShutdown, err := observability.NewPrometheusMetricsExporter()
		if err != nil {
			return nil, err
		}
		shutdown = func(ctx context.Context) error {
			return multierr.Append(
				observability.WritePrometheusMetrics(cfg.errOut),
				promShutdown(ctx),
			)
		}
	default:
		consoleShutdown, err := observability.NewConsoleMetricsExporter(cfg.errOut, cfg.statsInterval, 5*time.Second)
		if err != nil {
			return nil, err
		}
		shutdown = consoleShutdown
	}
	lc.Append(fx.StopHook(shutdown))
	return statsShutdown(shutdown), nil
}

func register(lc fx.Lifecycle, cfg *config, logger xlog.XLogger, pool *ants.Pool, _ statsShutdown) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			results, err := runScenarios(ctx, cfg, logger, pool)
			if err != nil {
				logger.Error(err, "replay scenarios failed")
				return err
			}
			for _, res := range results {
				if _, err = io.WriteString(cfg.out, res.String()); err != nil {
					return err
				}
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
}

func appOptions(cfg *config) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg),
		fx.Provide(newLogger, newPool, newStats),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(register),
	}
}

func run(args []string, out io.Writer) int {
	cfg, err := parseConfig(args, out)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 2
	}

	app := fx.New(appOptions(cfg)...)
	if err = app.Err(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err = app.Start(ctx); err != nil {
		return 1
	}
	if err = app.Stop(ctx); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
