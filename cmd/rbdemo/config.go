package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/benz9527/xrbmap/lib/xlog"
)

var (
	errUnknownScenario = errors.New("unknown scenario")
	errUnknownFormat   = errors.New("unknown format")
	errUnknownExporter = errors.New("unknown stats exporter")
)

const (
	formatEdges    = "edges"
	formatGraphviz = "graphviz"

	exporterStdout     = "stdout"
	exporterPrometheus = "prometheus"
)

type config struct {
	scenarios     []string
	format        string
	logLevel      string
	stats         bool
	statsInterval time.Duration
	statsExporter string
	poolSize      int
	out           io.Writer
	errOut        io.Writer
}

func parseConfig(args []string, out io.Writer) (*config, error) {
	cfg := &config{out: out, errOut: os.Stderr}
	fs := pflag.NewFlagSet("rbdemo", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringSliceVarP(&cfg.scenarios, "scenario", "s", []string{"all"},
		"insertion scenarios to replay: ascending, descending, scrambled or all")
	fs.StringVarP(&cfg.format, "format", "f", formatGraphviz, "tree rendering: edges or graphviz")
	fs.StringVar(&cfg.logLevel, "log-level", os.Getenv("XLOG_LVL"), "DEBUG, INFO, WARN or ERROR (default INFO)")
	fs.BoolVar(&cfg.stats, "stats", false, "print the rbtree otel metrics to stderr on exit")
	fs.StringVar(&cfg.statsExporter, "stats-exporter", exporterStdout, "stats exporter: stdout or prometheus")
	fs.DurationVar(&cfg.statsInterval, "stats-interval", 10*time.Second, "interval of the stats console exporter")
	fs.IntVar(&cfg.poolSize, "pool-size", 3, "goroutines building the scenario trees")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if lo.Contains(cfg.scenarios, "all") {
		cfg.scenarios = lo.Map(scenarios, func(s scenario, _ int) string {
			return s.name
		})
	}
	for _, name := range cfg.scenarios {
		if _, ok := findScenario(name); !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownScenario, name)
		}
	}
	cfg.scenarios = lo.Uniq(cfg.scenarios)

	if cfg.format != formatEdges && cfg.format != formatGraphviz {
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, cfg.format)
	}
	if cfg.statsExporter != exporterStdout && cfg.statsExporter != exporterPrometheus {
		return nil, fmt.Errorf("%w: %q", errUnknownExporter, cfg.statsExporter)
	}
	if len(cfg.logLevel) == 0 {
		cfg.logLevel = xlog.LogLevelInfo.String()
	}
	if cfg.poolSize <= 0 {
		cfg.poolSize = 1
	}
	return cfg, nil
}
