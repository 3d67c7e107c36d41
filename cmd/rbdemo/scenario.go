package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xrbmap/lib/infra"
	"github.com/benz9527/xrbmap/lib/tree"
	"github.com/benz9527/xrbmap/lib/xlog"
)

var numberNames = map[int]string{
	1: "one", 2: "two", 3: "three", 4: "four", 5: "five",
	6: "six", 7: "seven", 8: "eight", 9: "nine",
}

type scenario struct {
	name string
	keys []int
}

var scenarios = []scenario{
	{name: "ascending", keys: []int{1, 2, 3, 4, 5, 6, 7, 8, 9}},
	{name: "descending", keys: []int{9, 8, 7, 6, 5, 4, 3, 2, 1}},
	{name: "scrambled", keys: []int{3, 9, 2, 6, 5, 4, 8, 1, 7}},
}

func findScenario(name string) (scenario, bool) {
	return lo.Find(scenarios, func(s scenario) bool {
		return s.name == name
	})
}

type scenarioResult struct {
	name      string
	rendering string
	seq       []string
}

func (res scenarioResult) String() string {
	builder := strings.Builder{}
	builder.WriteString("# ")
	builder.WriteString(res.name)
	builder.WriteString("\n")
	builder.WriteString(res.rendering)
	builder.WriteString("seq:\n")
	for _, line := range res.seq {
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	return builder.String()
}

func buildScenario(s scenario, cfg *config, logger xlog.XLogger) (scenarioResult, error) {
	opts := []tree.RBTreeOpt[int, string]{
		tree.WithRBTreeLogger[int, string](logger.Zap().With(zap.String("scenario", s.name))),
	}
	if cfg.stats {
		opts = append(opts, tree.WithRBTreeStats[int, string](s.name))
	}
	rbtree := tree.NewRBTree[int, string](opts...)
	defer rbtree.Release()

	for _, k := range s.keys {
		rbtree.Insert(k, numberNames[k])
	}
	if err := tree.Validate[int, string](rbtree, infra.NaturalComparator[int]()); err != nil {
		return scenarioResult{}, fmt.Errorf("scenario %s: %w", s.name, err)
	}

	res := scenarioResult{name: s.name}
	switch cfg.format {
	case formatEdges:
		res.rendering = rbtree.ExportDebugView()
	default:
		builder := &strings.Builder{}
		if err := rbtree.ExportGraphviz(builder); err != nil {
			return scenarioResult{}, err
		}
		res.rendering = builder.String()
	}
	for c := rbtree.Begin(); !c.Equal(rbtree.End()); c = c.Next() {
		res.seq = append(res.seq, fmt.Sprintf("%d %s", c.Key(), c.Val()))
	}
	return res, nil
}

// runScenarios builds every scenario tree on its own pool goroutine. Each
// tree stays owned by a single goroutine. Results keep the configured order.
func runScenarios(ctx context.Context, cfg *config, logger xlog.XLogger, pool *ants.Pool) ([]scenarioResult, error) {
	var (
		results = make([]scenarioResult, len(cfg.scenarios))
		errs    = make([]error, len(cfg.scenarios))
		wg      sync.WaitGroup
	)
	for i, name := range cfg.scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, ok := findScenario(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownScenario, name)
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = buildScenario(s, cfg, logger)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	logger.Info("scenarios replayed", zap.Strings("scenarios", cfg.scenarios))
	return results, nil
}
