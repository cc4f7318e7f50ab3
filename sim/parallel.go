package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunParallel 并发执行相互隔离的回测，结果与 jobs 顺序一致。
// 任一回测失败会取消其余回测并返回第一个错误。workers <= 0 时使用 CPU 数。
func (r *Runner) RunParallel(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range jobs {
		i := i
		g.Go(func() error {
			res, err := r.Run(gctx, jobs[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best 按 Sharpe 选出最优结果，Sharpe 相同时取收益更高者。
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Stats.Sharpe > best.Stats.Sharpe ||
			(r.Stats.Sharpe == best.Stats.Sharpe && r.Stats.ReturnPct > best.Stats.ReturnPct) {
			best = r
		}
	}
	return best, true
}
