package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive-mm/strategy"
	"adaptive-mm/strategy/adaptive"
)

func TestRunParallel_IsolatedAndOrdered(t *testing.T) {
	kl := sineKlines(250)
	var jobs []Job
	for _, seed := range []int64{1, 2, 3, 1} {
		acfg := adaptive.DefaultConfig()
		acfg.Seed = seed
		acfg.ExplorationRate = 0.5
		jobs = append(jobs, Job{
			Name:     "seed",
			Strategy: tightConfig(),
			Adaptive: &acfg,
			Backtest: DefaultConfig(),
			Klines:   kl,
		})
	}

	r := NewRunner(nil)
	results, err := r.RunParallel(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// 同种子的两次运行互不干扰，结果一致
	assert.Equal(t, results[0].Stats, results[3].Stats)
	assert.Equal(t, results[0].FinalFactors, results[3].FinalFactors)

	seq, err := r.Run(context.Background(), jobs[1])
	require.NoError(t, err)
	assert.Equal(t, seq.Stats, results[1].Stats)
}

func TestRunParallel_PropagatesError(t *testing.T) {
	bad := strategy.DefaultConfig()
	bad.OrderLevels = 0
	jobs := []Job{
		{Name: "ok", Strategy: strategy.DefaultConfig(), Backtest: DefaultConfig(), Klines: sineKlines(30)},
		{Name: "bad", Strategy: bad, Backtest: DefaultConfig(), Klines: sineKlines(30)},
	}
	_, err := NewRunner(nil).RunParallel(context.Background(), jobs, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	results := []Result{
		{Name: "a", Stats: Stats{Sharpe: 0.5, ReturnPct: 3}},
		{Name: "b", Stats: Stats{Sharpe: 1.2, ReturnPct: 1}},
		{Name: "c", Stats: Stats{Sharpe: 1.2, ReturnPct: 2}},
	}
	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, "c", best.Name)
}
