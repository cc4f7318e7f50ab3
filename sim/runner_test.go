package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive-mm/market"
	"adaptive-mm/strategy"
	"adaptive-mm/strategy/adaptive"
)

func sineKlines(n int) []market.Kline {
	out := make([]market.Kline, n)
	prev := 100.0
	for i := range out {
		c := 100 + 2*math.Sin(float64(i)/5)
		out[i] = kline(i, prev, math.Max(prev, c)+0.5, math.Min(prev, c)-0.5, c)
		prev = c
	}
	return out
}

func tightConfig() strategy.Config {
	cfg := strategy.DefaultConfig()
	cfg.BaseSpreadPct = 0.005
	cfg.MinSpreadPct = 0.001
	cfg.MaxSpreadPct = 0.05
	cfg.EnableDynamicSpreads = false
	cfg.Leverage = 1
	return cfg
}

func TestRunner_WarmupAndCounts(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Run(context.Background(), Job{
		Name:     "base",
		Strategy: strategy.DefaultConfig(),
		Backtest: DefaultConfig(),
		Klines:   sineKlines(200),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 200, res.Bars)
	assert.Equal(t, 19, res.Skipped)
	closures := 0
	for _, n := range res.RiskClosures {
		closures += n
	}
	assert.Equal(t, res.Bars, res.Skipped+res.Quoted+closures)
	assert.Len(t, res.EquityCurve, 200)
	// 15% 价差在 ±2% 的行情里不会成交
	assert.Zero(t, res.Stats.Fills)
	assert.Equal(t, 10000.0, res.Stats.FinalEquity)
}

func TestRunner_TightSpreadTrades(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Run(context.Background(), Job{
		Name:     "tight",
		Strategy: tightConfig(),
		Backtest: DefaultConfig(),
		Klines:   sineKlines(300),
	})
	require.NoError(t, err)
	assert.Greater(t, res.Stats.Fills, 0)
	assert.Greater(t, res.Stats.Fees, 0.0)
	assert.Nil(t, res.Adaptive)
	assert.Zero(t, res.Explorations)
}

func TestRunner_AdaptiveReproducible(t *testing.T) {
	acfg := adaptive.DefaultConfig()
	acfg.ExplorationRate = 0.3
	acfg.Seed = 5
	job := Job{
		Name:     "adaptive",
		Strategy: tightConfig(),
		Adaptive: &acfg,
		Backtest: DefaultConfig(),
		Klines:   sineKlines(300),
	}

	r := NewRunner(nil)
	a, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	b, err := r.Run(context.Background(), job)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Stats, b.Stats)
	assert.Equal(t, a.FinalFactors, b.FinalFactors)
	assert.Equal(t, a.Explorations, b.Explorations)
	assert.Greater(t, a.Explorations, 0)
	// 预热结束后每根 bar 都有观测，第一根之后每根写一条经验
	assert.Equal(t, a.Bars-a.Skipped-1, a.Memory)
	assert.True(t, a.FinalFactors.InBounds())
}

func TestRunner_RejectsBadJobs(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(context.Background(), Job{Strategy: strategy.DefaultConfig(), Backtest: DefaultConfig()})
	assert.Error(t, err)

	bad := strategy.DefaultConfig()
	bad.MinSpreadPct = 10
	_, err = r.Run(context.Background(), Job{Strategy: bad, Backtest: DefaultConfig(), Klines: sineKlines(5)})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), Job{Strategy: strategy.DefaultConfig(), Backtest: Config{}, Klines: sineKlines(5)})
	assert.Error(t, err)
}

func TestRunner_SkipsInvalidKlines(t *testing.T) {
	kl := sineKlines(30)
	kl[25].Close = 0
	res, err := NewRunner(nil).Run(context.Background(), Job{
		Strategy: strategy.DefaultConfig(),
		Backtest: DefaultConfig(),
		Klines:   kl,
	})
	require.NoError(t, err)
	assert.Equal(t, 29, res.Bars)
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil).Run(ctx, Job{
		Strategy: strategy.DefaultConfig(),
		Backtest: DefaultConfig(),
		Klines:   sineKlines(10),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
