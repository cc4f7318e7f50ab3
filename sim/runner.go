package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/market"
	"adaptive-mm/metrics"
	"adaptive-mm/risk"
	"adaptive-mm/strategy"
	"adaptive-mm/strategy/adaptive"
)

// Job 是一次完全隔离的回测：独立的策略、引擎与随机源。
type Job struct {
	Name     string
	Strategy strategy.Config
	Adaptive *adaptive.Config // nil 表示基础策略
	Backtest Config
	Klines   []market.Kline
}

// Result 回测结果，供优化器读取的只有汇总指标与参数。
type Result struct {
	RunID        string                  `json:"run_id"`
	Name         string                  `json:"name"`
	Stats        Stats                   `json:"stats"`
	Bars         int                     `json:"bars"`
	Skipped      int                     `json:"skipped"`
	Quoted       int                     `json:"quoted"`
	RiskClosures map[risk.Reason]int     `json:"risk_closures"`
	Rejected     int                     `json:"rejected_orders"`
	Explorations int                     `json:"explorations"`
	Memory       int                     `json:"memory_size"`
	FinalFactors strategy.TunableFactors `json:"final_factors"`
	Strategy     strategy.Config         `json:"strategy"`
	Adaptive     *adaptive.Config        `json:"adaptive,omitempty"`
	Duration     time.Duration           `json:"duration_ns"`

	EquityCurve []float64 `json:"-"`
}

// Runner 串起 行情 -> 指标 -> 策略 -> 模拟撮合。
type Runner struct {
	log *logger.Logger
}

func NewRunner(log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{log: log}
}

// Run 顺序执行一次回测。ctx 只在 bar 之间检查。
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	if err := job.Strategy.Validate(); err != nil {
		return Result{}, fmt.Errorf("job %s: %w", job.Name, err)
	}
	if err := job.Backtest.Validate(); err != nil {
		return Result{}, fmt.Errorf("job %s: backtest config: %w", job.Name, err)
	}
	if len(job.Klines) == 0 {
		return Result{}, fmt.Errorf("job %s: no klines", job.Name)
	}

	runID := uuid.NewString()
	log := r.log.WithFields(map[string]interface{}{"run_id": runID, "job": job.Name})
	started := time.Now()

	engine := NewPaperEngine(job.Backtest, job.Strategy.Leverage, log)
	opts := []strategy.Option{strategy.WithLogger(log)}
	var agent *adaptive.Agent
	if job.Adaptive != nil {
		a, err := adaptive.NewAgent(*job.Adaptive, job.Strategy, adaptive.WithLogger(log))
		if err != nil {
			return Result{}, fmt.Errorf("job %s: %w", job.Name, err)
		}
		agent = a
		opts = append(opts, strategy.WithLearner(agent))
	}
	strat, err := strategy.New(job.Strategy, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("job %s: %w", job.Name, err)
	}

	cfg := job.Strategy
	history := market.NewHistory(cfg.Lookback())
	res := Result{
		RunID:        runID,
		Name:         job.Name,
		RiskClosures: make(map[risk.Reason]int),
		Strategy:     cfg,
		Adaptive:     job.Adaptive,
	}

	for i, k := range job.Klines {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("job %s canceled at bar %d: %w", job.Name, i, err)
		}
		if !k.Valid() {
			log.Warn("skip invalid kline", zap.Int("index", i), zap.Time("ts", k.Ts))
			continue
		}
		engine.OnBar(k)
		history.Push(k)
		ind := market.Snapshot(history, cfg.ATRPeriod, cfg.BBPeriod, cfg.BBStdDev)

		d := strat.OnBar(strategy.Bar{
			Ts:       k.Ts,
			Close:    k.Close,
			ATR:      ind.ATR,
			BBWidth:  ind.BBWidth,
			Position: engine.Position(),
			Equity:   engine.Equity(),
		})
		res.Bars++
		switch d.Action {
		case strategy.ActionSkip:
			res.Skipped++
		case strategy.ActionQuote:
			res.Quoted++
		case strategy.ActionClose:
			res.RiskClosures[d.Reason]++
		}
		if err := strategy.Execute(d, engine); err != nil && !errors.Is(err, risk.ErrNoPosition) {
			log.Debug("order rejected", zap.Time("ts", k.Ts), zap.Error(err))
		}
	}

	res.Stats = ComputeStats(job.Backtest.InitialCash, engine.EquityCurve(), engine.Timestamps(),
		engine.Trades(), engine.Fills(), engine.MaxDrawdown())
	res.Rejected = engine.Rejected()
	res.EquityCurve = engine.EquityCurve()
	res.FinalFactors = strat.State().Factors
	if agent != nil {
		res.Explorations = agent.Explorations()
		res.Memory = agent.Memory().Len()
	}
	res.Duration = time.Since(started)
	metrics.ObserveRun(res.Duration, res.Stats.FinalEquity)

	log.Info("backtest finished",
		zap.Int("bars", res.Bars),
		zap.Float64("return_pct", res.Stats.ReturnPct),
		zap.Float64("max_drawdown_pct", res.Stats.MaxDrawdownPct),
		zap.Float64("sharpe", res.Stats.Sharpe),
		zap.Int("trades", res.Stats.Trades),
		zap.Int("explorations", res.Explorations),
	)
	return res, nil
}
