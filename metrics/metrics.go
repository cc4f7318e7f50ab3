// Package metrics provides Prometheus metrics for the market maker
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mm"

var (
	// 报价指标
	CurrentSpread = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_spread",
		Help:      "Quoted spread after volatility adjustment and spread factor (fraction)",
	})
	InventoryRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inventory_ratio_pct",
		Help:      "Position value as percentage of equity",
	})
	TunableFactor = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tunable_factor",
		Help:      "Adaptive multipliers in [0.5, 1.5]",
	}, []string{"factor"})
	QuotesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_levels_total",
		Help:      "Ladder levels generated",
	}, []string{"side"})
	BarsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bars_total",
		Help:      "Bars evaluated by outcome (skip, quote, close)",
	}, []string{"outcome"})

	// 风控指标
	RiskClosures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "risk_closures_total",
		Help:      "Positions closed by the risk governor",
	}, []string{"reason"})

	// 自适应指标
	Explorations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "explorations_total",
		Help:      "Bars on which the tunable factors were perturbed",
	})
	LastReward = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reward",
		Help:      "Most recent reward",
	})
	MemorySize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "experience_memory_size",
		Help:      "Entries held in the experience memory",
	})

	// 模拟撮合指标
	Equity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "equity",
		Help:      "Paper account equity",
	})
	Fills = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fills_total",
		Help:      "Paper fills by side",
	}, []string{"side"})
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of one backtest run",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)

// UpdateQuoteMetrics 记录一次报价的核心状态。
func UpdateQuoteMetrics(spread, inventoryRatio float64, bidLevels, askLevels int) {
	CurrentSpread.Set(spread)
	InventoryRatio.Set(inventoryRatio)
	QuotesGenerated.WithLabelValues("bid").Add(float64(bidLevels))
	QuotesGenerated.WithLabelValues("ask").Add(float64(askLevels))
}

// UpdateFactorMetrics 记录当前的可调因子。
func UpdateFactorMetrics(volatility, spread, inventory float64) {
	TunableFactor.WithLabelValues("volatility").Set(volatility)
	TunableFactor.WithLabelValues("spread").Set(spread)
	TunableFactor.WithLabelValues("inventory").Set(inventory)
}

// RecordBar 按结果统计 bar。
func RecordBar(outcome string) {
	BarsProcessed.WithLabelValues(outcome).Inc()
}

// RecordRiskClose 统计止损/止盈平仓。
func RecordRiskClose(reason string) {
	RiskClosures.WithLabelValues(reason).Inc()
}

// UpdateAdaptiveMetrics 记录奖励与记忆长度。
func UpdateAdaptiveMetrics(reward float64, memorySize int, explored bool) {
	LastReward.Set(reward)
	MemorySize.Set(float64(memorySize))
	if explored {
		Explorations.Inc()
	}
}

// RecordFill 统计模拟成交。
func RecordFill(side string) {
	Fills.WithLabelValues(side).Inc()
}

// ObserveRun 记录一次回测的耗时与最终权益。
func ObserveRun(d time.Duration, equity float64) {
	RunDuration.Observe(d.Seconds())
	Equity.Set(equity)
}

// StartMetricsServer 启动Prometheus指标服务器，返回的 server 可用于关闭。
func StartMetricsServer(addr string, onError func(error)) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onError != nil {
			onError(err)
		}
	}()
	return srv
}
