package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"adaptive-mm/config"
	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/market"
	"adaptive-mm/metrics"
	"adaptive-mm/sim"
)

// 配置驱动的回测入口：基础策略 + 多个随机种子的自适应策略并行回测。
// 用法：
//
//	go run ./cmd/backtest -config configs/config.yaml -bars data/ethusdt_1h_sample.csv -seeds 8 -out results.csv -params-out best.json
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	barsPath := flag.String("bars", "", "K线 CSV (timestamp,open,high,low,close,volume)")
	seeds := flag.Int("seeds", 1, "自适应策略的随机种子个数，从 adaptive.seed 起递增")
	workers := flag.Int("workers", 0, "并行 worker 数，0 表示 CPU 核数")
	outPath := flag.String("out", "", "若指定则写入 CSV 汇总")
	paramsOut := flag.String("params-out", "", "若指定则写入最优参数 JSON")
	watch := flag.Bool("watch", false, "监听配置文件，变更后重新回测")
	resample := flag.Duration("resample", 0, "重采样周期，如 1h；0 不重采样")
	flag.Parse()

	if *barsPath == "" {
		log.Fatal("必须指定 -bars")
	}
	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	klines, err := market.LoadKlinesCSV(*barsPath)
	if err != nil {
		lg.Fatal("load bars failed", zap.String("path", *barsPath), zap.Error(err))
	}
	if *resample > 0 {
		klines = market.Resample(klines, *resample)
	}
	lg.Info("bars loaded", zap.Int("count", len(klines)), zap.String("path", *barsPath), zap.Duration("resample", *resample))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		srv := metrics.StartMetricsServer(cfg.Metrics.Addr, func(err error) {
			lg.LogError(err, zap.String("component", "metrics"))
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		lg.Info("metrics server started", zap.String("addr", cfg.Metrics.Addr))
	}

	opts := runOptions{seeds: *seeds, workers: *workers, outPath: *outPath, paramsOut: *paramsOut}
	runner := sim.NewRunner(lg)
	if err := runOnce(ctx, runner, lg, cfg, klines, opts); err != nil {
		lg.LogError(err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}

	w := &config.Watcher{
		Path:     *cfgPath,
		Cooldown: time.Second,
		OnError:  func(err error) { lg.LogError(err, zap.String("component", "config_watcher")) },
	}
	// systemd Type=notify 下报告就绪，非 systemd 环境返回 false 即忽略
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.Warn("sd_notify failed", zap.Error(err))
	} else if ok {
		lg.Info("sd_notify ready sent")
	}
	lg.Info("watching config", zap.String("path", *cfgPath))
	err = w.Start(ctx, func(next config.AppConfig) {
		lg.Info("config reloaded, rerunning backtest")
		if err := runOnce(ctx, runner, lg, next, klines, opts); err != nil {
			lg.LogError(err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		lg.LogError(err)
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
}

type runOptions struct {
	seeds     int
	workers   int
	outPath   string
	paramsOut string
}

func runOnce(ctx context.Context, runner *sim.Runner, lg *logger.Logger, cfg config.AppConfig, klines []market.Kline, opts runOptions) error {
	jobs := buildJobs(cfg, klines, opts.seeds)
	results, err := runner.RunParallel(ctx, jobs, opts.workers)
	if err != nil {
		return fmt.Errorf("run backtests: %w", err)
	}
	for _, res := range results {
		lg.Info("backtest finished",
			zap.String("job", res.Name),
			zap.String("run_id", res.RunID),
			zap.Float64("return_pct", res.Stats.ReturnPct),
			zap.Float64("sharpe", res.Stats.Sharpe),
			zap.Float64("max_dd_pct", res.Stats.MaxDrawdownPct),
			zap.Int("trades", res.Stats.Trades),
			zap.Int("explorations", res.Explorations),
		)
	}
	if opts.outPath != "" {
		if err := writeSummaryCSV(opts.outPath, results); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		lg.Info("summary written", zap.String("path", opts.outPath))
	}
	best, ok := sim.Best(results)
	if !ok {
		return nil
	}
	lg.Info("best run", zap.String("job", best.Name), zap.Float64("sharpe", best.Stats.Sharpe))
	if opts.paramsOut != "" {
		if err := writeParams(opts.paramsOut, best); err != nil {
			return fmt.Errorf("write params: %w", err)
		}
	}
	return nil
}

// buildJobs 生成一个基础策略任务，自适应开启时再为每个种子生成一个任务。
func buildJobs(cfg config.AppConfig, klines []market.Kline, seeds int) []sim.Job {
	jobs := []sim.Job{{
		Name:     "base",
		Strategy: cfg.Strategy,
		Backtest: cfg.Backtest,
		Klines:   klines,
	}}
	if !cfg.Adaptive.Enabled {
		return jobs
	}
	if seeds < 1 {
		seeds = 1
	}
	for i := 0; i < seeds; i++ {
		ac := cfg.Adaptive.Config
		ac.Seed += int64(i)
		jobs = append(jobs, sim.Job{
			Name:     "adaptive-seed-" + strconv.FormatInt(ac.Seed, 10),
			Strategy: cfg.Strategy,
			Adaptive: &ac,
			Backtest: cfg.Backtest,
			Klines:   klines,
		})
	}
	return jobs
}

func writeSummaryCSV(path string, results []sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	header := []string{"job", "run_id", "bars", "skipped", "quoted", "return_pct", "max_dd_pct",
		"sharpe", "sortino", "calmar", "sqn", "trades", "win_rate_pct", "fees",
		"volatility_factor", "spread_factor", "inventory_factor"}
	if err := w.Write(header); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, r := range results {
		row := []string{
			r.Name, r.RunID,
			strconv.Itoa(r.Bars), strconv.Itoa(r.Skipped), strconv.Itoa(r.Quoted),
			ff(r.Stats.ReturnPct), ff(r.Stats.MaxDrawdownPct),
			ff(r.Stats.Sharpe), ff(r.Stats.Sortino), ff(r.Stats.Calmar), ff(r.Stats.SQN),
			strconv.Itoa(r.Stats.Trades), ff(r.Stats.WinRatePct), ff(r.Stats.Fees),
			ff(r.FinalFactors.Volatility), ff(r.FinalFactors.Spread), ff(r.FinalFactors.Inventory),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeParams(path string, best sim.Result) error {
	raw, err := json.MarshalIndent(best, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
