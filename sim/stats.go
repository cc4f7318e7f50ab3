package sim

import (
	"math"
	"sort"
	"time"
)

// Stats 回测汇总指标，百分比字段均为 0-100。
type Stats struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	InitialEquity  float64   `json:"initial_equity"`
	FinalEquity    float64   `json:"final_equity"`
	ReturnPct      float64   `json:"return_pct"`
	AnnualReturn   float64   `json:"annual_return_pct"`
	MaxDrawdownPct float64   `json:"max_drawdown_pct"`
	Sharpe         float64   `json:"sharpe_ratio"`
	Sortino        float64   `json:"sortino_ratio"`
	Calmar         float64   `json:"calmar_ratio"`
	SQN            float64   `json:"sqn"`
	Trades         int       `json:"trades"`
	WinRatePct     float64   `json:"win_rate_pct"`
	ProfitFactor   float64   `json:"profit_factor"` // 没有亏损交易时无定义，记为 0
	Fills          int       `json:"fills"`
	Fees           float64   `json:"fees"`
}

// ComputeStats 根据权益曲线与成交计算汇总指标。
func ComputeStats(initial float64, curve []float64, ts []time.Time, trades []Trade, fills []Fill, maxDD float64) Stats {
	s := Stats{
		InitialEquity:  initial,
		FinalEquity:    initial,
		MaxDrawdownPct: maxDD * 100,
		Trades:         len(trades),
		Fills:          len(fills),
	}
	if len(ts) > 0 {
		s.Start, s.End = ts[0], ts[len(ts)-1]
	}
	for _, f := range fills {
		s.Fees += f.Fee
	}
	if len(curve) > 0 {
		s.FinalEquity = curve[len(curve)-1]
	}
	if initial > 0 {
		s.ReturnPct = (s.FinalEquity - initial) / initial * 100
	}

	periods := periodsPerYear(ts)
	returns := simpleReturns(initial, curve)
	if len(returns) > 1 && periods > 0 {
		mean, std := meanStd(returns)
		if std > 0 {
			s.Sharpe = mean / std * math.Sqrt(periods)
		}
		if dd := downsideDeviation(returns); dd > 0 {
			s.Sortino = mean / dd * math.Sqrt(periods)
		}
		if initial > 0 && s.FinalEquity > 0 {
			growth := s.FinalEquity / initial
			s.AnnualReturn = (math.Pow(growth, periods/float64(len(returns))) - 1) * 100
		}
		if maxDD > 0 {
			s.Calmar = s.AnnualReturn / (maxDD * 100)
		}
	}

	if len(trades) > 0 {
		pnls := make([]float64, len(trades))
		var wins int
		var grossWin, grossLoss float64
		for i, t := range trades {
			pnls[i] = t.PnL
			switch {
			case t.PnL > 0:
				wins++
				grossWin += t.PnL
			case t.PnL < 0:
				grossLoss -= t.PnL
			}
		}
		s.WinRatePct = float64(wins) / float64(len(trades)) * 100
		if grossLoss > 0 {
			s.ProfitFactor = grossWin / grossLoss
		}
		if len(pnls) > 1 {
			mean, std := sampleMeanStd(pnls)
			if std > 0 {
				s.SQN = math.Sqrt(float64(len(pnls))) * mean / std
			}
		}
	}
	s.sanitize()
	return s
}

// sanitize 把溢出或无定义的比率置 0，保证结果可以 JSON 序列化。
func (s *Stats) sanitize() {
	for _, v := range []*float64{
		&s.ReturnPct, &s.AnnualReturn, &s.MaxDrawdownPct, &s.Sharpe, &s.Sortino,
		&s.Calmar, &s.SQN, &s.WinRatePct, &s.ProfitFactor, &s.Fees, &s.FinalEquity,
	} {
		if math.IsInf(*v, 0) || math.IsNaN(*v) {
			*v = 0
		}
	}
}

func simpleReturns(initial float64, curve []float64) []float64 {
	if len(curve) == 0 {
		return nil
	}
	out := make([]float64, 0, len(curve))
	prev := initial
	for _, eq := range curve {
		if prev > 0 {
			out = append(out, eq/prev-1)
		}
		prev = eq
	}
	return out
}

// periodsPerYear 以相邻 bar 间隔的中位数估算年化系数。
func periodsPerYear(ts []time.Time) float64 {
	if len(ts) < 2 {
		return 0
	}
	gaps := make([]float64, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		if d := ts[i].Sub(ts[i-1]); d > 0 {
			gaps = append(gaps, float64(d))
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	sort.Float64s(gaps)
	median := gaps[len(gaps)/2]
	return float64(365*24*time.Hour) / median
}

func meanStd(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}

func sampleMeanStd(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}

func downsideDeviation(xs []float64) float64 {
	var ss float64
	for _, x := range xs {
		if x < 0 {
			ss += x * x
		}
	}
	return math.Sqrt(ss / float64(len(xs)))
}
