package adaptive

import (
	"math"
	"time"

	"adaptive-mm/inventory"
)

// PositionPnL 持仓的未实现盈亏；无持仓为 0。
func PositionPnL(pos inventory.Position, price float64) float64 {
	if !pos.IsOpen() {
		return 0
	}
	return pos.UnrealizedPnL(price)
}

// Rewarder 计算每根 bar 的奖励并维护按日累计的奖励账本。
type Rewarder struct {
	kind    RewardFunction
	window  int
	daily   []float64
	lastDay string
}

func NewRewarder(kind RewardFunction, window int) *Rewarder {
	return &Rewarder{kind: kind, window: window}
}

// Score 计算奖励并记入日账本。无持仓时奖励为 0。
// sharpe_ratio 使用最近 window 个日奖励的均值/总体标准差，日奖励不足两个或标准差为 0 时退化为 PnL。
func (r *Rewarder) Score(pos inventory.Position, price, positionValue float64, ts time.Time) float64 {
	reward := 0.0
	if pos.IsOpen() {
		pnl := PositionPnL(pos, price)
		switch r.kind {
		case RewardSharpe:
			reward = pnl
			if len(r.daily) > 1 {
				if mean, std := meanStd(r.tail()); std > 0 {
					reward = mean / std
				}
			}
		case RewardRiskAdjusted:
			reward = pnl
			if positionValue > 0 {
				reward = pnl / positionValue
			}
		default:
			reward = pnl
		}
	}
	r.record(reward, ts)
	return reward
}

// Daily 返回日奖励账本的拷贝。
func (r *Rewarder) Daily() []float64 {
	return append([]float64(nil), r.daily...)
}

func (r *Rewarder) record(reward float64, ts time.Time) {
	day := ts.UTC().Format("2006-01-02")
	if len(r.daily) == 0 || day != r.lastDay {
		r.daily = append(r.daily, reward)
	} else {
		r.daily[len(r.daily)-1] += reward
	}
	r.lastDay = day
}

func (r *Rewarder) tail() []float64 {
	if r.window > 0 && len(r.daily) > r.window {
		return r.daily[len(r.daily)-r.window:]
	}
	return r.daily
}

func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
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
