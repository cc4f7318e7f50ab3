package risk

import "adaptive-mm/inventory"

// Reason 平仓原因。
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonStopLoss   Reason = "stop_loss"
	ReasonTakeProfit Reason = "take_profit"
)

// Verdict 是单根 K 线的风控判定结果。
type Verdict struct {
	Close  bool
	Reason Reason
}

// Thresholds 止损/止盈比例（相对开仓价）。
type Thresholds struct {
	StopLoss   float64
	TakeProfit float64
}

// Evaluate 在报价下发前检查持仓是否触发止损或止盈。
// 多头：price < entry*(1-sl) 止损，price > entry*(1+tp) 止盈；空头方向相反。
// 无持仓时永不平仓。边界价格本身不触发。
func Evaluate(pos inventory.Position, price float64, th Thresholds) Verdict {
	if !pos.IsOpen() || pos.EntryPrice <= 0 {
		return Verdict{}
	}
	entry := pos.EntryPrice
	switch pos.Direction {
	case inventory.Long:
		if price < entry*(1-th.StopLoss) {
			return Verdict{Close: true, Reason: ReasonStopLoss}
		}
		if price > entry*(1+th.TakeProfit) {
			return Verdict{Close: true, Reason: ReasonTakeProfit}
		}
	case inventory.Short:
		if price > entry*(1+th.StopLoss) {
			return Verdict{Close: true, Reason: ReasonStopLoss}
		}
		if price < entry*(1-th.TakeProfit) {
			return Verdict{Close: true, Reason: ReasonTakeProfit}
		}
	}
	return Verdict{}
}
