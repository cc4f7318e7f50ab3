package strategy

import (
	"math"
	"time"

	"adaptive-mm/inventory"
	"adaptive-mm/risk"
)

// Bar 是执行引擎每根 K 线提供给策略的只读视图。
type Bar struct {
	Ts       time.Time
	Close    float64
	ATR      float64 // 预热期为 NaN
	BBWidth  float64 // 预热期为 NaN
	Position inventory.Position
	Equity   float64
}

// Ready 指标是否已就绪。
func (b Bar) Ready() bool {
	return b.Close > 0 && !math.IsNaN(b.ATR) && !math.IsNaN(b.BBWidth)
}

// Action 单根 bar 的决策类型。
type Action int

const (
	ActionSkip Action = iota
	ActionQuote
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionQuote:
		return "quote"
	case ActionClose:
		return "close"
	default:
		return "skip"
	}
}

// Decision 是 Step 的输出：跳过、挂梯度单，或平仓。
type Decision struct {
	Action Action
	Bids   []Level
	Asks   []Level
	Spread float64
	Skew   Skew
	Reason risk.Reason
}

// Step 纯函数：根据当前状态与 bar 计算新状态与决策，不修改入参。
// 顺序：刷新库存 -> 价差 -> 偏斜 -> 梯度 -> 风控。风控触发平仓时不再报价。
func Step(state State, bar Bar, cfg Config) (State, Decision) {
	next := state.Clone()

	pos := bar.Position
	next.Inventory = pos.Signed()
	next.PositionValue = 0
	if pos.IsOpen() {
		next.PositionValue = next.Inventory * bar.Close
	}
	next.AvailableCapital = bar.Equity - math.Abs(next.PositionValue)
	next.InventoryRatio = InventoryRatio(next.PositionValue, next.AvailableCapital)

	if !bar.Ready() {
		return next, Decision{Action: ActionSkip}
	}

	spread, _ := SpreadPolicy(bar.ATR, bar.Close, cfg, next.Factors)
	next.CurrentSpread = spread

	skew := NeutralSkew()
	if cfg.EnableInventorySkew {
		skew = InventorySkew(next.InventoryRatio, cfg.InventoryTargetPct, next.Factors.Inventory)
	}
	next.BidLevels, next.AskLevels = BuildLadder(bar.Close, spread, skew, cfg.OrderLevels, cfg.OrderAmount)

	if v := risk.Evaluate(pos, bar.Close, cfg.Thresholds()); v.Close {
		return next, Decision{Action: ActionClose, Spread: spread, Skew: skew, Reason: v.Reason}
	}
	return next, Decision{
		Action: ActionQuote,
		Bids:   append([]Level(nil), next.BidLevels...),
		Asks:   append([]Level(nil), next.AskLevels...),
		Spread: spread,
		Skew:   skew,
	}
}
