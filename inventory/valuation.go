package inventory

// Valuation 基于当前 mid 价计算未实现盈亏。
func (t *Tracker) Valuation(mid float64) (net float64, pnl float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	net = t.net
	pnl = (mid - t.cost) * t.net
	return
}

// UnrealizedPnL 按持仓方向计算浮动盈亏，空仓为 0。
func (p Position) UnrealizedPnL(price float64) float64 {
	switch p.Direction {
	case Long:
		return (price - p.EntryPrice) * p.Size
	case Short:
		return (p.EntryPrice - price) * p.Size
	default:
		return 0
	}
}

// Value 返回按 price 计价的带符号持仓价值。
func (p Position) Value(price float64) float64 {
	return p.Signed() * price
}
