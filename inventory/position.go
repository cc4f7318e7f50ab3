package inventory

import (
	"math"
	"sync"
)

const qtyEpsilon = 1e-12

// Direction 持仓方向。
type Direction int

const (
	Flat Direction = iota
	Long
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "FLAT"
	}
}

// Position 是执行引擎对外暴露的只读持仓视图。
type Position struct {
	Direction  Direction
	EntryPrice float64
	Size       float64 // 绝对数量
}

// IsOpen 是否持有仓位。
func (p Position) IsOpen() bool {
	return p.Direction != Flat && p.Size > 0
}

// Signed 返回带符号的净仓位（多为正，空为负）。
func (p Position) Signed() float64 {
	if p.Direction == Short {
		return -p.Size
	}
	if p.Direction == Long {
		return p.Size
	}
	return 0
}

// Tracker 维护净仓位与加权平均开仓价。
type Tracker struct {
	mu       sync.RWMutex
	net      float64
	cost     float64
	realized float64
}

// Update 根据成交数量调整仓位（正买负卖），返回本次减仓部分的已实现盈亏。
func (t *Tracker) Update(deltaQty float64, price float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if deltaQty == 0 {
		return 0
	}
	// 同向加仓：加权平均成本
	if t.net == 0 || (t.net > 0) == (deltaQty > 0) {
		totalValue := t.cost*t.net + price*deltaQty
		t.net += deltaQty
		t.cost = totalValue / t.net
		return 0
	}

	closing := math.Min(math.Abs(deltaQty), math.Abs(t.net))
	var pnl float64
	if t.net > 0 {
		pnl = (price - t.cost) * closing
	} else {
		pnl = (t.cost - price) * closing
	}
	prev := t.net
	t.net += deltaQty
	switch {
	case math.Abs(t.net) < qtyEpsilon:
		t.net = 0
		t.cost = 0
	case (prev > 0) != (t.net > 0):
		// 反手：剩余部分以成交价开新仓
		t.cost = price
	}
	t.realized += pnl
	return pnl
}

func (t *Tracker) NetExposure() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.net
}

func (t *Tracker) AvgCost() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cost
}

// Realized 累计已实现盈亏。
func (t *Tracker) Realized() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.realized
}

// Position 返回当前持仓快照。
func (t *Tracker) Position() Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch {
	case t.net > 0:
		return Position{Direction: Long, EntryPrice: t.cost, Size: t.net}
	case t.net < 0:
		return Position{Direction: Short, EntryPrice: t.cost, Size: -t.net}
	default:
		return Position{}
	}
}
