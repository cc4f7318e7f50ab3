package strategy

import "math"

// 偏离的归一化区间：0-100 的库存比例对应 ±50。
const skewNormalization = 50.0

// Skew 是库存偏斜结果。Bid/Ask 乘在价差上，SizeAdjustment 乘在买单数量上，卖单乘 2-SizeAdjustment。
type Skew struct {
	Bid            float64
	Ask            float64
	SizeAdjustment float64
}

// NeutralSkew 不做任何偏斜。
func NeutralSkew() Skew {
	return Skew{Bid: 1, Ask: 1, SizeAdjustment: 1}
}

// BidSizeFactor 买单数量乘数。
func (s Skew) BidSizeFactor() float64 { return s.SizeAdjustment }

// AskSizeFactor 卖单数量乘数，与买单互补，两者之和恒为 2。
func (s Skew) AskSizeFactor() float64 { return 2 - s.SizeAdjustment }

// InventoryRatio 持仓价值占总价值的百分比，限制在 [0,100]；总价值为 0 时返回 0。
// 总价值 = |持仓价值| + 可用资金。
func InventoryRatio(positionValue, availableCapital float64) float64 {
	total := math.Abs(positionValue) + availableCapital
	if total <= 0 {
		return 0
	}
	return clamp(positionValue/total*100, 0, 100)
}

// InventorySkew 库存高于目标时收紧卖价、放宽买价；低于目标时相反。
func InventorySkew(ratio, target, inventoryFactor float64) Skew {
	deviation := ratio - target
	skewFactor := math.Abs(deviation) / skewNormalization * inventoryFactor

	s := Skew{Bid: 1, Ask: 1}
	switch {
	case deviation > 0:
		s.Ask = 1 - skewFactor*0.5
		s.Bid = 1 + skewFactor*0.5
	case deviation < 0:
		s.Bid = 1 - skewFactor*0.5
		s.Ask = 1 + skewFactor*0.5
	}
	s.SizeAdjustment = clamp(1+(target-ratio)/100*inventoryFactor, 0.5, 1.5)
	return s
}
