package order

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Side 订单方向。
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// SymbolConstraints 描述交易对的步长与名义限制。
type SymbolConstraints struct {
	TickSize    float64 `yaml:"tickSize"`
	StepSize    float64 `yaml:"stepSize"`
	MinQty      float64 `yaml:"minQty"`
	MaxQty      float64 `yaml:"maxQty"`
	MinNotional float64 `yaml:"minNotional"`
}

// Validate 检查订单价格/数量是否符合精度与最小名义。
func (c SymbolConstraints) Validate(price, qty float64) error {
	if c.TickSize > 0 && !isMultiple(price, c.TickSize) {
		return fmt.Errorf("price %.8f not aligned to tickSize %.8f", price, c.TickSize)
	}
	if c.StepSize > 0 && !isMultiple(qty, c.StepSize) {
		return fmt.Errorf("qty %.8f not aligned to stepSize %.8f", qty, c.StepSize)
	}
	if c.MinQty > 0 && qty < c.MinQty {
		return fmt.Errorf("qty %.8f < minQty %.8f", qty, c.MinQty)
	}
	if c.MaxQty > 0 && qty > c.MaxQty {
		return fmt.Errorf("qty %.8f > maxQty %.8f", qty, c.MaxQty)
	}
	if c.MinNotional > 0 && price*qty < c.MinNotional {
		return fmt.Errorf("notional %.8f < minNotional %.8f", price*qty, c.MinNotional)
	}
	return nil
}

// RoundPrice 按 tick 对齐价格：买单向下取整，卖单向上取整，保证不比报价更激进。
func (c SymbolConstraints) RoundPrice(price float64, side Side) float64 {
	if c.TickSize <= 0 {
		return price
	}
	tick := decimal.NewFromFloat(c.TickSize)
	steps := decimal.NewFromFloat(price).Div(tick)
	if side == Sell {
		steps = steps.Ceil()
	} else {
		steps = steps.Floor()
	}
	return steps.Mul(tick).InexactFloat64()
}

// RoundQty 数量向下对齐到 step。
func (c SymbolConstraints) RoundQty(qty float64) float64 {
	if c.StepSize <= 0 {
		return qty
	}
	step := decimal.NewFromFloat(c.StepSize)
	return decimal.NewFromFloat(qty).Div(step).Floor().Mul(step).InexactFloat64()
}

// Normalize 对齐价格与数量后做一次完整校验；对齐后数量为 0 时返回错误。
func (c SymbolConstraints) Normalize(price, qty float64, side Side) (float64, float64, error) {
	p := c.RoundPrice(price, side)
	q := c.RoundQty(qty)
	if q <= 0 {
		return p, q, fmt.Errorf("qty %.8f rounds to zero with stepSize %.8f", qty, c.StepSize)
	}
	if err := c.Validate(p, q); err != nil {
		return p, q, err
	}
	return p, q, nil
}

func isMultiple(value, step float64) bool {
	if step <= 0 {
		return true
	}
	ratio := value / step
	return math.Abs(ratio-math.Round(ratio)) <= 1e-8
}
