package risk

// Account 是下单前校验所需的账户视图，由执行引擎提供。
type Account interface {
	Equity() float64
	PeakEquity() float64
	NetExposure() float64
}

// Guard 是通用接口，保证金、回撤等都可实现。deltaQty 正买负卖。
type Guard interface {
	PreOrder(deltaQty, price float64) error
}

// MultiGuard 顺序执行多个 Guard，只要有一个返回错误则中止。
type MultiGuard struct {
	Guards []Guard
}

func (m MultiGuard) PreOrder(deltaQty, price float64) error {
	for _, g := range m.Guards {
		if g == nil {
			continue
		}
		if err := g.PreOrder(deltaQty, price); err != nil {
			return err
		}
	}
	return nil
}

// increasesExposure 本次下单是否会扩大绝对敞口。
func increasesExposure(net, deltaQty float64) bool {
	return abs(net+deltaQty) > abs(net)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
