package risk

import (
	"errors"
	"fmt"
)

var (
	ErrSingleExceed = errors.New("single order exceed")
	ErrNetExceed    = errors.New("net exposure exceed")
	ErrDrawdown     = errors.New("max drawdown breached")
)

// Limits 配置。SingleMax 为单笔名义上限，0 表示不限制。
type Limits struct {
	SingleMax float64
	Leverage  float64
}

// LimitChecker 校验单笔名义与杠杆后的净敞口。
type LimitChecker struct {
	cfg Limits
	acc Account
}

func NewLimitChecker(cfg Limits, acc Account) *LimitChecker {
	return &LimitChecker{cfg: cfg, acc: acc}
}

// PreOrder 只限制扩大敞口的订单，减仓单总是放行。
func (lc *LimitChecker) PreOrder(deltaQty, price float64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	if deltaQty == 0 {
		return ErrInvalidSize
	}
	notional := abs(deltaQty) * price
	if lc.cfg.SingleMax > 0 && notional > lc.cfg.SingleMax {
		return fmt.Errorf("%w: %.2f > single %.2f", ErrSingleExceed, notional, lc.cfg.SingleMax)
	}
	if lc.acc == nil || lc.cfg.Leverage <= 0 {
		return nil
	}
	net := lc.acc.NetExposure()
	if !increasesExposure(net, deltaQty) {
		return nil
	}
	maxNotional := lc.acc.Equity() * lc.cfg.Leverage
	if after := abs(net+deltaQty) * price; after > maxNotional {
		return fmt.Errorf("%w: %.2f > margin %.2f", ErrNetExceed, after, maxNotional)
	}
	return nil
}

// DrawdownGuard 回撤超过 MaxDrawdown 后拒绝扩大敞口的订单。MaxDrawdown 为 0 时关闭。
type DrawdownGuard struct {
	MaxDrawdown float64
	Acc         Account
}

func (g DrawdownGuard) PreOrder(deltaQty, _ float64) error {
	if g.MaxDrawdown <= 0 || g.Acc == nil {
		return nil
	}
	peak := g.Acc.PeakEquity()
	if peak <= 0 {
		return nil
	}
	dd := (peak - g.Acc.Equity()) / peak
	if dd >= g.MaxDrawdown && increasesExposure(g.Acc.NetExposure(), deltaQty) {
		return fmt.Errorf("%w: %.2f%% >= %.2f%%", ErrDrawdown, dd*100, g.MaxDrawdown*100)
	}
	return nil
}
