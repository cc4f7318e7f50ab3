package sim

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/inventory"
	"adaptive-mm/market"
	"adaptive-mm/metrics"
	"adaptive-mm/order"
	"adaptive-mm/risk"
	"adaptive-mm/strategy"
)

// Fill 一笔模拟成交。
type Fill struct {
	Ts       time.Time
	Side     order.Side
	Price    float64
	Size     float64
	Fee      float64
	Realized float64 // 减仓部分的已实现盈亏（未扣手续费）
	Reducing bool
}

// Trade 一笔减仓成交的净盈亏，用于胜率、盈亏比和 SQN。
type Trade struct {
	Ts    time.Time
	Side  order.Side
	Price float64
	Size  float64
	PnL   float64
}

// PaperEngine 是 bar 级别的模拟执行引擎：
// 本 bar 挂出的限价单在下一根 bar 撮合（买单 price >= low，卖单 price <= high），未成交即过期。
// size < 1 视为权益×杠杆的比例，size >= 1 视为数量。
type PaperEngine struct {
	cfg      Config
	leverage float64
	log      *logger.Logger

	cash    float64
	tracker *inventory.Tracker
	book    *order.Book
	guard   risk.Guard

	bar       int
	lastTs    time.Time
	lastClose float64
	peak      float64
	maxDD     float64

	equityCurve []float64
	timestamps  []time.Time
	fills       []Fill
	trades      []Trade
	rejected    int
}

var (
	_ strategy.Broker = (*PaperEngine)(nil)
	_ risk.Account    = (*PaperEngine)(nil)
)

// NewPaperEngine 创建模拟引擎。
func NewPaperEngine(cfg Config, leverage float64, log *logger.Logger) *PaperEngine {
	if leverage <= 0 {
		leverage = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	e := &PaperEngine{
		cfg:      cfg,
		leverage: leverage,
		log:      log,
		cash:     cfg.InitialCash,
		tracker:  &inventory.Tracker{},
		book:     order.NewBook(),
		peak:     cfg.InitialCash,
	}
	e.guard = risk.MultiGuard{Guards: []risk.Guard{
		risk.NewLimitChecker(risk.Limits{SingleMax: cfg.SingleMax, Leverage: leverage}, e),
		risk.DrawdownGuard{MaxDrawdown: cfg.MaxDrawdown, Acc: e},
	}}
	return e
}

// Position 当前持仓快照。
func (e *PaperEngine) Position() inventory.Position { return e.tracker.Position() }

// Equity 现金加按最新收盘价计价的持仓。
func (e *PaperEngine) Equity() float64 {
	return e.cash + e.tracker.NetExposure()*e.lastClose
}

func (e *PaperEngine) PeakEquity() float64 { return e.peak }

func (e *PaperEngine) NetExposure() float64 { return e.tracker.NetExposure() }

// SubmitBuy 挂出买单，在下一根 bar 撮合。
func (e *PaperEngine) SubmitBuy(price, size float64) error {
	return e.submit(order.Buy, price, size)
}

// SubmitSell 挂出卖单，在下一根 bar 撮合。
func (e *PaperEngine) SubmitSell(price, size float64) error {
	return e.submit(order.Sell, price, size)
}

func (e *PaperEngine) submit(side order.Side, price, size float64) error {
	if price <= 0 || math.IsNaN(price) {
		return risk.ErrInvalidPrice
	}
	if size <= 0 || math.IsNaN(size) {
		return risk.ErrInvalidSize
	}
	qty := e.resolveQty(price, size)
	p, q, err := e.cfg.Constraints.Normalize(price, qty, side)
	if err != nil {
		e.rejected++
		return fmt.Errorf("%w: %v", risk.ErrInvalidSize, err)
	}
	delta := q
	if side == order.Sell {
		delta = -q
	}
	if err := e.guard.PreOrder(delta, p); err != nil {
		e.rejected++
		return err
	}
	e.book.Add(order.Order{Side: side, Price: p, Quantity: q, Bar: e.bar})
	return nil
}

// resolveQty 与常见回测框架一致：小于 1 的 size 按可用名义的比例换算成数量。
func (e *PaperEngine) resolveQty(price, size float64) float64 {
	if size >= 1 {
		return size
	}
	return size * e.Equity() * e.leverage / price
}

// ClosePosition 以最新收盘价立即平掉全部持仓。
func (e *PaperEngine) ClosePosition() error {
	net := e.tracker.NetExposure()
	if net == 0 {
		return risk.ErrNoPosition
	}
	side := order.Sell
	if net < 0 {
		side = order.Buy
	}
	e.fill(side, e.lastClose, math.Abs(net), e.lastTs)
	return nil
}

// OnBar 撮合上一根 bar 挂出的订单，然后按本 bar 收盘价记录权益。返回本 bar 的成交。
func (e *PaperEngine) OnBar(k market.Kline) []Fill {
	var fills []Fill
	for _, o := range e.book.Open() {
		price, ok := matchPrice(o, k)
		if !ok {
			continue
		}
		if err := e.book.Transition(o.ID, order.StatusFilled, ""); err != nil {
			e.log.LogError(err, zap.String("order", o.ID))
			continue
		}
		fills = append(fills, e.fill(o.Side, price, o.Quantity, k.Ts))
	}
	e.book.ExpireOpen()
	e.book.Prune()

	e.bar++
	e.lastTs = k.Ts
	e.lastClose = k.Close
	e.mark(k.Ts)
	return fills
}

// matchPrice 限价单触价成交；开盘即穿价时按开盘价成交。
func matchPrice(o order.Order, k market.Kline) (float64, bool) {
	switch o.Side {
	case order.Buy:
		if o.Price < k.Low {
			return 0, false
		}
		return math.Min(o.Price, k.Open), true
	case order.Sell:
		if o.Price > k.High {
			return 0, false
		}
		return math.Max(o.Price, k.Open), true
	}
	return 0, false
}

func (e *PaperEngine) fill(side order.Side, price, qty float64, ts time.Time) Fill {
	px := price
	delta := qty
	if side == order.Buy {
		px *= 1 + e.cfg.Slippage
	} else {
		px *= 1 - e.cfg.Slippage
		delta = -qty
	}
	fee := px * qty * e.cfg.Commission
	prevNet := e.tracker.NetExposure()
	realized := e.tracker.Update(delta, px)
	e.cash -= delta*px + fee

	f := Fill{
		Ts:       ts,
		Side:     side,
		Price:    px,
		Size:     qty,
		Fee:      fee,
		Realized: realized,
		Reducing: prevNet != 0 && (prevNet > 0) != (delta > 0),
	}
	e.fills = append(e.fills, f)
	if f.Reducing {
		e.trades = append(e.trades, Trade{Ts: ts, Side: side, Price: px, Size: qty, PnL: realized - fee})
	}
	metrics.RecordFill(string(side))
	e.log.LogFill(string(side), px, qty, zap.Float64("fee", fee), zap.Float64("realized", realized))
	return f
}

func (e *PaperEngine) mark(ts time.Time) {
	eq := e.Equity()
	e.equityCurve = append(e.equityCurve, eq)
	e.timestamps = append(e.timestamps, ts)
	if eq > e.peak {
		e.peak = eq
	}
	if e.peak > 0 {
		if dd := (e.peak - eq) / e.peak; dd > e.maxDD {
			e.maxDD = dd
		}
	}
}

// MaxDrawdown 最大回撤（小数）。
func (e *PaperEngine) MaxDrawdown() float64 { return e.maxDD }

func (e *PaperEngine) EquityCurve() []float64 { return append([]float64(nil), e.equityCurve...) }

func (e *PaperEngine) Timestamps() []time.Time { return append([]time.Time(nil), e.timestamps...) }

func (e *PaperEngine) Fills() []Fill { return append([]Fill(nil), e.fills...) }

func (e *PaperEngine) Trades() []Trade { return append([]Trade(nil), e.trades...) }

// Rejected 被约束或风控拒绝的挂单数。
func (e *PaperEngine) Rejected() int { return e.rejected }

// OpenOrders 当前挂单。
func (e *PaperEngine) OpenOrders() []order.Order { return e.book.Open() }
