package strategy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/inventory"
	"adaptive-mm/metrics"
)

// Learner 是可选的自适应组件：每根 bar 前可修改因子，bar 后对结果打分。
type Learner interface {
	BeforeBar(bar Bar, state State) TunableFactors
	AfterBar(bar Bar, state State, d Decision)
}

// Broker 是执行引擎的写入侧。成交、滑点、手续费都由引擎决定。
type Broker interface {
	Position() inventory.Position
	Equity() float64
	SubmitBuy(price, size float64) error
	SubmitSell(price, size float64) error
	ClosePosition() error
}

// Strategy 持有唯一的 State，按 bar 顺序推进。非并发安全，一次回测一个实例。
type Strategy struct {
	cfg     Config
	state   State
	learner Learner
	log     *logger.Logger
}

// Option 构造选项。
type Option func(*Strategy)

// WithLearner 注入自适应组件。
func WithLearner(l Learner) Option {
	return func(s *Strategy) { s.learner = l }
}

// WithLogger 注入日志器。
func WithLogger(l *logger.Logger) Option {
	return func(s *Strategy) {
		if l != nil {
			s.log = l
		}
	}
}

// New 校验配置并创建策略。
func New(cfg Config, opts ...Option) (*Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("strategy config: %w", err)
	}
	s := &Strategy{
		cfg:   cfg,
		state: NewState(cfg),
		log:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Strategy) Config() Config { return s.cfg }

// State 返回当前状态的拷贝。
func (s *Strategy) State() State { return s.state.Clone() }

// Adaptive 是否注入了自适应组件。
func (s *Strategy) Adaptive() bool { return s.learner != nil }

// OnBar 推进一根 bar。预热期直接跳过，自适应组件也不运行。
func (s *Strategy) OnBar(bar Bar) Decision {
	if !bar.Ready() {
		next, d := Step(s.state, bar, s.cfg)
		s.state = next
		metrics.RecordBar(d.Action.String())
		return d
	}

	if s.learner != nil {
		s.state.Factors = s.learner.BeforeBar(bar, s.state.Clone()).Clamp()
	}
	next, d := Step(s.state, bar, s.cfg)
	s.state = next

	metrics.RecordBar(d.Action.String())
	metrics.UpdateFactorMetrics(next.Factors.Volatility, next.Factors.Spread, next.Factors.Inventory)
	switch d.Action {
	case ActionClose:
		metrics.RecordRiskClose(string(d.Reason))
		s.log.LogRisk(string(d.Reason),
			zap.Time("ts", bar.Ts),
			zap.Float64("price", bar.Close),
			zap.Float64("entry", bar.Position.EntryPrice),
			zap.String("direction", bar.Position.Direction.String()),
		)
	case ActionQuote:
		metrics.UpdateQuoteMetrics(d.Spread, next.InventoryRatio, len(d.Bids), len(d.Asks))
		s.log.LogQuote(d.Spread, next.InventoryRatio, len(d.Bids), len(d.Asks), zap.Time("ts", bar.Ts))
	}

	if s.learner != nil {
		s.learner.AfterBar(bar, next.Clone(), d)
	}
	return d
}

// Execute 将决策提交给执行引擎。数量或价格非正的档位不提交；单档失败不影响其余档位。
func Execute(d Decision, b Broker) error {
	switch d.Action {
	case ActionClose:
		return b.ClosePosition()
	case ActionQuote:
		var errs []error
		for _, lv := range d.Bids {
			if lv.Size <= 0 || lv.Price <= 0 {
				continue
			}
			if err := b.SubmitBuy(lv.Price, lv.Size); err != nil {
				errs = append(errs, fmt.Errorf("bid %.8f: %w", lv.Price, err))
			}
		}
		for _, lv := range d.Asks {
			if lv.Size <= 0 || lv.Price <= 0 {
				continue
			}
			if err := b.SubmitSell(lv.Price, lv.Size); err != nil {
				errs = append(errs, fmt.Errorf("ask %.8f: %w", lv.Price, err))
			}
		}
		return errors.Join(errs...)
	}
	return nil
}
