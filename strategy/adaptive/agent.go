package adaptive

import (
	"fmt"

	"go.uber.org/zap"

	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/metrics"
	"adaptive-mm/strategy"
)

// Agent 是朴素的探索/利用启发式：bar 前按概率扰动因子，bar 后记录奖励与经验。
// 不做任何梯度学习。
type Agent struct {
	cfg      Config
	scfg     strategy.Config
	policy   ExplorationPolicy
	rewarder *Rewarder
	memory   *Memory
	log      *logger.Logger

	current  strategy.Observation
	prev     strategy.Observation
	hasPrev  bool
	action   strategy.TunableFactors
	explored bool

	explorations int
	steps        int
	totalReward  float64
}

var _ strategy.Learner = (*Agent)(nil)

// Option 构造选项。
type Option func(*Agent)

// WithPolicy 替换探索策略（测试中常用 NoExploration）。
func WithPolicy(p ExplorationPolicy) Option {
	return func(a *Agent) {
		if p != nil {
			a.policy = p
		}
	}
}

// WithLogger 注入日志器。
func WithLogger(l *logger.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAgent 创建自适应组件，默认以 cfg.Seed 初始化 ε-greedy 探索。
func NewAgent(cfg Config, scfg strategy.Config, opts ...Option) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("adaptive config: %w", err)
	}
	a := &Agent{
		cfg:      cfg,
		scfg:     scfg,
		policy:   NewEpsilonGreedy(cfg.ExplorationRate, cfg.Seed),
		rewarder: NewRewarder(cfg.RewardFunction, cfg.SharpeWindow),
		memory:   NewMemory(cfg.MemorySize),
		log:      logger.NewNop(),
		action:   scfg.InitialFactors.Clamp(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// BeforeBar 记录当前观测，并决定本根 bar 使用的因子。
func (a *Agent) BeforeBar(bar strategy.Bar, state strategy.State) strategy.TunableFactors {
	a.current = strategy.Observe(bar, state, a.scfg)
	f, explored := a.policy.Explore(state.Factors)
	a.action = f
	a.explored = explored
	if explored {
		a.explorations++
		a.log.LogExplore(factorMap(state.Factors), factorMap(f))
	}
	return f
}

// AfterBar 计算奖励，有上一条观测时写入经验。
func (a *Agent) AfterBar(bar strategy.Bar, state strategy.State, d strategy.Decision) {
	reward := a.rewarder.Score(bar.Position, bar.Close, state.PositionValue, bar.Ts)
	a.steps++
	a.totalReward += reward

	if a.hasPrev {
		a.memory.Push(Experience{
			State:     a.prev,
			Action:    a.action,
			Reward:    reward,
			NextState: a.current,
		})
	}
	a.prev = a.current
	a.hasPrev = true

	metrics.UpdateAdaptiveMetrics(reward, a.memory.Len(), a.explored)
	a.log.Debug("adaptive_step",
		zap.Time("ts", bar.Ts),
		zap.String("action", d.Action.String()),
		zap.Float64("reward", reward),
		zap.Int("memory", a.memory.Len()),
	)
}

func (a *Agent) Memory() *Memory { return a.memory }

func (a *Agent) Explorations() int { return a.explorations }

func (a *Agent) Steps() int { return a.steps }

func (a *Agent) TotalReward() float64 { return a.totalReward }

// DailyRewards 日奖励账本。
func (a *Agent) DailyRewards() []float64 { return a.rewarder.Daily() }

// Factors 最近一次使用的因子。
func (a *Agent) Factors() strategy.TunableFactors { return a.action }

func factorMap(f strategy.TunableFactors) map[string]float64 {
	return map[string]float64{
		"volatility_factor": f.Volatility,
		"spread_factor":     f.Spread,
		"inventory_factor":  f.Inventory,
	}
}
