package adaptive

import (
	"math/rand"

	"adaptive-mm/strategy"
)

// perturbRange 每次探索对因子的相对扰动幅度。
const perturbRange = 0.1

// ExplorationPolicy 决定是否以及如何扰动可调因子。
type ExplorationPolicy interface {
	Explore(f strategy.TunableFactors) (strategy.TunableFactors, bool)
}

// EpsilonGreedy 以概率 Rate 探索：三个因子依次乘以 1+U(-0.1,0.1)，再限制到 [0.5,1.5]。
type EpsilonGreedy struct {
	Rate float64
	Rng  *rand.Rand
}

// NewEpsilonGreedy 使用固定种子，保证可复现。
func NewEpsilonGreedy(rate float64, seed int64) *EpsilonGreedy {
	return &EpsilonGreedy{Rate: rate, Rng: rand.New(rand.NewSource(seed))}
}

func (p *EpsilonGreedy) Explore(f strategy.TunableFactors) (strategy.TunableFactors, bool) {
	if p.Rng.Float64() >= p.Rate {
		return f, false
	}
	vol := f.Volatility * p.perturbation()
	spread := f.Spread * p.perturbation()
	inv := f.Inventory * p.perturbation()
	return strategy.TunableFactors{Volatility: vol, Spread: spread, Inventory: inv}.Clamp(), true
}

func (p *EpsilonGreedy) perturbation() float64 {
	return 1 + (p.Rng.Float64()*2-1)*perturbRange
}

// NoExploration 始终沿用当前因子。
type NoExploration struct{}

func (NoExploration) Explore(f strategy.TunableFactors) (strategy.TunableFactors, bool) {
	return f, false
}
