package adaptive

import "fmt"

// RewardFunction 奖励函数名称。
type RewardFunction string

const (
	RewardProfit       RewardFunction = "profit"
	RewardRiskAdjusted RewardFunction = "risk_adjusted"
	RewardSharpe       RewardFunction = "sharpe_ratio"
)

// Valid 是否为已知的奖励函数。
func (r RewardFunction) Valid() bool {
	switch r {
	case RewardProfit, RewardRiskAdjusted, RewardSharpe:
		return true
	}
	return false
}

// Config 自适应探索参数。
type Config struct {
	ExplorationRate float64        `yaml:"explorationRate"`
	LearningRate    float64        `yaml:"learningRate"` // 仅保留配置，当前不参与计算
	RewardFunction  RewardFunction `yaml:"rewardFunction"`
	MemorySize      int            `yaml:"memorySize"`
	SharpeWindow    int            `yaml:"sharpeWindow"`
	Seed            int64          `yaml:"seed"`
}

// DefaultConfig returns a default config.
func DefaultConfig() Config {
	return Config{
		ExplorationRate: 0.1,
		LearningRate:    0.01,
		RewardFunction:  RewardSharpe,
		MemorySize:      1000,
		SharpeWindow:    20,
		Seed:            1,
	}
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return fmt.Errorf("explorationRate must be within [0,1], got %.4f", c.ExplorationRate)
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("learningRate must be >= 0")
	}
	if !c.RewardFunction.Valid() {
		return fmt.Errorf("unknown rewardFunction %q", c.RewardFunction)
	}
	if c.MemorySize <= 0 {
		return fmt.Errorf("memorySize must be > 0")
	}
	if c.SharpeWindow <= 1 {
		return fmt.Errorf("sharpeWindow must be > 1")
	}
	return nil
}
