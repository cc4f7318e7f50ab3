package sim

import (
	"fmt"

	"adaptive-mm/order"
)

// Config 模拟撮合参数。
type Config struct {
	InitialCash float64                 `yaml:"initialCash"`
	Commission  float64                 `yaml:"commission"`  // 手续费率，0.001 = 0.1%
	Slippage    float64                 `yaml:"slippage"`    // 滑点率，对成交价不利方向
	MaxDrawdown float64                 `yaml:"maxDrawdown"` // 超过后拒绝加仓，0 关闭
	SingleMax   float64                 `yaml:"singleMax"`   // 单笔名义上限，0 不限制
	Constraints order.SymbolConstraints `yaml:"constraints"`
}

// DefaultConfig returns a default config.
func DefaultConfig() Config {
	return Config{
		InitialCash: 10000,
		Commission:  0.001,
	}
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("initialCash must be > 0")
	}
	if c.Commission < 0 || c.Commission >= 1 {
		return fmt.Errorf("commission must be within [0,1)")
	}
	if c.Slippage < 0 || c.Slippage >= 1 {
		return fmt.Errorf("slippage must be within [0,1)")
	}
	if c.MaxDrawdown < 0 || c.MaxDrawdown >= 1 {
		return fmt.Errorf("maxDrawdown must be within [0,1)")
	}
	if c.SingleMax < 0 {
		return fmt.Errorf("singleMax must be >= 0")
	}
	return nil
}
