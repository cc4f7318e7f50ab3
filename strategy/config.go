package strategy

import (
	"fmt"

	"adaptive-mm/market"
	"adaptive-mm/risk"
)

// Config 是单次回测内不可变的做市参数。价差均为小数（0.15 即 15%）。
type Config struct {
	BaseSpreadPct              float64        `yaml:"baseSpreadPct"`
	OrderLevels                int            `yaml:"orderLevels"`
	OrderAmount                float64        `yaml:"orderAmount"`
	MaxCapital                 float64        `yaml:"maxCapital"`
	Leverage                   float64        `yaml:"leverage"`
	InventoryTargetPct         float64        `yaml:"inventoryTargetPct"`
	MinSpreadPct               float64        `yaml:"minSpreadPct"`
	MaxSpreadPct               float64        `yaml:"maxSpreadPct"`
	VolatilityAdjustmentFactor float64        `yaml:"volatilityAdjustmentFactor"`
	StopLossThreshold          float64        `yaml:"stopLossThreshold"`
	TakeProfitThreshold        float64        `yaml:"takeProfitThreshold"`
	EnableDynamicSpreads       bool           `yaml:"enableDynamicSpreads"`
	EnableInventorySkew        bool           `yaml:"enableInventorySkew"`
	ATRPeriod                  int            `yaml:"atrPeriod"`
	BBPeriod                   int            `yaml:"bbPeriod"`
	BBStdDev                   float64        `yaml:"bbStdDev"`
	InitialFactors             TunableFactors `yaml:"initialFactors"`
}

// DefaultConfig returns a default config.
func DefaultConfig() Config {
	return Config{
		BaseSpreadPct:              0.15,
		OrderLevels:                3,
		OrderAmount:                0.1,
		MaxCapital:                 10000,
		Leverage:                   20,
		InventoryTargetPct:         50,
		MinSpreadPct:               0.05,
		MaxSpreadPct:               2.0,
		VolatilityAdjustmentFactor: 50,
		StopLossThreshold:          0.006,
		TakeProfitThreshold:        0.005,
		EnableDynamicSpreads:       true,
		EnableInventorySkew:        true,
		ATRPeriod:                  14,
		BBPeriod:                   20,
		BBStdDev:                   2.0,
		InitialFactors:             DefaultFactors(),
	}
}

// Validate checks if the Config is valid.
func (c Config) Validate() error {
	if c.BaseSpreadPct <= 0 {
		return fmt.Errorf("baseSpreadPct must be > 0")
	}
	if c.MinSpreadPct < 0 || c.MaxSpreadPct <= 0 || c.MinSpreadPct > c.MaxSpreadPct {
		return fmt.Errorf("invalid spread bounds: min=%.4f max=%.4f", c.MinSpreadPct, c.MaxSpreadPct)
	}
	if c.OrderLevels <= 0 {
		return fmt.Errorf("orderLevels must be > 0")
	}
	if c.OrderAmount <= 0 {
		return fmt.Errorf("orderAmount must be > 0")
	}
	if c.MaxCapital <= 0 {
		return fmt.Errorf("maxCapital must be > 0")
	}
	if c.Leverage <= 0 {
		return fmt.Errorf("leverage must be > 0")
	}
	if c.InventoryTargetPct < 0 || c.InventoryTargetPct > 100 {
		return fmt.Errorf("inventoryTargetPct must be within [0,100]")
	}
	if c.VolatilityAdjustmentFactor < 0 {
		return fmt.Errorf("volatilityAdjustmentFactor must be >= 0")
	}
	if c.StopLossThreshold < 0 || c.TakeProfitThreshold < 0 {
		return fmt.Errorf("stop loss / take profit thresholds must be >= 0")
	}
	if c.ATRPeriod <= 0 || c.BBPeriod <= 1 {
		return fmt.Errorf("invalid indicator periods: atr=%d bb=%d", c.ATRPeriod, c.BBPeriod)
	}
	if c.BBStdDev <= 0 {
		return fmt.Errorf("bbStdDev must be > 0")
	}
	if !c.InitialFactors.InBounds() {
		return fmt.Errorf("initialFactors must be within [%.1f,%.1f]", FactorMin, FactorMax)
	}
	return nil
}

// Thresholds 转换为风控阈值。
func (c Config) Thresholds() risk.Thresholds {
	return risk.Thresholds{StopLoss: c.StopLossThreshold, TakeProfit: c.TakeProfitThreshold}
}

// Lookback 指标所需的最短历史长度。
func (c Config) Lookback() int {
	return market.Lookback(c.ATRPeriod, c.BBPeriod)
}
