package strategy

// Observation 自适应模块记录的状态向量。
type Observation struct {
	Price          float64 `json:"price"`
	Volatility     float64 `json:"volatility"`
	BBWidth        float64 `json:"bb_width"`
	InventoryRatio float64 `json:"inventory_ratio"`
	Spread         float64 `json:"spread"`
	CapitalRatio   float64 `json:"capital_ratio"`
}

// Observe 以 bar 行情与当前（上一根 bar 结束时的）状态构造观测。
func Observe(bar Bar, state State, cfg Config) Observation {
	obs := Observation{
		Price:          bar.Close,
		BBWidth:        bar.BBWidth,
		InventoryRatio: state.InventoryRatio,
		Spread:         state.CurrentSpread,
	}
	if bar.Close > 0 {
		obs.Volatility = bar.ATR / bar.Close
	}
	if cfg.MaxCapital > 0 {
		obs.CapitalRatio = state.AvailableCapital / cfg.MaxCapital
	}
	return obs
}
