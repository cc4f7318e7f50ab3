package strategy

// SpreadPolicy 根据 ATR 计算报价价差。
// 返回值 spread 为最终价差，clamped 为乘以 spread 因子之前、已限制在 [min,max] 内的价差。
// spread 因子在限幅之后作用，不再二次限幅，因此最终价差可以超出配置区间。
func SpreadPolicy(atr, close float64, cfg Config, f TunableFactors) (spread, clamped float64) {
	raw := cfg.BaseSpreadPct
	if cfg.EnableDynamicSpreads {
		volatility := 0.0
		if close > 0 {
			volatility = atr / close
		}
		raw = cfg.BaseSpreadPct * (1 + cfg.VolatilityAdjustmentFactor*volatility*f.Volatility)
	}
	clamped = clamp(raw, cfg.MinSpreadPct, cfg.MaxSpreadPct)
	return clamped * f.Spread, clamped
}
