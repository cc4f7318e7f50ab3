package strategy

const (
	FactorMin = 0.5
	FactorMax = 1.5
)

// TunableFactors 是自适应探索唯一会修改的三个乘数。
type TunableFactors struct {
	Volatility float64 `yaml:"volatility" json:"volatility_factor"`
	Spread     float64 `yaml:"spread" json:"spread_factor"`
	Inventory  float64 `yaml:"inventory" json:"inventory_factor"`
}

// DefaultFactors 返回中性因子 (1,1,1)。
func DefaultFactors() TunableFactors {
	return TunableFactors{Volatility: 1, Spread: 1, Inventory: 1}
}

// Clamp 将每个因子限制在 [0.5, 1.5]。
func (f TunableFactors) Clamp() TunableFactors {
	return TunableFactors{
		Volatility: clamp(f.Volatility, FactorMin, FactorMax),
		Spread:     clamp(f.Spread, FactorMin, FactorMax),
		Inventory:  clamp(f.Inventory, FactorMin, FactorMax),
	}
}

func (f TunableFactors) InBounds() bool {
	return f == f.Clamp()
}

// Level 是梯度上的一档报价。
type Level struct {
	Price float64
	Size  float64
}

// State 由单个策略实例独占，每根 bar 更新一次。
type State struct {
	Inventory        float64 // 带符号净仓位
	AvailableCapital float64
	PositionValue    float64 // 带符号，空头为负
	InventoryRatio   float64 // [0,100]
	CurrentSpread    float64
	BidLevels        []Level
	AskLevels        []Level
	Factors          TunableFactors
}

// NewState 以满仓资金、零库存初始化。
func NewState(cfg Config) State {
	return State{
		AvailableCapital: cfg.MaxCapital,
		Factors:          cfg.InitialFactors.Clamp(),
	}
}

// Clone 深拷贝，梯度切片不共享。
func (s State) Clone() State {
	out := s
	out.BidLevels = append([]Level(nil), s.BidLevels...)
	out.AskLevels = append([]Level(nil), s.AskLevels...)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
