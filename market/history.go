package market

// History keeps the trailing window of bars needed by the indicators.
type History struct {
	capacity int
	bars     []Kline
}

// NewHistory creates a window holding at most capacity bars.
func NewHistory(capacity int) *History {
	if capacity < 2 {
		capacity = 2
	}
	return &History{
		capacity: capacity,
		bars:     make([]Kline, 0, capacity),
	}
}

// Lookback returns the window needed for an ATR and a Bollinger computation.
func Lookback(atrPeriod, bbPeriod int) int {
	if atrPeriod > bbPeriod {
		return atrPeriod + 1
	}
	return bbPeriod + 1
}

// Push appends a bar, dropping the oldest once the window is full.
func (h *History) Push(k Kline) {
	h.bars = append(h.bars, k)
	if len(h.bars) > h.capacity {
		h.bars = h.bars[1:]
	}
}

func (h *History) Len() int { return len(h.bars) }

func (h *History) Capacity() int { return h.capacity }

// Last returns the newest bar.
func (h *History) Last() (Kline, bool) {
	if len(h.bars) == 0 {
		return Kline{}, false
	}
	return h.bars[len(h.bars)-1], true
}

func (h *History) Highs() []float64 {
	out := make([]float64, len(h.bars))
	for i, b := range h.bars {
		out[i] = b.High
	}
	return out
}

func (h *History) Lows() []float64 {
	out := make([]float64, len(h.bars))
	for i, b := range h.bars {
		out[i] = b.Low
	}
	return out
}

func (h *History) Closes() []float64 {
	out := make([]float64, len(h.bars))
	for i, b := range h.bars {
		out[i] = b.Close
	}
	return out
}
