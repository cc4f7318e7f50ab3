package market

import "math"

// ATR returns the simple rolling mean of the true range over period, aligned to
// the input. The first bar's true range is high-low. Indices before the window
// fills are NaN.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSeries(n)
	if period <= 0 || len(highs) != n || len(lows) != n {
		return out
	}
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		r := highs[i] - lows[i]
		if i > 0 {
			r = math.Max(r, math.Abs(highs[i]-closes[i-1]))
			r = math.Max(r, math.Abs(lows[i]-closes[i-1]))
		}
		tr[i] = r
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += tr[i]
		if i >= period {
			sum -= tr[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// Bands holds Bollinger band series aligned to the input closes.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64
}

// Bollinger computes middle = rolling mean, band = k * rolling sample std,
// width = (upper-lower)/middle. Indices before the window fills are NaN.
func Bollinger(closes []float64, period int, k float64) Bands {
	n := len(closes)
	b := Bands{
		Upper:  nanSeries(n),
		Middle: nanSeries(n),
		Lower:  nanSeries(n),
		Width:  nanSeries(n),
	}
	if period < 2 {
		return b
	}
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		mean := 0.0
		for _, c := range window {
			mean += c
		}
		mean /= float64(period)
		ss := 0.0
		for _, c := range window {
			d := c - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(period-1))
		b.Middle[i] = mean
		b.Upper[i] = mean + k*std
		b.Lower[i] = mean - k*std
		if mean != 0 {
			b.Width[i] = (b.Upper[i] - b.Lower[i]) / mean
		}
	}
	return b
}

// Indicators are the latest indicator values over a history window.
type Indicators struct {
	ATR     float64
	BBUpper float64
	BBLower float64
	BBWidth float64
}

// Ready reports whether every indicator has left its warm-up period.
func (i Indicators) Ready() bool {
	return !math.IsNaN(i.ATR) && !math.IsNaN(i.BBWidth)
}

// Snapshot computes the latest ATR and Bollinger values over h.
func Snapshot(h *History, atrPeriod, bbPeriod int, k float64) Indicators {
	ind := Indicators{ATR: math.NaN(), BBUpper: math.NaN(), BBLower: math.NaN(), BBWidth: math.NaN()}
	if h == nil || h.Len() == 0 {
		return ind
	}
	closes := h.Closes()
	last := len(closes) - 1
	ind.ATR = ATR(h.Highs(), h.Lows(), closes, atrPeriod)[last]
	bands := Bollinger(closes, bbPeriod, k)
	ind.BBUpper = bands.Upper[last]
	ind.BBLower = bands.Lower[last]
	ind.BBWidth = bands.Width[last]
	return ind
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
