package market

import "time"

// Kline represents one OHLC bar.
type Kline struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Ts     time.Time
}

// Valid reports whether the bar carries usable prices.
func (k Kline) Valid() bool {
	return k.Close > 0 && k.High >= k.Low && k.Low > 0
}
