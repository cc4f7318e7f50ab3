package market

import (
	"sync"
	"time"
)

// KlineAggregator 把细粒度 Kline 合并成固定周期的 Kline，桶按 Interval 截断对齐。
type KlineAggregator struct {
	Interval time.Duration
	mu       sync.Mutex
	current  *Kline
}

func NewKlineAggregator(interval time.Duration) *KlineAggregator {
	return &KlineAggregator{Interval: interval}
}

// OnKline 合并一根 bar；进入新周期时返回已闭合的 Kline，否则 nil。
func (a *KlineAggregator) OnKline(k Kline) *Kline {
	a.mu.Lock()
	defer a.mu.Unlock()
	bucket := k.Ts.Truncate(a.Interval)
	if a.current == nil || !bucket.Equal(a.current.Ts) {
		closed := a.current
		a.current = &Kline{
			Open:   k.Open,
			High:   k.High,
			Low:    k.Low,
			Close:  k.Close,
			Volume: k.Volume,
			Ts:     bucket,
		}
		return closed
	}
	if k.High > a.current.High {
		a.current.High = k.High
	}
	if k.Low < a.current.Low {
		a.current.Low = k.Low
	}
	a.current.Close = k.Close
	a.current.Volume += k.Volume
	return nil
}

// Flush 返回尚未闭合的 Kline 并清空。
func (a *KlineAggregator) Flush() *Kline {
	a.mu.Lock()
	defer a.mu.Unlock()
	k := a.current
	a.current = nil
	return k
}

// Resample 将按时间排序的 bars 重采样到 interval；interval<=0 原样返回。
func Resample(bars []Kline, interval time.Duration) []Kline {
	if interval <= 0 || len(bars) == 0 {
		return bars
	}
	agg := NewKlineAggregator(interval)
	out := make([]Kline, 0, len(bars))
	for _, k := range bars {
		if !k.Valid() {
			continue
		}
		if closed := agg.OnKline(k); closed != nil {
			out = append(out, *closed)
		}
	}
	if last := agg.Flush(); last != nil {
		out = append(out, *last)
	}
	return out
}
