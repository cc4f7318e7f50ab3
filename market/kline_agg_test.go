package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKlineAggregator(t *testing.T) {
	agg := NewKlineAggregator(time.Hour)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if closed := agg.OnKline(Kline{Open: 100, High: 101, Low: 99.5, Close: 100.5, Volume: 1, Ts: ts}); closed != nil {
		t.Fatalf("should not close on first bar")
	}
	agg.OnKline(Kline{Open: 100.5, High: 102, Low: 100, Close: 101, Volume: 2, Ts: ts.Add(20 * time.Minute)})
	agg.OnKline(Kline{Open: 101, High: 101.5, Low: 99, Close: 100, Volume: 3, Ts: ts.Add(40 * time.Minute)})
	closed := agg.OnKline(Kline{Open: 100, High: 100, Low: 100, Close: 100, Volume: 1, Ts: ts.Add(70 * time.Minute)})
	if closed == nil {
		t.Fatalf("expected kline close")
	}
	if closed.Open != 100 || closed.High != 102 || closed.Low != 99 || closed.Close != 100 || closed.Volume != 6 {
		t.Fatalf("unexpected kline %+v", closed)
	}
	assert.True(t, closed.Ts.Equal(ts))

	last := agg.Flush()
	require.NotNil(t, last)
	assert.True(t, last.Ts.Equal(ts.Add(time.Hour)))
	assert.Nil(t, agg.Flush())
}

func TestResample(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []Kline
	for i := 0; i < 10; i++ {
		p := 100 + float64(i)
		bars = append(bars, Kline{Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, Volume: 1, Ts: ts.Add(time.Duration(i) * 15 * time.Minute)})
	}
	// 无效 bar 被丢弃
	bars = append(bars[:3], append([]Kline{{Ts: ts.Add(50 * time.Minute)}}, bars[3:]...)...)

	out := Resample(bars, time.Hour)
	require.Len(t, out, 3)
	assert.Equal(t, 100.0, out[0].Open)
	assert.Equal(t, 104.0, out[0].High)
	assert.Equal(t, 103.5, out[0].Close)
	assert.Equal(t, 4.0, out[0].Volume)
	assert.Equal(t, 2.0, out[2].Volume)

	assert.Equal(t, bars, Resample(bars, 0))
}
