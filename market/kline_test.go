package market

import (
	"testing"
	"time"
)

func TestKlineValid(t *testing.T) {
	tests := []struct {
		name string
		k    Kline
		want bool
	}{
		{"normal bar", Kline{Open: 1, High: 2, Low: 0.5, Close: 1.5, Ts: time.Unix(0, 0)}, true},
		{"zero close", Kline{Open: 1, High: 2, Low: 0.5, Close: 0}, false},
		{"inverted range", Kline{Open: 1, High: 0.5, Low: 2, Close: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.k.Valid(); got != tt.want {
				t.Fatalf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
