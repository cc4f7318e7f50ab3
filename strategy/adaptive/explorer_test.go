package adaptive

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive-mm/strategy"
)

func TestEpsilonGreedy_NeverExploresAtZeroRate(t *testing.T) {
	p := NewEpsilonGreedy(0, 7)
	f := strategy.DefaultFactors()
	for i := 0; i < 1000; i++ {
		got, explored := p.Explore(f)
		require.False(t, explored)
		require.Equal(t, f, got)
	}
}

func TestEpsilonGreedy_AlwaysExploresAtFullRate(t *testing.T) {
	p := NewEpsilonGreedy(1, 7)
	f := strategy.DefaultFactors()
	for i := 0; i < 1000; i++ {
		next, explored := p.Explore(f)
		require.True(t, explored)
		for _, pair := range [][2]float64{
			{f.Volatility, next.Volatility},
			{f.Spread, next.Spread},
			{f.Inventory, next.Inventory},
		} {
			// 单步扰动不超过 ±10%，且结果在 [0.5,1.5]
			require.GreaterOrEqual(t, pair[1], pair[0]*0.9-1e-12)
			require.LessOrEqual(t, pair[1], pair[0]*1.1+1e-12)
		}
		require.True(t, next.InBounds())
		f = next
	}
}

func TestEpsilonGreedy_MatchesDrawOrder(t *testing.T) {
	const seed = 42
	ref := rand.New(rand.NewSource(seed))
	gate := ref.Float64()
	u1, u2, u3 := ref.Float64(), ref.Float64(), ref.Float64()

	p := NewEpsilonGreedy(gate+1e-9, seed)
	f := strategy.TunableFactors{Volatility: 1, Spread: 1.2, Inventory: 0.8}
	got, explored := p.Explore(f)
	require.True(t, explored)

	want := strategy.TunableFactors{
		Volatility: 1 * (1 + (u1*2-1)*0.1),
		Spread:     1.2 * (1 + (u2*2-1)*0.1),
		Inventory:  0.8 * (1 + (u3*2-1)*0.1),
	}.Clamp()
	assert.Equal(t, want, got)
}

func TestEpsilonGreedy_ClampsAtBounds(t *testing.T) {
	p := NewEpsilonGreedy(1, 3)
	for i := 0; i < 200; i++ {
		got, _ := p.Explore(strategy.TunableFactors{Volatility: 1.5, Spread: 0.5, Inventory: 1.5})
		require.LessOrEqual(t, got.Volatility, 1.5)
		require.GreaterOrEqual(t, got.Spread, 0.5)
		require.LessOrEqual(t, got.Inventory, 1.5)
	}
}

func TestEpsilonGreedy_SeedReproducible(t *testing.T) {
	a := NewEpsilonGreedy(0.3, 99)
	b := NewEpsilonGreedy(0.3, 99)
	fa, fb := strategy.DefaultFactors(), strategy.DefaultFactors()
	for i := 0; i < 500; i++ {
		var ea, eb bool
		fa, ea = a.Explore(fa)
		fb, eb = b.Explore(fb)
		require.Equal(t, ea, eb)
		require.Equal(t, fa, fb)
	}
}

func TestNoExploration(t *testing.T) {
	f := strategy.TunableFactors{Volatility: 0.7, Spread: 1.1, Inventory: 1.3}
	got, explored := NoExploration{}.Explore(f)
	assert.False(t, explored)
	assert.Equal(t, f, got)
}
