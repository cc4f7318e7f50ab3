package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive-mm/strategy"
)

func exp(i int) Experience {
	return Experience{Reward: float64(i), State: strategy.Observation{Price: float64(i)}}
}

func TestMemory_EvictsOldestAtCapacity(t *testing.T) {
	m := NewMemory(1000)
	for i := 0; i < 1001; i++ {
		m.Push(exp(i))
	}
	require.Equal(t, 1000, m.Len())

	entries := m.Entries()
	require.Len(t, entries, 1000)
	assert.Equal(t, 1.0, entries[0].Reward, "first entry must be evicted")
	assert.Equal(t, 1000.0, entries[999].Reward)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, 1000.0, last.Reward)
}

func TestMemory_NeverExceedsCapacity(t *testing.T) {
	m := NewMemory(5)
	for i := 0; i < 23; i++ {
		m.Push(exp(i))
		require.LessOrEqual(t, m.Len(), 5)
	}
	got := make([]float64, 0, 5)
	for _, e := range m.Entries() {
		got = append(got, e.Reward)
	}
	assert.Equal(t, []float64{18, 19, 20, 21, 22}, got)
}

func TestMemory_Empty(t *testing.T) {
	m := NewMemory(3)
	_, ok := m.Last()
	assert.False(t, ok)
	assert.Empty(t, m.Entries())
	assert.Equal(t, 3, m.Cap())
	assert.Equal(t, 1, NewMemory(0).Cap())
}
