package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive-mm/infrastructure/logger"
	"adaptive-mm/inventory"
)

type fakeLearner struct {
	factors TunableFactors
	before  int
	after   []Decision
	seen    []State
}

func (f *fakeLearner) BeforeBar(_ Bar, state State) TunableFactors {
	f.before++
	f.seen = append(f.seen, state)
	return f.factors
}

func (f *fakeLearner) AfterBar(_ Bar, _ State, d Decision) {
	f.after = append(f.after, d)
}

type submission struct {
	side        string
	price, size float64
}

type fakeBroker struct {
	subs    []submission
	closed  int
	failBuy bool
}

func (b *fakeBroker) Position() inventory.Position { return inventory.Position{} }
func (b *fakeBroker) Equity() float64              { return 10000 }

func (b *fakeBroker) SubmitBuy(price, size float64) error {
	if b.failBuy {
		return errors.New("rejected")
	}
	b.subs = append(b.subs, submission{"BUY", price, size})
	return nil
}

func (b *fakeBroker) SubmitSell(price, size float64) error {
	b.subs = append(b.subs, submission{"SELL", price, size})
	return nil
}

func (b *fakeBroker) ClosePosition() error {
	b.closed++
	return nil
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSpreadPct = 5
	_, err := New(cfg)
	require.Error(t, err)
}

func TestOnBar_LearnerFactorsApplied(t *testing.T) {
	learner := &fakeLearner{factors: TunableFactors{Volatility: 1, Spread: 1.4, Inventory: 1}}
	s, err := New(staticConfig(), WithLearner(learner), WithLogger(logger.NewNop()))
	require.NoError(t, err)
	assert.True(t, s.Adaptive())

	d := s.OnBar(neutralBar())
	require.Equal(t, ActionQuote, d.Action)
	assert.InDelta(t, 0.15*1.4, d.Spread, 1e-12)
	assert.Equal(t, 1, learner.before)
	require.Len(t, learner.after, 1)
	assert.Equal(t, d.Action, learner.after[0].Action)
	assert.Equal(t, learner.factors, s.State().Factors)
}

func TestOnBar_LearnerFactorsClamped(t *testing.T) {
	learner := &fakeLearner{factors: TunableFactors{Volatility: 3, Spread: 0.1, Inventory: 1}}
	s, err := New(staticConfig(), WithLearner(learner))
	require.NoError(t, err)

	s.OnBar(neutralBar())
	assert.Equal(t, TunableFactors{Volatility: 1.5, Spread: 0.5, Inventory: 1}, s.State().Factors)
}

func TestOnBar_WarmupBypassesLearner(t *testing.T) {
	learner := &fakeLearner{factors: DefaultFactors()}
	s, err := New(staticConfig(), WithLearner(learner))
	require.NoError(t, err)

	bar := neutralBar()
	bar.ATR = math.NaN()
	d := s.OnBar(bar)
	assert.Equal(t, ActionSkip, d.Action)
	assert.Zero(t, learner.before)
	assert.Empty(t, learner.after)
}

func TestOnBar_LearnerSeesPreviousState(t *testing.T) {
	learner := &fakeLearner{factors: DefaultFactors()}
	s, err := New(staticConfig(), WithLearner(learner))
	require.NoError(t, err)

	s.OnBar(neutralBar())
	s.OnBar(neutralBar())
	require.Len(t, learner.seen, 2)
	assert.Zero(t, learner.seen[0].CurrentSpread)
	assert.InDelta(t, 0.15, learner.seen[1].CurrentSpread, 1e-12)
}

func TestExecute_Quote(t *testing.T) {
	b := &fakeBroker{}
	d := Decision{
		Action: ActionQuote,
		Bids:   []Level{{85, 0.1}, {77.5, 0}},
		Asks:   []Level{{115, 0.1}, {122.5, 0.05}},
	}
	require.NoError(t, Execute(d, b))
	require.Len(t, b.subs, 3)
	assert.Equal(t, submission{"BUY", 85, 0.1}, b.subs[0])
	assert.Equal(t, submission{"SELL", 115, 0.1}, b.subs[1])
	assert.Equal(t, submission{"SELL", 122.5, 0.05}, b.subs[2])
	assert.Zero(t, b.closed)
}

func TestExecute_CloseAndSkip(t *testing.T) {
	b := &fakeBroker{}
	require.NoError(t, Execute(Decision{Action: ActionClose}, b))
	assert.Equal(t, 1, b.closed)

	require.NoError(t, Execute(Decision{Action: ActionSkip, Bids: []Level{{1, 1}}}, b))
	assert.Empty(t, b.subs)
}

func TestExecute_ErrorsJoined(t *testing.T) {
	b := &fakeBroker{failBuy: true}
	d := Decision{
		Action: ActionQuote,
		Bids:   []Level{{85, 0.1}, {77.5, 0.05}},
		Asks:   []Level{{115, 0.1}},
	}
	err := Execute(d, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
	assert.Len(t, b.subs, 1)
}
