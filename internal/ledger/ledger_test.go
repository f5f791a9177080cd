package ledger

import (
	"testing"

	"hhnorm/internal/hand"

	"github.com/stretchr/testify/assert"
)

func act(street hand.Street, pos hand.Position, move string, size *float64) hand.Action {
	return hand.Action{Street: street, Pos: pos, Move: hand.ParseMove(move), Size: size}
}

func TestBetThenCall(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Preflop, hand.UTG, "bets", hand.Size(5)),
		act(hand.Preflop, hand.BB, "calls", nil),
	})
	assert.Equal(t, 5.0, l.Spent[hand.UTG])
	assert.Equal(t, 5.0, l.Spent[hand.BB])
	assert.Empty(t, l.AllIn)
	assert.Empty(t, l.Short)
}

func TestShortCall(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Preflop, hand.UTG, "bets", hand.Size(10)),
		act(hand.Preflop, hand.BB, "calls", hand.Size(4)),
	})
	assert.Equal(t, 4.0, l.Spent[hand.BB])
	assert.True(t, l.Short[hand.BB])
	assert.False(t, l.Short[hand.UTG])
}

func TestAllIn(t *testing.T) {
	l := Compute([]hand.Action{act(hand.Preflop, hand.UTG, "all-in", hand.Size(15))})
	assert.Equal(t, 15.0, l.Spent[hand.UTG])
	assert.True(t, l.AllIn[hand.UTG])

	l = Compute([]hand.Action{act(hand.Preflop, hand.UTG, "all-in", nil)})
	assert.Equal(t, 0.0, l.Spent[hand.UTG])
	assert.False(t, l.AllIn[hand.UTG])
}

func TestRaiseIsStreetTotal(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Preflop, hand.SB, "post", hand.Size(0.5)),
		act(hand.Preflop, hand.BB, "post", hand.Size(1)),
		act(hand.Preflop, hand.CO, "raises", hand.Size(3)),
		act(hand.Preflop, hand.BB, "raises", hand.Size(10)),
		act(hand.Preflop, hand.CO, "calls", nil),
		act(hand.Flop, hand.BB, "bets", hand.Size(6)),
		act(hand.Flop, hand.CO, "raises", hand.Size(18)),
		act(hand.Flop, hand.BB, "folds", nil),
	})
	assert.Equal(t, 0.5, l.Spent[hand.SB])
	assert.Equal(t, 16.0, l.Spent[hand.BB])
	assert.Equal(t, 28.0, l.Spent[hand.CO])
}

func TestRaiseBelowPutAddsNothing(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Preflop, hand.UTG, "bets", hand.Size(5)),
		act(hand.Preflop, hand.UTG, "raises", hand.Size(3)),
	})
	assert.Equal(t, 5.0, l.Spent[hand.UTG])
}

func TestStreetResetAndPassiveEntries(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Preflop, hand.BTN, "bets", hand.Size(3)),
		act(hand.Flop, hand.HJ, "checks", nil),
		act(hand.Flop, hand.BTN, "calls", nil),
		act(hand.Flop, hand.SB, "", nil),
	})
	// the flop opened with no bet, so the call owes nothing
	assert.Equal(t, 3.0, l.Spent[hand.BTN])
	assert.Equal(t, []hand.Position{hand.HJ, hand.BTN, hand.SB}, l.Acted())
	assert.Equal(t, 0.0, l.Spent[hand.HJ])
}

func TestCallWithinEpsilonIsNotShort(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Turn, hand.UTG, "bets", hand.Size(2.0000005)),
		act(hand.Turn, hand.BB, "calls", hand.Size(2)),
	})
	assert.False(t, l.Short[hand.BB])
}

func TestUnknownSizedMoveCounts(t *testing.T) {
	l := Compute([]hand.Action{act(hand.Preflop, hand.BTN, "straddle", hand.Size(2))})
	assert.Equal(t, 2.0, l.Spent[hand.BTN])
}

func TestOversizedCallIsFullCall(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.River, hand.CO, "bets", hand.Size(8)),
		act(hand.River, hand.BTN, "calls", hand.Size(20)),
	})
	assert.Equal(t, 8.0, l.Spent[hand.BTN])
	assert.False(t, l.Short[hand.BTN])
	assert.Equal(t, 8.0, l.MaxPut)
}

func TestRepeatedBetKeepsStreetMax(t *testing.T) {
	l := Compute([]hand.Action{
		act(hand.Preflop, hand.UTG, "bets", hand.Size(5)),
		act(hand.Preflop, hand.UTG, "bets", hand.Size(3)),
		act(hand.Preflop, hand.BB, "calls", nil),
	})
	assert.Equal(t, 8.0, l.Spent[hand.UTG])
	assert.Equal(t, 5.0, l.PutThisStreet[hand.UTG])
	assert.Equal(t, 5.0, l.Spent[hand.BB])
}

func TestLimpCallUsesSize(t *testing.T) {
	l := Compute([]hand.Action{act(hand.Preflop, hand.UTG, "calls", hand.Size(1))})
	assert.Equal(t, 1.0, l.Spent[hand.UTG])
}
