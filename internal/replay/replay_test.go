package replay

import (
	"testing"

	"hhnorm/internal/hand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHand() hand.ParsedHand {
	h := hand.ParsedHand{Players: hand.NewTable(), BlindsApplied: true}
	for i := range h.Players {
		h.Players[i].Stack = 100
	}
	h.Actions = []hand.Action{
		{Street: hand.Preflop, Pos: hand.SB, Move: hand.NewMove(hand.MovePost), Size: hand.Size(0.5)},
		{Street: hand.Preflop, Pos: hand.BB, Move: hand.NewMove(hand.MovePost), Size: hand.Size(1)},
		{Street: hand.Preflop, Pos: hand.UTG, Move: hand.ParseMove("raises"), Size: hand.Size(2.5)},
		{Street: hand.Preflop, Pos: hand.HJ, Move: hand.ParseMove("folds")},
		{Street: hand.Preflop, Pos: hand.BB, Move: hand.ParseMove("calls"), Size: hand.Size(1.5)},
		{Street: hand.Flop, Pos: hand.BB, Move: hand.ParseMove("checks")},
		{Street: hand.Flop, Pos: hand.UTG, Move: hand.ParseMove("bets"), Size: hand.Size(0.1)},
		{Street: hand.Flop, Pos: hand.BB, Move: hand.ParseMove("wins"), Size: hand.Size(5.6)},
	}
	return h
}

func TestStartFrameAppliesForcedBets(t *testing.T) {
	f := At(sampleHand(), -1)
	assert.Equal(t, -1, f.Step)
	assert.Equal(t, "Start", f.Label)
	assert.Equal(t, 1.5, f.Pot)
	assert.Equal(t, 99.5, f.Stacks[hand.SB])
	assert.Equal(t, 99.0, f.Stacks[hand.BB])
	assert.Equal(t, 100.0, f.Stacks[hand.UTG])
}

func TestFrames(t *testing.T) {
	frames := Frames(sampleHand())
	require.Len(t, frames, 9)

	assert.Equal(t, 4.0, frames[3].Pot)
	assert.Equal(t, 97.5, frames[3].Stacks[hand.UTG])
	assert.Equal(t, "Preflop - UTG: raises 2.5 BB", frames[3].Label)
	assert.Equal(t, "Preflop - HJ: folds", frames[4].Label)

	last := frames[len(frames)-1]
	// wins 不进入底池
	assert.Equal(t, 5.6, last.Pot)
	assert.Equal(t, 97.5, last.Stacks[hand.BB])
	assert.Equal(t, 97.4, last.Stacks[hand.UTG])
}

func TestAtClampsAndFloors(t *testing.T) {
	h := hand.ParsedHand{Players: hand.NewTable()}
	h.Players[0].Stack = 3
	h.Actions = []hand.Action{
		{Street: hand.Preflop, Pos: hand.UTG, Move: hand.ParseMove("all-in"), Size: hand.Size(5)},
		{Street: hand.Preflop, Pos: hand.HJ, Move: hand.ParseMove("ante"), Size: hand.Size(0.2)},
		{Street: hand.Preflop, Pos: "MP", Move: hand.ParseMove("calls"), Size: hand.Size(5)},
	}
	f := At(h, 10)
	assert.Equal(t, 2, f.Step)
	assert.Equal(t, 0.0, f.Stacks[hand.UTG])
	assert.Equal(t, 10.2, f.Pot)

	start := At(h, -1)
	assert.Equal(t, 0.2, start.Pot)
}

func TestFormatBB(t *testing.T) {
	assert.Equal(t, "2.5", FormatBB(2.5))
	assert.Equal(t, "3", FormatBB(3))
	assert.Equal(t, "0.3", FormatBB(0.1+0.2))
	assert.Equal(t, "0", FormatBB(0))
}
