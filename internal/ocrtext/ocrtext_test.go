package ocrtext

import (
	"testing"

	"hhnorm/internal/hand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "SB All-in 12 BB", Clean("  SB   all in 12 8B "))
	assert.Equal(t, "BTN Raise 3 BB", Clean("ＢＴＮ Raise 3 BB"))
	assert.Equal(t, "UTG All-in 5 BB", Clean("UTG All–in 5 BB"))
}

func TestParseStreetsAndSeats(t *testing.T) {
	recs := Parse([]Line{
		{Text: "UTG Raise 2.5 BB", Conf: 91},
		{Text: "BB Call 1.5 8B", Conf: 88},
		{Text: "Flop:", Conf: 95},
		{Text: "BB Check", Conf: 90},
		{Text: "MP Fold", Conf: 80},
		{Text: "Turn UTG Bet 4 BB", Conf: 70},
		{Text: "Total pot 12", Conf: 50},
		{Text: "   ", Conf: 10},
	})
	require.Len(t, recs, 6)

	assert.Equal(t, hand.Preflop, recs[0].Street)
	assert.Equal(t, "UTG", recs[0].Seat)
	assert.Equal(t, hand.MoveRaise, recs[0].Move.Kind)
	assert.Equal(t, 2.5, *recs[0].Size)

	assert.Equal(t, hand.MoveCall, recs[1].Move.Kind)
	assert.Equal(t, 1.5, *recs[1].Size)

	assert.Equal(t, hand.Flop, recs[2].Street)
	assert.Equal(t, hand.MoveCheck, recs[2].Move.Kind)
	assert.Nil(t, recs[2].Size)

	assert.Equal(t, "MP", recs[3].Seat)
	assert.Equal(t, hand.Turn, recs[4].Street)
	assert.Equal(t, "UTG Bet 4 BB", recs[4].Raw)
	assert.False(t, recs[5].Matched)
}

func TestActionsFiltersAndGroups(t *testing.T) {
	recs := Parse([]Line{
		{Text: "Flop", Conf: 90},
		{Text: "BB Bet 3 BB", Conf: 90},
		{Text: "Preflop", Conf: 90},
		{Text: "CO Raise 2 BB", Conf: 40},
		{Text: "SB Fold", Conf: 90},
		{Text: "EP Fold", Conf: 90},
		{Text: "Call 2 BB", Conf: 90},
	})
	acts := Actions(recs, 0)
	require.Len(t, acts, 3)
	assert.Equal(t, hand.CO, acts[0].Pos)
	assert.Equal(t, hand.SB, acts[1].Pos)
	assert.Equal(t, hand.Flop, acts[2].Street)

	acts = Actions(recs, 60)
	require.Len(t, acts, 2)
	assert.Equal(t, hand.SB, acts[0].Pos)
}

func TestCandidate(t *testing.T) {
	text, c := Candidate([]Line{{Text: "BTN: Stack 40"}, {Text: "BTN All in 40 BB"}}, 0)
	assert.Equal(t, "BTN: Stack 40\nBTN All-in 40 BB", text)
	require.Len(t, c.Actions, 1)
	assert.Equal(t, hand.MoveAllIn, c.Actions[0].Move.Kind)
	assert.Equal(t, 40.0, *c.Actions[0].Size)
}
