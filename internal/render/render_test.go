package render

import (
	"testing"

	"hhnorm/internal/hand"
	"hhnorm/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHand() hand.ParsedHand {
	h := hand.ParsedHand{Players: hand.NewTable(), BlindsApplied: true}
	for i := range h.Players {
		h.Players[i].Stack = 100
	}
	h.Players.Set(hand.Player{Pos: hand.BTN, Stack: 42.5, Name: "Hero", Hole: []string{"Ah", "Kd"}})
	h.Players.Set(hand.Player{Pos: hand.BB, Stack: 80, Name: "Villain"})
	h.Board = &hand.Board{Flop: []string{"2c", "7d", "Js"}, Turn: "Qh"}
	h.Actions = []hand.Action{
		{Street: hand.Preflop, Pos: hand.SB, Move: hand.NewMove(hand.MovePost), Size: hand.Size(0.5)},
		{Street: hand.Preflop, Pos: hand.BB, Move: hand.NewMove(hand.MovePost), Size: hand.Size(1)},
		{Street: hand.Preflop, Pos: hand.BTN, Move: hand.ParseMove("raises"), Size: hand.Size(2.5)},
		{Street: hand.Preflop, Pos: hand.SB, Move: hand.ParseMove("folds")},
		{Street: hand.Preflop, Pos: hand.BB, Move: hand.ParseMove("calls"), Size: hand.Size(1.5)},
		{Street: hand.Flop, Pos: hand.BB, Move: hand.ParseMove("checks")},
		{Street: hand.Flop, Pos: hand.BTN, Move: hand.ParseMove("bets"), Size: hand.Size(3)},
		{Street: hand.Turn, Pos: hand.BB, Move: hand.ParseMove("all-in"), Size: hand.Size(76.5)},
	}
	return h
}

func TestHHTextLayout(t *testing.T) {
	text := HHText(sampleHand())
	assert.Contains(t, text, "**Players and Stacks:**\n- UTG: Stack 100 BB\n")
	assert.Contains(t, text, "- Hero: 42.5 BB (BTN)\n")
	assert.Contains(t, text, "**Hole Cards:**\n- BTN: [Ah Kd]\n")
	assert.Contains(t, text, "**Board:**\n- Flop: [2c 7d Js]\n- Turn: [Qh]\n")
	assert.Contains(t, text, "**Preflop Actions:**\n- SB post 0.5 BB\n- BB post 1 BB\n- BTN raises 2.5 BB\n- SB folds\n")
	assert.Contains(t, text, "**Turn Actions:**\n- BB all-in 76.5 BB")
	assert.NotContains(t, text, "River Actions")
}

func TestHHTextRoundTrip(t *testing.T) {
	h := sampleHand()
	ext := parser.Extract(HHText(h))

	require.Len(t, ext.Actions, len(h.Actions))
	for i, a := range h.Actions {
		assert.Equal(t, a, ext.Actions[i], "action %d", i)
	}
	assert.False(t, ext.Compact)

	seats := ext.Merged()
	require.Len(t, seats, hand.NumPositions)
	assert.Equal(t, 42.5, seats[hand.BTN].Stack)
	assert.Equal(t, "Hero", seats[hand.BTN].Name)
	assert.Equal(t, "Villain", seats[hand.BB].Name)
	assert.Equal(t, 100.0, seats[hand.UTG].Stack)
	assert.Empty(t, seats[hand.UTG].Name)

	assert.Equal(t, []string{"Ah", "Kd"}, ext.Holes[hand.BTN])
	require.NotNil(t, ext.Board)
	assert.Equal(t, *h.Board, *ext.Board)
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "a b", safeName("a:(b)"))
	assert.Equal(t, "", safeName("  "))
}

func TestSummary(t *testing.T) {
	h := sampleHand()
	h.Actions = h.Actions[2:4]
	got := Summary(h)
	assert.Equal(t, "Players: UTG: 100bb, HJ: 100bb, CO: 100bb, BTN: Hero 42.5bb, SB: 100bb, BB: Villain 80bb\n"+
		"Actions: Preflop BTN raises 2.5bb; Preflop SB folds", got)
}
