package parser

import (
	"testing"

	"hhnorm/internal/hand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bulletHand = `**Players and Stacks:**
- Hero: 18 BB (UTG)
- Villain: 42,5 BB (BB)
CO: Stack 60
BTN: Stack 100

**Hole Cards:**
- UTG: [AH KD]

**Board:**
- Flop: [7c 8d 2s]
- Turn: [Jh]

**Preflop Actions:**
- Hero raises to 2.5 BB
- CO folds
- Villain calls 1.5 BB

**Flop Actions:**
- Villain checks
- Hero bets 3 BB
- Villain all-in 40 BB
- Hero calls
- Mystery calls 2 BB

Preflop: BTN bets 9
`

func TestExtractBulletedHand(t *testing.T) {
	ext := Extract(bulletHand)

	require.Len(t, ext.Seats, 4)
	assert.Equal(t, Seat{Pos: hand.CO, Stack: 60, Pass: PassDeclaration}, ext.Seats[0])
	assert.Equal(t, Seat{Pos: hand.BTN, Stack: 100, Pass: PassDeclaration}, ext.Seats[1])
	assert.Equal(t, Seat{Pos: hand.UTG, Stack: 18, Name: "Hero", Pass: PassBullet}, ext.Seats[2])
	assert.Equal(t, Seat{Pos: hand.BB, Stack: 42.5, Name: "Villain", Pass: PassBullet}, ext.Seats[3])

	assert.False(t, ext.Compact)
	require.Len(t, ext.Actions, 7)
	first := ext.Actions[0]
	assert.Equal(t, hand.Preflop, first.Street)
	assert.Equal(t, hand.UTG, first.Pos)
	assert.Equal(t, hand.MoveRaise, first.Move.Kind)
	assert.Equal(t, 2.5, *first.Size)

	assert.Equal(t, hand.CO, ext.Actions[1].Pos)
	assert.Nil(t, ext.Actions[1].Size)

	allIn := ext.Actions[5]
	assert.Equal(t, hand.Flop, allIn.Street)
	assert.Equal(t, hand.BB, allIn.Pos)
	assert.Equal(t, "all-in", allIn.Move.String())
	assert.Equal(t, 40.0, *allIn.Size)
	assert.Equal(t, hand.MoveCall, ext.Actions[6].Move.Kind)
	assert.Nil(t, ext.Actions[6].Size)

	assert.Equal(t, []string{"Ah", "Kd"}, ext.Holes[hand.UTG])
	require.NotNil(t, ext.Board)
	assert.Equal(t, []string{"7c", "8d", "2s"}, ext.Board.Flop)
	assert.Equal(t, "Jh", ext.Board.Turn)
	assert.Empty(t, ext.Board.River)
}

func TestExtractCompactFallback(t *testing.T) {
	ext := Extract("UTG: Stack 80\nPreflop: UTG bets 5; BB calls\nFlop: BB checks, UTG bets to 3,5\n")
	assert.True(t, ext.Compact)
	require.Len(t, ext.Actions, 4)
	assert.Equal(t, hand.Action{Street: hand.Preflop, Pos: hand.UTG, Move: hand.NewMove(hand.MoveBet), Size: hand.Size(5)}, ext.Actions[0])
	assert.Equal(t, hand.BB, ext.Actions[1].Pos)
	assert.Nil(t, ext.Actions[1].Size)
	assert.Equal(t, hand.Flop, ext.Actions[3].Street)
	assert.Equal(t, 3.5, *ext.Actions[3].Size)
	require.Len(t, ext.Seats, 1)
	assert.Equal(t, 80.0, ext.Seats[0].Stack)
}

func TestExtractEmpty(t *testing.T) {
	ext := Extract("")
	assert.Empty(t, ext.Seats)
	assert.Empty(t, ext.Actions)
	assert.Nil(t, ext.Board)
}

func TestMergedLastWriterWins(t *testing.T) {
	ext := Extract("UTG: Stack 100\n- Hero: 25 BB (UTG)\n")
	m := ext.Merged()
	assert.Equal(t, 25.0, m[hand.UTG].Stack)
	assert.Equal(t, "Hero", m[hand.UTG].Name)
	assert.Equal(t, PassBullet, m[hand.UTG].Pass)
}

func TestResolveNamesFirstMatchWins(t *testing.T) {
	n := ResolveNames("Alice (BTN)\nBTN: Bob\nSB: Carol Stack 40\n- Dan: 20 BB (HJ)\nCO: Stack 55\n")
	assert.Equal(t, map[hand.Position]string{hand.HJ: "Dan", hand.BTN: "Alice", hand.SB: "Carol"}, n.PosToName)
	assert.Equal(t, hand.BTN, n.NameToPos["Alice"])
	_, ok := n.NameToPos["Bob"]
	assert.False(t, ok)
}

func TestResolveNamesRejectsJunk(t *testing.T) {
	n := ResolveNames("12.5 (UTG)\nBB (CO)\nStack (HJ)\n")
	assert.Empty(t, n.PosToName)
}

func TestLookupLongestName(t *testing.T) {
	n := ResolveNames("Al (UTG)\nAlice (CO)\n")
	pos, rest, ok := n.Lookup("alice raises to 3 BB")
	require.True(t, ok)
	assert.Equal(t, hand.CO, pos)
	assert.Equal(t, "raises to 3 BB", rest)

	pos, _, ok = n.Lookup("Al calls")
	require.True(t, ok)
	assert.Equal(t, hand.UTG, pos)

	_, _, ok = n.Lookup("Alfred calls")
	assert.False(t, ok)

	pos, rest, ok = n.Lookup("SB posts 0.5 BB")
	require.True(t, ok)
	assert.Equal(t, hand.SB, pos)
	assert.Equal(t, "posts 0.5 BB", rest)

	n = ResolveNames("- Co-pilot: 50 BB (BTN)\nBB King (SB)\n")
	pos, rest, ok = n.Lookup("Co-pilot bets 3 BB")
	require.True(t, ok)
	assert.Equal(t, hand.BTN, pos)
	assert.Equal(t, "bets 3 BB", rest)

	pos, _, ok = n.Lookup("BB King calls 3 BB")
	require.True(t, ok)
	assert.Equal(t, hand.SB, pos)

	pos, _, ok = n.Lookup("CO folds")
	require.True(t, ok)
	assert.Equal(t, hand.CO, pos)
}

func TestExtractNickStartingWithPosition(t *testing.T) {
	ext := Extract("- Co-pilot: 50 BB (BTN)\n**Preflop Actions:**\n- Co-pilot bets 3 BB\n")
	require.Len(t, ext.Actions, 1)
	a := ext.Actions[0]
	assert.Equal(t, hand.BTN, a.Pos)
	assert.Equal(t, hand.MoveBet, a.Move.Kind)
	require.NotNil(t, a.Size)
	assert.Equal(t, 3.0, *a.Size)
}

func TestParseActionLineVerbs(t *testing.T) {
	names := Names{PosToName: map[hand.Position]string{}, NameToPos: map[string]hand.Position{}}
	cases := []struct {
		line string
		kind hand.MoveKind
		size *float64
	}{
		{"UTG opens 2.5 BB", hand.MoveOpen, hand.Size(2.5)},
		{"HJ raise 7bb", hand.MoveRaise, hand.Size(7)},
		{"BTN All in 30 BB", hand.MoveAllIn, hand.Size(30)},
		{"SB posts 0.5", hand.MovePost, hand.Size(0.5)},
		{"BB wins 12 BB", hand.MoveWin, hand.Size(12)},
		{"CO check", hand.MoveCheck, nil},
	}
	for _, tc := range cases {
		a, ok := parseActionLine(hand.Turn, tc.line, names)
		require.True(t, ok, tc.line)
		assert.Equal(t, tc.kind, a.Move.Kind, tc.line)
		assert.Equal(t, tc.size, a.Size, tc.line)
	}
	_, ok := parseActionLine(hand.Turn, "UTG thinks", names)
	assert.False(t, ok)
}
