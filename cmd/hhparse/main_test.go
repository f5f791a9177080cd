package main

import (
	"bytes"
	"testing"

	"hhnorm/internal/hand"
	"hhnorm/internal/normalize"
	"hhnorm/internal/rules"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const turnHand = `**Players and Stacks:**
- Hero: 18 BB (UTG)
- Villain: 40 BB (BB)

**Hole Cards:**
- UTG: [AH KD]

**Board:**
- Flop: [7c 8d 2s]
- Turn: [Jh]

**Preflop Actions:**
- Hero raises to 2.5 BB
- Villain calls 1.5 BB

**Flop Actions:**
- Villain checks
- Hero bets 3 BB
- Villain folds
`

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	m.Run()
}

func TestSeatRowsSkipUndealtRiver(t *testing.T) {
	res := normalize.New(nil).FromTextWithDetails(turnHand)
	require.Equal(t, []string{"7c", "8d", "2s", "Jh"}, res.Hand.Board.Cards())

	rows := seatRows(res)
	require.Len(t, rows, hand.NumPositions+1)
	utg := rows[1]
	assert.Equal(t, "UTG", utg[0])
	assert.Equal(t, "Hero", utg[1])
	assert.Equal(t, "Ah Kd", utg[4])
	assert.NotEmpty(t, utg[5], "six known cards describe a made hand")
	assert.Empty(t, rows[2][5], "no hole cards, no description")
}

func TestPrinterRendersHand(t *testing.T) {
	res := normalize.New(nil).FromTextWithDetails(turnHand)
	var buf bytes.Buffer
	p := printer{w: &buf}
	require.NoError(t, p.hand(res))
	require.NoError(t, p.replay(res.Hand))

	out := buf.String()
	assert.Contains(t, out, "Players")
	assert.Contains(t, out, "Hero")
	assert.Contains(t, out, "Villain")
	assert.Contains(t, out, "board: 7c 8d 2s Jh")
	assert.Contains(t, out, "raises")
	assert.Contains(t, out, "blind posts applied")
	assert.Contains(t, out, "Replay")
}

func TestPrinterWithoutActions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printer{w: &buf}.hand(normalize.New(nil).FromTextWithDetails("")))
	assert.Contains(t, buf.String(), "no actions recognized")
	assert.NotContains(t, buf.String(), "board:")
}

func TestRulesSourceWithoutConfig(t *testing.T) {
	src, err := rulesSource("")
	require.NoError(t, err)
	assert.Equal(t, rules.Default(), src.Rules())
}
