package rangeinject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandName(t *testing.T) {
	cases := []struct {
		r, c int
		want string
	}{
		{0, 0, "AA"},
		{12, 12, "22"},
		{0, 1, "AKo"},
		{1, 0, "AKs"},
		{3, 4, "JTo"},
		{4, 3, "JTs"},
	}
	for _, tc := range cases {
		got, err := HandName(tc.r, tc.c)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
	_, err := HandName(13, 0)
	assert.Error(t, err)
	_, err = HandName(0, -1)
	assert.Error(t, err)
}

func TestFlattenCells(t *testing.T) {
	cells := []Cell{{0, 1}, {1, 0}, {3, 3}, {0, 0}, {2, 0}, {0, 2}, {20, 1}}
	got := FlattenCells(cells)
	assert.Equal(t, []string{"AA", "JJ", "AKs", "AQs", "AKo", "AQo"}, got)
}

func TestCompactList(t *testing.T) {
	assert.Equal(t, "AKs, QQ", CompactList([]string{"AKs", "QQ"}))
	assert.Equal(t, "", CompactList(nil))
}

func TestInject(t *testing.T) {
	text := "Preflop:\n- UTG bets 3\n  BB raises 9\nUTG calls 6\nFlop: UTG checks"
	out := Inject(text, []Assignment{
		{Key: "UTG bets", Hands: []string{"AKs", "JJ"}},
		{Key: "BB raises", Hands: []string{"A5s"}},
		{Key: "UTG calls", Hands: nil},
	})
	assert.Equal(t, "Preflop:\n- UTG bets 3\n  BB raises 9 [range: A5s]\nUTG calls 6\nFlop: UTG checks", out)

	out = Inject("UTG bets 3", []Assignment{{Key: "UTG bets", Hands: []string{"AKs", "JJ"}}})
	assert.Equal(t, "UTG bets 3 [range: AKs, JJ]", out)
}

func TestInjectLongestKeyWins(t *testing.T) {
	out := Inject("UTG bets 3", []Assignment{
		{Key: "UTG", Hands: []string{"22"}},
		{Key: "UTG bets", Hands: []string{"AA"}},
	})
	assert.Equal(t, "UTG bets 3 [range: AA]", out)

	// 空列表的长 key 命中后不再尝试短 key
	out = Inject("UTG bets 3", []Assignment{
		{Key: "UTG", Hands: []string{"22"}},
		{Key: "UTG bets", Hands: []string{}},
	})
	assert.Equal(t, "UTG bets 3", out)
}

func TestInjectOncePerLine(t *testing.T) {
	a := []Assignment{{Key: "BB raises", Hands: []string{"KK"}}}
	once := Inject("BB raises 9", a)
	assert.Equal(t, "BB raises 9 [range: KK]", once)
	assert.Equal(t, "", Inject("", a))
	assert.Equal(t, "BB raises 9", Inject("BB raises 9", nil))
}
