// Package cards parses the card codes that appear in hand histories
// ("Ah", "TD", "10s", "[AH KD]") into normalized two-character codes.
package cards

import (
	"fmt"
	"strings"

	"github.com/paulhankin/poker"
)

// Card 规范化的牌：Rank 为 A K Q J T 9..2，Suit 为 c d h s。
type Card struct {
	Rank byte
	Suit byte
	pc   poker.Card
}

var rankValues = map[string]poker.Rank{
	"A": 1, "K": 13, "Q": 12, "J": 11, "T": 10, "10": 10,
	"9": 9, "8": 8, "7": 7, "6": 6, "5": 5, "4": 4, "3": 3, "2": 2,
}

var suitValues = map[byte]poker.Suit{
	'c': poker.Club,
	'd': poker.Diamond,
	'h': poker.Heart,
	's': poker.Spade,
}

// Parse reads a single card code. Rank and suit are case-insensitive.
func Parse(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 || len(code) > 3 {
		return Card{}, fmt.Errorf("invalid card %q", code)
	}
	rankText := strings.ToUpper(code[:len(code)-1])
	suit := strings.ToLower(code[len(code)-1:])[0]
	rank, ok := rankValues[rankText]
	if !ok {
		return Card{}, fmt.Errorf("invalid rank in %q", code)
	}
	ps, ok := suitValues[suit]
	if !ok {
		return Card{}, fmt.Errorf("invalid suit in %q", code)
	}
	pc, err := poker.MakeCard(ps, rank)
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", code, err)
	}
	r := rankText[0]
	if rankText == "10" {
		r = 'T'
	}
	return Card{Rank: r, Suit: suit, pc: pc}, nil
}

func (c Card) String() string { return string([]byte{c.Rank, c.Suit}) }

// Poker exposes the evaluator representation.
func (c Card) Poker() poker.Card { return c.pc }

// ParseList 解析 "[AH KD]"、"Ah, Kd" 一类列表；非法或重复的牌被跳过。
func ParseList(text string) []Card {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '\t', ',', '[', ']', '(', ')':
			return true
		}
		return false
	})
	out := make([]Card, 0, len(fields))
	seen := make(map[poker.Card]bool, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil || seen[c.pc] {
			continue
		}
		seen[c.pc] = true
		out = append(out, c)
	}
	return out
}

// Codes returns the normalized code of each card.
func Codes(cs []Card) []string {
	if len(cs) == 0 {
		return nil
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

// Describe 给出手牌加公共牌的最佳牌型描述；合计少于 5 张或多于 7 张时返回 false。
func Describe(hole, board []string) (string, bool) {
	all := ParseList(strings.Join(append(append([]string(nil), hole...), board...), " "))
	if len(all) < 5 || len(all) > 7 {
		return "", false
	}
	pcs := make([]poker.Card, len(all))
	for i, c := range all {
		pcs[i] = c.pc
	}
	desc, err := poker.Describe(pcs)
	if err != nil {
		return "", false
	}
	return desc, true
}
