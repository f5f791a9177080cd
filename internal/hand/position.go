// Package hand 定义六人桌手牌的规范数据模型：位置、街、动作与玩家。
package hand

import "strings"

// Position is one of the six canonical six-max seat tags.
type Position string

const (
	UTG Position = "UTG"
	HJ  Position = "HJ"
	CO  Position = "CO"
	BTN Position = "BTN"
	SB  Position = "SB"
	BB  Position = "BB"
)

// NumPositions 六人桌座位数。
const NumPositions = 6

// Positions 规范座位顺序，所有输出都按此顺序排列。
var Positions = [NumPositions]Position{UTG, HJ, CO, BTN, SB, BB}

// ParsePosition maps a case-insensitive seat tag to its canonical form.
func ParsePosition(s string) (Position, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UTG":
		return UTG, true
	case "HJ":
		return HJ, true
	case "CO":
		return CO, true
	case "BTN":
		return BTN, true
	case "SB":
		return SB, true
	case "BB":
		return BB, true
	default:
		return "", false
	}
}

// Index returns the seat's slot in Positions, or -1.
func (p Position) Index() int {
	for i, pos := range Positions {
		if pos == p {
			return i
		}
	}
	return -1
}

func (p Position) Valid() bool { return p.Index() >= 0 }

// Street is a betting round.
type Street string

const (
	Preflop Street = "Preflop"
	Flop    Street = "Flop"
	Turn    Street = "Turn"
	River   Street = "River"
)

var Streets = [...]Street{Preflop, Flop, Turn, River}

// ParseStreet accepts any casing; anything starting with "pre" is Preflop.
func ParseStreet(s string) (Street, bool) {
	l := strings.ToLower(strings.TrimSpace(s))
	switch {
	case l == "":
		return "", false
	case strings.HasPrefix(l, "pre"), l == "pf":
		return Preflop, true
	case l == "flop":
		return Flop, true
	case l == "turn":
		return Turn, true
	case l == "river":
		return River, true
	default:
		return "", false
	}
}

func (s Street) IsPreflop() bool {
	return strings.HasPrefix(strings.ToLower(string(s)), "pre")
}
