// Package replay steps through a normalized hand and recomputes the pot and
// the remaining stacks after each action.
package replay

import (
	"fmt"
	"math"
	"strings"

	"hhnorm/internal/hand"

	"github.com/shopspring/decimal"
)

// Frame 是某一步之后的桌面状态；Step 为 -1 表示起始状态（只计入强制下注）。
type Frame struct {
	Step   int                       `json:"step"`
	Label  string                    `json:"label"`
	Pot    float64                   `json:"pot"`
	Stacks map[hand.Position]float64 `json:"stacks"`
}

// Frames returns the start frame followed by one frame per action. Every
// frame is recomputed from the starting stacks.
func Frames(h hand.ParsedHand) []Frame {
	out := make([]Frame, 0, len(h.Actions)+1)
	for step := -1; step < len(h.Actions); step++ {
		out = append(out, At(h, step))
	}
	return out
}

// At computes the frame after action index step. step < 0 yields the start
// frame; step past the end is clamped to the last action.
func At(h hand.ParsedHand, step int) Frame {
	if step >= len(h.Actions) {
		step = len(h.Actions) - 1
	}
	stacks := make(map[hand.Position]decimal.Decimal, hand.NumPositions)
	for i, p := range h.Players {
		stacks[hand.Positions[i]] = fromFloat(p.Stack)
	}
	pot := decimal.Zero
	for i, a := range h.Actions {
		var moves bool
		if step < 0 {
			moves = forced(a.Move)
		} else {
			if i > step {
				break
			}
			moves = forced(a.Move) || committing(a.Move)
		}
		if !moves {
			continue
		}
		size := fromFloat(a.SizeOr(0))
		if size.IsNegative() {
			size = decimal.Zero
		}
		pot = pot.Add(size)
		if cur, ok := stacks[a.Pos]; ok {
			stacks[a.Pos] = decimal.Max(decimal.Zero, cur.Sub(size))
		}
	}

	f := Frame{Step: step, Label: Label(h, step), Pot: pot.InexactFloat64(), Stacks: make(map[hand.Position]float64, len(stacks))}
	if step < 0 {
		f.Step = -1
	}
	for pos, v := range stacks {
		f.Stacks[pos] = v.InexactFloat64()
	}
	return f
}

// Label 生成步骤说明，例如 "Flop - BTN: bets 3 BB"。
func Label(h hand.ParsedHand, step int) string {
	if step < 0 || step >= len(h.Actions) {
		return "Start"
	}
	a := h.Actions[step]
	label := fmt.Sprintf("%s - %s: %s", a.Street, a.Pos, a.Move)
	if a.Size != nil && *a.Size != 0 {
		label += " " + FormatBB(*a.Size) + " BB"
	}
	return label
}

// FormatBB prints a big-blind amount without float noise ("2.5", "0.1", "3").
func FormatBB(v float64) string {
	return fromFloat(v).Round(2).String()
}

func forced(m hand.Move) bool {
	if m.Kind == hand.MovePost {
		return true
	}
	raw := strings.ToLower(m.Raw)
	return strings.Contains(raw, "post") || raw == "ante" || raw == "straddle"
}

func committing(m hand.Move) bool {
	switch m.Kind {
	case hand.MoveBet, hand.MoveRaise, hand.MoveOpen, hand.MoveAllIn, hand.MoveCall:
		return true
	default:
		return false
	}
}

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
