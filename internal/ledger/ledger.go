// Package ledger reconstructs how many big blinds each seat committed over
// a hand from its ordered action list.
package ledger

import (
	"hhnorm/internal/hand"
)

const DefaultEpsilon = 1e-6

// Ledger 是一次重建的结果。Spent 以出现过动作的位置为键（每个出现的位置都有条目）；
// PutThisStreet 与 MaxPut 是最后一条街结束时的状态。
type Ledger struct {
	Spent         map[hand.Position]float64 `json:"spent"`
	PutThisStreet map[hand.Position]float64 `json:"put_this_street"`
	AllIn         map[hand.Position]bool    `json:"all_in"`
	Short         map[hand.Position]bool    `json:"short"`
	MaxPut        float64                   `json:"max_put"`
}

// Acted returns the positions that have a ledger entry, in canonical order.
func (l *Ledger) Acted() []hand.Position {
	out := make([]hand.Position, 0, len(l.Spent))
	for _, pos := range hand.Positions {
		if _, ok := l.Spent[pos]; ok {
			out = append(out, pos)
		}
	}
	return out
}

// Compute runs the ledger with DefaultEpsilon.
func Compute(actions []hand.Action) *Ledger {
	return ComputeWithEpsilon(actions, DefaultEpsilon)
}

// ComputeWithEpsilon 按顺序重放动作，换街时清空本街投入与最高投入。
// raise 的 size 是本街总额；call 在 size 不足需补额度时标记 short。
func ComputeWithEpsilon(actions []hand.Action, eps float64) *Ledger {
	l := &Ledger{
		Spent:         make(map[hand.Position]float64),
		PutThisStreet: make(map[hand.Position]float64),
		AllIn:         make(map[hand.Position]bool),
		Short:         make(map[hand.Position]bool),
	}
	var (
		street  hand.Street
		started bool
	)
	for _, a := range actions {
		if !started || a.Street != street {
			street = a.Street
			started = true
			l.PutThisStreet = make(map[hand.Position]float64)
			l.MaxPut = 0
		}
		pos := a.Pos
		if _, ok := l.Spent[pos]; !ok {
			l.Spent[pos] = 0
		}
		l.apply(a, eps)
	}
	return l
}

func (l *Ledger) apply(a hand.Action, eps float64) {
	pos := a.Pos
	put := l.PutThisStreet
	if a.Move.Passive() {
		return
	}
	switch a.Move.Kind {
	case hand.MoveBet, hand.MoveOpen:
		if a.Size == nil {
			return
		}
		delta := nonNegative(*a.Size)
		put[pos] = max(put[pos], delta)
		l.Spent[pos] += delta
		l.MaxPut = max(l.MaxPut, put[pos])
	case hand.MoveCall:
		var delta float64
		if l.MaxPut == 0 {
			// limp: nothing to match
			delta = nonNegative(a.SizeOr(0))
		} else {
			needed := nonNegative(l.MaxPut - put[pos])
			if a.Size != nil && *a.Size <= needed+eps {
				delta = nonNegative(*a.Size)
				if delta+eps < needed {
					l.Short[pos] = true
				}
			} else {
				delta = needed
			}
		}
		put[pos] += delta
		l.Spent[pos] += delta
	case hand.MoveRaise:
		if a.Size == nil {
			return
		}
		delta := nonNegative(*a.Size - put[pos])
		put[pos] += delta
		l.Spent[pos] += delta
		l.MaxPut = max(l.MaxPut, put[pos])
	case hand.MoveAllIn:
		if a.Size == nil {
			return
		}
		delta := nonNegative(*a.Size)
		put[pos] += delta
		l.Spent[pos] += delta
		l.AllIn[pos] = true
		l.MaxPut = max(l.MaxPut, put[pos])
	default:
		if a.Size == nil {
			return
		}
		delta := nonNegative(*a.Size)
		put[pos] += delta
		l.Spent[pos] += delta
		l.MaxPut = max(l.MaxPut, put[pos])
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
