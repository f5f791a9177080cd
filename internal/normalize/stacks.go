// Package normalize turns extracted or structured hand data into the
// canonical six-seat ParsedHand.
package normalize

import (
	"hhnorm/internal/candidate"
	"hhnorm/internal/hand"
	"hhnorm/internal/ledger"
	"hhnorm/internal/parser"
	"hhnorm/internal/rules"
)

// mergeDeclared 按固定顺序合并声明的筹码：结构化输入、声明行、bullet 行，后者覆盖前者。
func mergeDeclared(players map[hand.Position]hand.Player, ext parser.Extraction) map[hand.Position]hand.Player {
	names := ext.Names
	declared := make(map[hand.Position]hand.Player, hand.NumPositions)
	for _, pos := range hand.Positions {
		p, ok := players[pos]
		if !ok {
			continue
		}
		p.Pos = pos
		if p.Name == "" {
			p.Name = names.PosToName[pos]
		}
		declared[pos] = p
	}
	for _, seat := range ext.Seats {
		cur, ok := declared[seat.Pos]
		if !ok {
			cur = hand.Player{Pos: seat.Pos}
		}
		cur.Stack = seat.Stack
		switch seat.Pass {
		case parser.PassBullet:
			if seat.Name != "" {
				cur.Name = seat.Name
			}
		default:
			if cur.Name == "" {
				cur.Name = seat.Name
			}
		}
		if cur.Name == "" {
			cur.Name = names.PosToName[seat.Pos]
		}
		declared[seat.Pos] = cur
	}
	for _, pos := range hand.Positions {
		hole, ok := ext.Holes[pos]
		if !ok {
			continue
		}
		cur, ok := declared[pos]
		if !ok {
			cur = hand.Player{Pos: pos, Name: names.PosToName[pos]}
		}
		if len(cur.Hole) == 0 {
			cur.Hole = hole
		}
		declared[pos] = cur
	}
	return declared
}

// NormalizeStacks reconciles declared stacks with the ledger and returns the
// full table. Seats with spend take it as their stack when all-in or short,
// or when the declared stack looks like an unreliable default.
func NormalizeStacks(declared map[hand.Position]hand.Player, names parser.Names, l *ledger.Ledger, r rules.Rules) hand.Table {
	out := make(map[hand.Position]hand.Player, hand.NumPositions)
	for pos, p := range declared {
		out[pos] = p
	}
	for _, pos := range l.Acted() {
		total := l.Spent[pos]
		if total == 0 {
			continue
		}
		cur, ok := out[pos]
		if !ok {
			cur = hand.Player{Pos: pos, Name: names.PosToName[pos]}
		}
		switch {
		case l.AllIn[pos] || l.Short[pos]:
			cur.Stack = total
		case r.IsPlaceholder(cur.Stack),
			cur.Stack >= r.OverrideMinDeclared && total <= r.OverrideMaxSpent:
			cur.Stack = total
		default:
			continue
		}
		out[pos] = cur
	}

	table := hand.NewTable()
	for _, pos := range hand.Positions {
		p, ok := out[pos]
		if !ok {
			// 只在文本里以名字出现的位置保留名字
			p = hand.Player{Pos: pos, Name: names.PosToName[pos]}
		}
		p.Pos = pos
		if p.Stack <= 0 {
			p.Stack = r.DefaultStack
		}
		table.Set(p)
	}
	return table
}

// completeTable fills a hand's table without touching declared stacks other
// than replacing non-positive ones.
func completeTable(c candidate.Candidate, r rules.Rules) hand.Table {
	table := hand.NewTable()
	for _, pos := range hand.Positions {
		p, ok := c.Players[pos]
		if !ok {
			p = hand.Player{}
		}
		p.Pos = pos
		if p.Stack <= 0 {
			p.Stack = r.DefaultStack
		}
		table.Set(p)
	}
	return table
}
