package normalize

import (
	"hhnorm/internal/hand"
	"hhnorm/internal/rules"
)

// InjectBlinds 在缺少 SB 或 BB 的翻前 post 时，于动作列表最前面依次补上 SB、BB 两条 post。
// 返回新的 hand，不修改入参；已标记 BlindsApplied 或没有任何动作的 hand 原样返回。
func InjectBlinds(h hand.ParsedHand, r rules.Rules) hand.ParsedHand {
	if h.BlindsApplied || len(h.Actions) == 0 {
		return h
	}
	out := h
	out.BlindsApplied = true
	if hasPost(h.Actions, hand.SB) && hasPost(h.Actions, hand.BB) {
		out.Actions = append([]hand.Action(nil), h.Actions...)
		return out
	}
	actions := make([]hand.Action, 0, len(h.Actions)+2)
	actions = append(actions,
		hand.Action{Street: hand.Preflop, Pos: hand.SB, Move: hand.NewMove(hand.MovePost), Size: hand.Size(r.SmallBlind)},
		hand.Action{Street: hand.Preflop, Pos: hand.BB, Move: hand.NewMove(hand.MovePost), Size: hand.Size(r.BigBlind)},
	)
	out.Actions = append(actions, h.Actions...)
	return out
}

func hasPost(actions []hand.Action, pos hand.Position) bool {
	for _, a := range actions {
		if a.Pos == pos && a.Street.IsPreflop() && a.Move.Kind == hand.MovePost {
			return true
		}
	}
	return false
}
