// Package candidate decodes loosely typed {players, actions} objects produced
// by manual entry or a vision model into hand types.
package candidate

import (
	"fmt"
	"strings"

	"hhnorm/internal/cards"
	"hhnorm/internal/hand"
	"hhnorm/internal/pkg/convert"
	"hhnorm/internal/pkg/jsonutil"

	"github.com/tidwall/gjson"
)

// Candidate 是未经规范化的结构化输入。Players 只包含输入中出现的位置。
type Candidate struct {
	Players       map[hand.Position]hand.Player
	Actions       []hand.Action
	Board         *hand.Board
	BlindsApplied bool
}

// FromHand wraps an existing hand so it can be fed back through the pipeline.
func FromHand(h hand.ParsedHand) Candidate {
	c := Candidate{
		Players:       make(map[hand.Position]hand.Player, hand.NumPositions),
		Actions:       append([]hand.Action(nil), h.Actions...),
		BlindsApplied: h.BlindsApplied,
	}
	for i, p := range h.Players {
		p.Pos = hand.Positions[i]
		c.Players[p.Pos] = p
	}
	if !h.Board.Empty() {
		b := *h.Board
		c.Board = &b
	}
	return c
}

// FromReply 在模型回复中定位 JSON（代码块或首个括号）再解码。
func FromReply(reply string) (Candidate, error) {
	raw, ok := jsonutil.ExtractJSON(reply)
	if !ok {
		return Candidate{}, fmt.Errorf("no json object found in reply")
	}
	return Decode(raw)
}

// Decode 宽松解析：数值可以是字符串，size 可写作 size_bb/amount，move 可写作 action/type，
// players 可以是对象或数组，actions 可以是数组或按街分组的对象。
// 位置或街无法识别的动作被丢弃。
func Decode(raw string) (Candidate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Candidate{}, fmt.Errorf("candidate json is empty")
	}
	if !gjson.Valid(raw) {
		return Candidate{}, fmt.Errorf("candidate json is invalid")
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return Candidate{}, fmt.Errorf("candidate root must be a json object")
	}
	c := Candidate{Players: make(map[hand.Position]hand.Player)}
	c.decodePlayers(parsed.Get("players"))
	c.decodeStacks(parsed.Get("stacks"))
	c.decodeHoles(parsed.Get("hole_cards"))
	c.decodeActions(parsed.Get("actions"))
	c.Board = decodeBoard(parsed.Get("board"))
	c.BlindsApplied = parsed.Get("blinds_applied").Bool()
	return c, nil
}

func (c *Candidate) decodePlayers(players gjson.Result) {
	switch {
	case players.IsArray():
		players.ForEach(func(_, value gjson.Result) bool {
			c.addPlayer("", value)
			return true
		})
	case players.IsObject():
		players.ForEach(func(key, value gjson.Result) bool {
			c.addPlayer(key.String(), value)
			return true
		})
	}
}

func (c *Candidate) addPlayer(key string, value gjson.Result) {
	posText := key
	if value.IsObject() {
		if p := strings.TrimSpace(value.Get("pos").String()); p != "" {
			posText = p
		}
	}
	pos, ok := hand.ParsePosition(posText)
	if !ok {
		return
	}
	p := hand.Player{Pos: pos}
	if value.IsObject() {
		p.Stack, _ = number(first(value, "stack", "stack_bb"))
		p.Name = strings.TrimSpace(value.Get("name").String())
		p.Hole = cardList(value.Get("hole"))
	} else {
		p.Stack, _ = number(value)
	}
	c.Players[pos] = p
}

// decodeStacks 兼容手动录入的 {"stacks": {"UTG": 100}} 形式。
func (c *Candidate) decodeStacks(stacks gjson.Result) {
	if !stacks.IsObject() {
		return
	}
	stacks.ForEach(func(key, value gjson.Result) bool {
		pos, ok := hand.ParsePosition(key.String())
		if !ok {
			return true
		}
		stack, ok := number(value)
		if !ok {
			return true
		}
		p, exists := c.Players[pos]
		if !exists {
			p = hand.Player{Pos: pos}
		}
		p.Stack = stack
		c.Players[pos] = p
		return true
	})
}

func (c *Candidate) decodeHoles(holes gjson.Result) {
	if !holes.IsObject() {
		return
	}
	holes.ForEach(func(key, value gjson.Result) bool {
		pos, ok := hand.ParsePosition(key.String())
		if !ok {
			return true
		}
		codes := cardList(value)
		if len(codes) == 0 {
			return true
		}
		p, exists := c.Players[pos]
		if !exists {
			p = hand.Player{Pos: pos}
		}
		p.Hole = codes
		c.Players[pos] = p
		return true
	})
}

func (c *Candidate) decodeActions(actions gjson.Result) {
	switch {
	case actions.IsArray():
		actions.ForEach(func(_, value gjson.Result) bool {
			if a, ok := decodeAction(value, ""); ok {
				c.Actions = append(c.Actions, a)
			}
			return true
		})
	case actions.IsObject():
		// 按街分组时以规范街顺序展开，保证结果与键序无关
		for _, street := range hand.Streets {
			actions.ForEach(func(key, list gjson.Result) bool {
				s, ok := hand.ParseStreet(key.String())
				if !ok || s != street || !list.IsArray() {
					return true
				}
				list.ForEach(func(_, value gjson.Result) bool {
					if a, ok := decodeAction(value, key.String()); ok {
						c.Actions = append(c.Actions, a)
					}
					return true
				})
				return true
			})
		}
	}
}

func decodeAction(value gjson.Result, streetHint string) (hand.Action, bool) {
	if !value.IsObject() {
		return hand.Action{}, false
	}
	streetText := value.Get("street").String()
	if strings.TrimSpace(streetText) == "" {
		streetText = streetHint
	}
	street, ok := hand.ParseStreet(streetText)
	if !ok {
		return hand.Action{}, false
	}
	pos, ok := hand.ParsePosition(first(value, "pos", "position", "seat").String())
	if !ok {
		return hand.Action{}, false
	}
	a := hand.Action{
		Street: street,
		Pos:    pos,
		Move:   hand.ParseMove(first(value, "move", "action", "type").String()),
	}
	if v, ok := number(first(value, "size", "size_bb", "amount")); ok && v >= 0 {
		a.Size = hand.Size(v)
	}
	return a, true
}

func decodeBoard(board gjson.Result) *hand.Board {
	if !board.IsObject() {
		return nil
	}
	b := &hand.Board{Flop: cardList(board.Get("flop"))}
	if turn := cardList(board.Get("turn")); len(turn) > 0 {
		b.Turn = turn[0]
	}
	if river := cardList(board.Get("river")); len(river) > 0 {
		b.River = river[0]
	}
	if b.Empty() {
		return nil
	}
	return b
}

// first returns the first key of value that is present and non-empty.
func first(value gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		r := value.Get(k)
		if r.Exists() && r.Type != gjson.Null && strings.TrimSpace(r.String()) != "" {
			return r
		}
	}
	return gjson.Result{}
}

func number(r gjson.Result) (float64, bool) {
	if !r.Exists() {
		return 0, false
	}
	return convert.ToFloat64OK(r.Value())
}

func cardList(r gjson.Result) []string {
	switch {
	case r.IsArray():
		parts := make([]string, 0, 5)
		r.ForEach(func(_, v gjson.Result) bool {
			parts = append(parts, v.String())
			return true
		})
		return cards.Codes(cards.ParseList(strings.Join(parts, " ")))
	case r.Type == gjson.String:
		return cards.Codes(cards.ParseList(r.Str))
	default:
		return nil
	}
}
