package parser

import (
	"strings"

	"hhnorm/internal/cards"
	"hhnorm/internal/hand"
)

// Pass identifies which seat source produced a candidate; later passes
// override earlier ones for the same position.
type Pass int

const (
	PassDeclaration Pass = iota + 1 // "UTG: Stack 100"
	PassBullet                      // "- Nick: 18 BB (UTG)"
)

// Seat is one declared stack found in the text.
type Seat struct {
	Pos   hand.Position
	Stack float64
	Name  string
	Pass  Pass
}

// Extraction 是一次文本抽取的全部结果，Seats 按应用顺序排列。
type Extraction struct {
	Seats   []Seat
	Actions []hand.Action
	Holes   map[hand.Position][]string
	Board   *hand.Board
	Names   Names
	// Compact 表示动作来自 "Preflop: UTG bets 5; BB calls" 形式的后备解析
	Compact bool
}

// Extract never fails; unrecognized lines are skipped.
func Extract(text string) Extraction {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	names := ResolveNames(text)
	ext := Extraction{
		Names: names,
		Holes: make(map[hand.Position][]string),
	}
	for _, m := range declRe.FindAllStringSubmatch(text, -1) {
		pos, ok := hand.ParsePosition(m[1])
		if !ok {
			continue
		}
		stack, ok := parseNumber(m[2])
		if !ok {
			continue
		}
		ext.Seats = append(ext.Seats, Seat{Pos: pos, Stack: stack, Name: names.PosToName[pos], Pass: PassDeclaration})
	}
	for _, m := range stackBulletRe.FindAllStringSubmatch(text, -1) {
		pos, ok := hand.ParsePosition(m[3])
		if !ok {
			continue
		}
		stack, ok := parseNumber(m[2])
		if !ok {
			continue
		}
		ext.Seats = append(ext.Seats, Seat{Pos: pos, Stack: stack, Name: cleanName(m[1]), Pass: PassBullet})
	}

	ext.Actions = bulletedActions(text, names)
	if len(ext.Actions) == 0 {
		ext.Actions = compactActions(text)
		ext.Compact = len(ext.Actions) > 0
	}
	ext.extractCards(text)
	return ext
}

// Merged folds Seats into one entry per position, last writer wins.
func (e Extraction) Merged() map[hand.Position]Seat {
	out := make(map[hand.Position]Seat, len(e.Seats))
	for _, s := range e.Seats {
		prev, ok := out[s.Pos]
		if ok && s.Name == "" {
			s.Name = prev.Name
		}
		out[s.Pos] = s
	}
	return out
}

func bulletedActions(text string, names Names) []hand.Action {
	var (
		out       []hand.Action
		street    hand.Street
		inSection bool
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if m := streetHeaderRe.FindStringSubmatch(line); m != nil {
			street, _ = hand.ParseStreet(m[1])
			inSection = true
			continue
		}
		if strings.HasPrefix(line, "**") {
			inSection = false
			continue
		}
		if !inSection {
			continue
		}
		bm := bulletRe.FindStringSubmatch(line)
		if bm == nil {
			continue
		}
		if a, ok := parseActionLine(street, bm[1], names); ok {
			out = append(out, a)
		}
	}
	return out
}

// parseActionLine 解析 "Hero raises to 6 BB" / "UTG calls 3 BB" 一类的行。
func parseActionLine(street hand.Street, body string, names Names) (hand.Action, bool) {
	pos, rest, ok := names.Lookup(body)
	if !ok {
		return hand.Action{}, false
	}
	m := verbRe.FindStringSubmatch(strings.TrimSpace(rest))
	if m == nil {
		return hand.Action{}, false
	}
	a := hand.Action{Street: street, Pos: pos, Move: hand.NewMove(hand.ParseMove(m[1]).Kind)}
	if v, ok := parseNumber(m[2]); ok {
		a.Size = hand.Size(v)
	}
	return a, true
}

func compactActions(text string) []hand.Action {
	var out []hand.Action
	for _, line := range compactLineRe.FindAllStringSubmatch(text, -1) {
		street, ok := hand.ParseStreet(line[1])
		if !ok {
			continue
		}
		for _, m := range compactBetRe.FindAllStringSubmatch(line[2], -1) {
			pos, ok := hand.ParsePosition(m[1])
			if !ok {
				continue
			}
			a := hand.Action{Street: street, Pos: pos, Move: hand.NewMove(hand.ParseMove(m[2]).Kind)}
			if v, ok := parseNumber(m[3]); ok {
				a.Size = hand.Size(v)
			}
			out = append(out, a)
		}
	}
	return out
}

func (e *Extraction) extractCards(text string) {
	board := &hand.Board{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if m := holeLineRe.FindStringSubmatch(line); m != nil {
			pos, _ := hand.ParsePosition(m[1])
			if codes := cards.Codes(cards.ParseList(m[2])); len(codes) > 0 {
				e.Holes[pos] = codes
			}
			continue
		}
		m := boardLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		codes := cards.Codes(cards.ParseList(m[2]))
		if len(codes) == 0 {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "flop":
			board.Flop = codes
		case "turn":
			board.Turn = codes[0]
		case "river":
			board.River = codes[0]
		}
	}
	if !board.Empty() {
		e.Board = board
	}
}
