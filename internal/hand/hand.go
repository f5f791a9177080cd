package hand

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Action is one betting action. Size is in big blinds and nil when absent.
type Action struct {
	Street Street   `json:"street"`
	Pos    Position `json:"pos"`
	Move   Move     `json:"move"`
	Size   *float64 `json:"size"`
}

// Size returns a pointer to v for building actions.
func Size(v float64) *float64 { return &v }

// SizeOr returns the action size or def when absent.
func (a Action) SizeOr(def float64) float64 {
	if a.Size == nil {
		return def
	}
	return *a.Size
}

// Player is one seat. Hole holds normalized card codes when known.
type Player struct {
	Pos   Position `json:"pos"`
	Stack float64  `json:"stack"`
	Name  string   `json:"name"`
	Hole  []string `json:"hole,omitempty"`
}

// Board holds community cards by street.
type Board struct {
	Flop  []string `json:"flop,omitempty"`
	Turn  string   `json:"turn,omitempty"`
	River string   `json:"river,omitempty"`
}

func (b *Board) Empty() bool {
	return b == nil || (len(b.Flop) == 0 && b.Turn == "" && b.River == "")
}

// Cards lists the dealt board cards in order, skipping streets not dealt.
func (b *Board) Cards() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, 5)
	for _, c := range b.Flop {
		if c != "" {
			out = append(out, c)
		}
	}
	for _, c := range []string{b.Turn, b.River} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Table 以固定顺序保存六个座位，JSON 输出按 UTG..BB 排序。
type Table [NumPositions]Player

// NewTable returns a table with every seat tagged and nothing else set.
func NewTable() Table {
	var t Table
	for i, pos := range Positions {
		t[i].Pos = pos
	}
	return t
}

func (t Table) Get(pos Position) (Player, bool) {
	i := pos.Index()
	if i < 0 {
		return Player{}, false
	}
	return t[i], true
}

// Set stores p in its seat; players with an unknown position are ignored.
func (t *Table) Set(p Player) {
	if i := p.Pos.Index(); i >= 0 {
		t[i] = p
	}
}

func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pos := range Positions {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", string(pos))
		p := t[i]
		p.Pos = pos
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var seats map[string]json.RawMessage
	if err := json.Unmarshal(data, &seats); err != nil {
		return err
	}
	out := NewTable()
	for key, raw := range seats {
		pos, ok := ParsePosition(key)
		if !ok {
			continue
		}
		var p Player
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("player %s: %w", key, err)
		}
		p.Pos = pos
		out.Set(p)
	}
	*t = out
	return nil
}

// ParsedHand is the canonical hand: six seats, ordered actions, and the
// marker that blind posts were already synthesized.
type ParsedHand struct {
	Players       Table    `json:"players"`
	Actions       []Action `json:"actions"`
	Board         *Board   `json:"board,omitempty"`
	BlindsApplied bool     `json:"blinds_applied"`
}

func (h ParsedHand) MarshalJSON() ([]byte, error) {
	type alias ParsedHand
	out := alias(h)
	if out.Actions == nil {
		out.Actions = []Action{}
	}
	if out.Board.Empty() {
		out.Board = nil
	}
	return json.Marshal(out)
}
