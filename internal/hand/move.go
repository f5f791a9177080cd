package hand

import (
	"encoding/json"
	"strings"
	"unicode"
)

// MoveKind classifies the free-form move vocabulary.
type MoveKind int

const (
	MoveNone MoveKind = iota
	MoveCheck
	MoveFold
	MoveBet
	MoveOpen
	MoveCall
	MoveRaise
	MoveAllIn
	MovePost
	MoveWin
	MoveOther
)

var canonicalMove = map[MoveKind]string{
	MoveCheck: "checks",
	MoveFold:  "folds",
	MoveBet:   "bets",
	MoveOpen:  "opens",
	MoveCall:  "calls",
	MoveRaise: "raises",
	MoveAllIn: "all-in",
	MovePost:  "post",
	MoveWin:   "wins",
}

// Move keeps the original text next to its classification so unknown verbs
// survive a round trip unchanged.
type Move struct {
	Kind MoveKind
	Raw  string
}

// NewMove builds a move with the canonical spelling for kind.
func NewMove(kind MoveKind) Move {
	return Move{Kind: kind, Raw: canonicalMove[kind]}
}

// ParseMove 识别动作动词，未知动词归为 MoveOther 并保留原文。
func ParseMove(raw string) Move {
	raw = strings.TrimSpace(raw)
	m := Move{Raw: raw}
	switch strings.ToLower(raw) {
	case "":
		m.Kind = MoveNone
	case "checks", "check":
		m.Kind = MoveCheck
	case "folds", "fold":
		m.Kind = MoveFold
	case "bets", "bet":
		m.Kind = MoveBet
	case "opens", "open":
		m.Kind = MoveOpen
	case "calls", "call":
		m.Kind = MoveCall
	case "raises", "raise":
		m.Kind = MoveRaise
	case "post", "posts", "puts":
		m.Kind = MovePost
	case "wins", "win":
		m.Kind = MoveWin
	default:
		if strings.Contains(letters(raw), "allin") {
			m.Kind = MoveAllIn
		} else {
			m.Kind = MoveOther
		}
	}
	return m
}

func letters(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m Move) String() string {
	if m.Raw != "" {
		return m.Raw
	}
	return canonicalMove[m.Kind]
}

// Passive reports moves that never put chips in: check, fold, or nothing.
func (m Move) Passive() bool {
	switch m.Kind {
	case MoveNone, MoveCheck, MoveFold:
		return true
	default:
		return false
	}
}

func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = ParseMove(s)
	return nil
}
