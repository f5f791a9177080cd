package normalize

import (
	"math"

	"hhnorm/internal/candidate"
	"hhnorm/internal/hand"
	"hhnorm/internal/ledger"
	"hhnorm/internal/logger"
	"hhnorm/internal/parser"
	"hhnorm/internal/rules"
)

// Normalizer runs the extract, ledger, stacks and blinds pipeline. It holds
// no per-hand state and is safe for concurrent use.
type Normalizer struct {
	rules rules.Source
}

// New returns a normalizer reading its thresholds from src; nil means the defaults.
func New(src rules.Source) *Normalizer {
	if src == nil {
		src = rules.Static(rules.Default())
	}
	return &Normalizer{rules: src}
}

// Result carries the intermediate data alongside the hand for diagnostics.
type Result struct {
	Hand       hand.ParsedHand
	Ledger     *ledger.Ledger
	Extraction parser.Extraction
}

func (n *Normalizer) FromText(text string) hand.ParsedHand {
	return n.FromTextWithDetails(text).Hand
}

// FromTextWithDetails 文本输入：座位、名字与动作全部来自文本。
func (n *Normalizer) FromTextWithDetails(text string) Result {
	ext := parser.Extract(text)
	c := candidate.Candidate{Actions: ext.Actions, Board: ext.Board}
	return n.run(ext, c)
}

func (n *Normalizer) FromCandidate(text string, c candidate.Candidate) hand.ParsedHand {
	return n.FromCandidateWithDetails(text, c).Hand
}

// FromCandidateWithDetails 结构化输入：动作只取自候选对象，text 仅用于补充声明的筹码、名字与牌。
func (n *Normalizer) FromCandidateWithDetails(text string, c candidate.Candidate) Result {
	ext := parser.Extract(text)
	if c.Board.Empty() {
		c.Board = ext.Board
	}
	return n.run(ext, c)
}

// Canonicalize completes a hand that already went through the pipeline or
// came from a client: missing seats are filled, non-positive stacks are
// defaulted and blinds are injected once. Declared stacks are kept.
func (n *Normalizer) Canonicalize(h hand.ParsedHand) hand.ParsedHand {
	r := n.rules.Rules().Sanitize()
	c := candidate.FromHand(h)
	out := hand.ParsedHand{
		Players:       completeTable(c, r),
		Actions:       sanitizeActions(c.Actions),
		Board:         c.Board,
		BlindsApplied: c.BlindsApplied,
	}
	return InjectBlinds(out, r)
}

func (n *Normalizer) run(ext parser.Extraction, c candidate.Candidate) Result {
	r := n.rules.Rules().Sanitize()
	actions := sanitizeActions(c.Actions)
	declared := mergeDeclared(c.Players, ext)
	l := ledger.ComputeWithEpsilon(actions, r.Epsilon)
	h := hand.ParsedHand{
		Players:       NormalizeStacks(declared, ext.Names, l, r),
		Actions:       actions,
		BlindsApplied: c.BlindsApplied,
	}
	if !c.Board.Empty() {
		b := *c.Board
		h.Board = &b
	}
	h = InjectBlinds(h, r)
	logger.Debugf("normalized hand: %d seats declared, %d actions, compact=%v", len(declared), len(h.Actions), ext.Compact)
	return Result{Hand: h, Ledger: l, Extraction: ext}
}

// sanitizeActions 复制动作列表，丢弃位置或街无法识别的条目，规范街名与已识别的动作拼写；
// 负数、NaN、Inf 的 size 视为未知。
func sanitizeActions(in []hand.Action) []hand.Action {
	out := make([]hand.Action, 0, len(in))
	for _, a := range in {
		if !a.Pos.Valid() {
			continue
		}
		street, ok := hand.ParseStreet(string(a.Street))
		if !ok {
			continue
		}
		a.Street = street
		if a.Move.Kind != hand.MoveOther {
			a.Move = hand.NewMove(a.Move.Kind)
		}
		if a.Size != nil {
			v := *a.Size
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				a.Size = nil
			} else {
				a.Size = hand.Size(v)
			}
		}
		out = append(out, a)
	}
	return out
}
