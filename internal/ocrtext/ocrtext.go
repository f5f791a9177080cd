// Package ocrtext turns OCR line records from a hand-history panel into
// betting actions.
package ocrtext

import (
	"regexp"
	"strconv"
	"strings"

	"hhnorm/internal/candidate"
	"hhnorm/internal/hand"

	"golang.org/x/text/unicode/norm"
)

// Line is one recognized text line with the engine's mean confidence.
type Line struct {
	Text string  `json:"text"`
	Conf float64 `json:"conf"`
}

// Record 是一行解析结果；Seat 保留原始座位标签（可能是 MP/EP 等非六人桌标签）。
type Record struct {
	Street  hand.Street
	Seat    string
	Raw     string
	Conf    float64
	Move    hand.Move
	Size    *float64
	Matched bool
}

var (
	replacements = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\b8B\b`), "BB"},
		{regexp.MustCompile(`(?i)All[-–— ]?in`), "All-in"},
		{regexp.MustCompile(`\s+`), " "},
	}

	headerRes = func() map[hand.Street]*regexp.Regexp {
		out := make(map[hand.Street]*regexp.Regexp, len(hand.Streets))
		for _, s := range hand.Streets {
			out[s] = regexp.MustCompile(`(?i)\b` + string(s) + `\b`)
		}
		return out
	}()

	seatRe = regexp.MustCompile(`(?i)^(SB|BB|UTG|HJ|CO|BTN|MP|EP)\b\s*(.*)$`)

	actionPatterns = []struct {
		re   *regexp.Regexp
		kind hand.MoveKind
	}{
		{regexp.MustCompile(`(?i)\b(Check)\b`), hand.MoveCheck},
		{regexp.MustCompile(`(?i)\b(Fold)\b`), hand.MoveFold},
		{regexp.MustCompile(`(?i)\b(Bet)\s*([0-9]+(?:\.[0-9]+)?)\s*BB\b`), hand.MoveBet},
		{regexp.MustCompile(`(?i)\b(Raise)\s*([0-9]+(?:\.[0-9]+)?)\s*BB\b`), hand.MoveRaise},
		{regexp.MustCompile(`(?i)\b(Call)\s*([0-9]+(?:\.[0-9]+)?)\s*BB\b`), hand.MoveCall},
		{regexp.MustCompile(`(?i)\b(All-?in)\s*([0-9]+(?:\.[0-9]+)?)\s*BB\b`), hand.MoveAllIn},
		{regexp.MustCompile(`(?i)\b(Wins?)\s*([0-9]+(?:\.[0-9]+)?)\s*BB\b`), hand.MoveWin},
	}
)

// Clean 做 NFKC 归一化并修正常见识别错误（8B→BB、All in→All-in），合并空白。
func Clean(s string) string {
	out := norm.NFKC.String(s)
	for _, r := range replacements {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	return strings.TrimSpace(out)
}

// Parse classifies every non-empty line. Street headers switch the current
// street for the lines that follow; the stream starts on Preflop.
func Parse(lines []Line) []Record {
	street := hand.Preflop
	var out []Record
	for _, ln := range lines {
		text := Clean(ln.Text)
		if text == "" {
			continue
		}
		for _, s := range hand.Streets {
			re := headerRes[s]
			if !re.MatchString(text) {
				continue
			}
			street = s
			text = strings.Trim(re.ReplaceAllString(text, ""), " :")
			if text == "" {
				break
			}
		}
		if text == "" {
			continue
		}
		rec := Record{Street: street, Raw: text, Conf: ln.Conf}
		rest := text
		if m := seatRe.FindStringSubmatch(text); m != nil {
			rec.Seat = strings.ToUpper(m[1])
			rest = strings.TrimSpace(m[2])
		}
		for _, p := range actionPatterns {
			m := p.re.FindStringSubmatch(rest)
			if m == nil {
				continue
			}
			rec.Move = hand.NewMove(p.kind)
			rec.Matched = true
			if len(m) > 2 {
				if v, ok := parseSize(m[2]); ok {
					rec.Size = hand.Size(v)
				}
			}
			break
		}
		out = append(out, rec)
	}
	return out
}

// Actions 输出可用的动作：座位为六人桌标签、识别出动作、置信度不低于 minConf（minConf<=0 不过滤）。
// 结果按街分组，街内保持原顺序。
func Actions(records []Record, minConf float64) []hand.Action {
	byStreet := make(map[hand.Street][]hand.Action, len(hand.Streets))
	for _, rec := range records {
		if !rec.Matched {
			continue
		}
		if minConf > 0 && rec.Conf < minConf {
			continue
		}
		pos, ok := hand.ParsePosition(rec.Seat)
		if !ok {
			continue
		}
		byStreet[rec.Street] = append(byStreet[rec.Street], hand.Action{
			Street: rec.Street,
			Pos:    pos,
			Move:   rec.Move,
			Size:   rec.Size,
		})
	}
	var out []hand.Action
	for _, s := range hand.Streets {
		out = append(out, byStreet[s]...)
	}
	return out
}

// Candidate builds pipeline input from OCR lines: the cleaned text (for
// stack declarations) and the recognized actions.
func Candidate(lines []Line, minConf float64) (string, candidate.Candidate) {
	cleaned := make([]string, 0, len(lines))
	for _, ln := range lines {
		if t := Clean(ln.Text); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, "\n"), candidate.Candidate{Actions: Actions(Parse(lines), minConf)}
}

func parseSize(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
