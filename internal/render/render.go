// Package render turns a normalized hand back into text: the markdown-style
// hand history the parser reads, and the one-line context used in coaching
// prompts.
package render

import (
	"fmt"
	"strings"

	"hhnorm/internal/hand"
	"hhnorm/internal/replay"
)

// HHText 输出 "**Players and Stacks:**" 格式的手牌记录，parser.Extract 可以原样读回。
// 有名字的座位写成 "- Name: 100 BB (UTG)"，否则写成 "- UTG: Stack 100 BB"。
func HHText(h hand.ParsedHand) string {
	var b strings.Builder
	b.WriteString("**Players and Stacks:**\n")
	for _, p := range h.Players {
		if name := safeName(p.Name); name != "" {
			fmt.Fprintf(&b, "- %s: %s BB (%s)\n", name, replay.FormatBB(p.Stack), p.Pos)
		} else {
			fmt.Fprintf(&b, "- %s: Stack %s BB\n", p.Pos, replay.FormatBB(p.Stack))
		}
	}

	var holes []string
	for _, p := range h.Players {
		if len(p.Hole) > 0 {
			holes = append(holes, fmt.Sprintf("- %s: [%s]", p.Pos, strings.Join(p.Hole, " ")))
		}
	}
	if len(holes) > 0 {
		b.WriteString("\n**Hole Cards:**\n")
		b.WriteString(strings.Join(holes, "\n"))
		b.WriteByte('\n')
	}

	if !h.Board.Empty() {
		b.WriteString("\n**Board:**\n")
		if len(h.Board.Flop) > 0 {
			fmt.Fprintf(&b, "- Flop: [%s]\n", strings.Join(h.Board.Flop, " "))
		}
		if h.Board.Turn != "" {
			fmt.Fprintf(&b, "- Turn: [%s]\n", h.Board.Turn)
		}
		if h.Board.River != "" {
			fmt.Fprintf(&b, "- River: [%s]\n", h.Board.River)
		}
	}

	for _, street := range hand.Streets {
		var lines []string
		for _, a := range h.Actions {
			if a.Street != street {
				continue
			}
			lines = append(lines, actionLine(a))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n**%s Actions:**\n", street)
		for _, ln := range lines {
			b.WriteString("- ")
			b.WriteString(ln)
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func actionLine(a hand.Action) string {
	line := fmt.Sprintf("%s %s", a.Pos, a.Move)
	if a.Size != nil {
		line += " " + replay.FormatBB(*a.Size) + " BB"
	}
	return line
}

// safeName drops characters that would break the stack line pattern.
func safeName(name string) string {
	name = strings.NewReplacer(":", " ", "(", " ", ")", " ", "\n", " ", "\r", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Summary renders the players and actions as the two-line context block
// handed to the coach.
func Summary(h hand.ParsedHand) string {
	players := make([]string, 0, len(h.Players))
	for _, p := range h.Players {
		item := fmt.Sprintf("%s: %s %sbb", p.Pos, p.Name, replay.FormatBB(p.Stack))
		players = append(players, strings.Join(strings.Fields(item), " "))
	}
	actions := make([]string, 0, len(h.Actions))
	for _, a := range h.Actions {
		item := fmt.Sprintf("%s %s %s", a.Street, a.Pos, a.Move)
		if a.Size != nil && *a.Size != 0 {
			item += " " + replay.FormatBB(*a.Size) + "bb"
		}
		actions = append(actions, item)
	}
	return "Players: " + strings.Join(players, ", ") + "\nActions: " + strings.Join(actions, "; ")
}
