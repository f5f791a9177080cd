// Package rangeinject annotates hand-history action lines with the hand
// ranges a user assigned to them on the 13x13 grid.
package rangeinject

import (
	"fmt"
	"sort"
	"strings"
)

// Ranks 是网格的行列顺序，(0,0) 为 AA。
var Ranks = [13]byte{'A', 'K', 'Q', 'J', 'T', '9', '8', '7', '6', '5', '4', '3', '2'}

// Assignment binds an action key such as "UTG bets" to a list of hand codes.
type Assignment struct {
	Key   string   `json:"key"`
	Hands []string `json:"hands"`
}

// Cell is a 0-based (row, col) grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// HandName 返回网格单元对应的手牌名：对角线为对子，右上三角为 offsuit，左下三角为 suited。
// 名字总是高牌在前，(1,0) 与 (0,1) 分别是 AKs 和 AKo。
func HandName(r, c int) (string, error) {
	if r < 0 || r >= len(Ranks) || c < 0 || c >= len(Ranks) {
		return "", fmt.Errorf("grid cell (%d,%d) out of range", r, c)
	}
	a, b := Ranks[r], Ranks[c]
	switch {
	case r == c:
		return string([]byte{a, b}), nil
	case r < c:
		return string([]byte{a, b, 'o'}), nil
	default:
		return string([]byte{b, a, 's'}), nil
	}
}

// FlattenCells maps the selected cells to hand names, ordered pairs first,
// then suited, then offsuit, each by rank. Out-of-range cells are skipped.
func FlattenCells(cells []Cell) []string {
	hands := make([]string, 0, len(cells))
	for _, c := range cells {
		name, err := HandName(c.Row, c.Col)
		if err != nil {
			continue
		}
		hands = append(hands, name)
	}
	sort.SliceStable(hands, func(i, j int) bool {
		return lessHand(hands[i], hands[j])
	})
	return hands
}

func lessHand(a, b string) bool {
	ga, gb := group(a), group(b)
	if ga != gb {
		return ga < gb
	}
	if ra, rb := rankIndex(a[0]), rankIndex(b[0]); ra != rb {
		return ra < rb
	}
	return rankIndex(a[1]) < rankIndex(b[1])
}

func group(h string) int {
	switch {
	case len(h) == 2:
		return 0
	case h[2] == 's':
		return 1
	default:
		return 2
	}
}

func rankIndex(b byte) int {
	for i, r := range Ranks {
		if r == b {
			return i
		}
	}
	return len(Ranks)
}

// CompactList joins hand codes with ", ".
func CompactList(hands []string) string {
	return strings.Join(hands, ", ")
}

// Inject 为每个以 key 开头（去掉首尾空白后）的行追加 " [range: ...]"。
// 每行最多匹配一个 key，较长的 key 优先；命中但手牌列表为空的 key 只结束匹配，不追加内容。
func Inject(text string, assignments []Assignment) string {
	if text == "" || len(assignments) == 0 {
		return text
	}
	keys := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if strings.TrimSpace(a.Key) == "" {
			continue
		}
		keys = append(keys, a)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if len(keys[i].Key) != len(keys[j].Key) {
			return len(keys[i].Key) > len(keys[j].Key)
		}
		return keys[i].Key < keys[j].Key
	})

	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		for _, a := range keys {
			if !strings.HasPrefix(trimmed, a.Key) {
				continue
			}
			if len(a.Hands) > 0 {
				lines[i] = ln + " [range: " + CompactList(a.Hands) + "]"
			}
			break
		}
	}
	return strings.Join(lines, "\n")
}
