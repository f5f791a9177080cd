package parser

import (
	"sort"
	"strings"

	"hhnorm/internal/hand"
)

// Names is the bidirectional name/position map built from the text.
type Names struct {
	PosToName map[hand.Position]string
	NameToPos map[string]hand.Position
}

// ResolveNames 依次应用三类模式："- Nick: 18 BB (UTG)"、"Nick (UTG)"、"UTG: Nick"。
// 同一位置以第一次匹配为准，之后的重复匹配被忽略。
func ResolveNames(text string) Names {
	n := Names{
		PosToName: make(map[hand.Position]string),
		NameToPos: make(map[string]hand.Position),
	}
	for _, m := range stackBulletRe.FindAllStringSubmatch(text, -1) {
		n.add(m[1], m[3])
	}
	for _, m := range nickPosRe.FindAllStringSubmatch(text, -1) {
		n.add(m[1], m[2])
	}
	for _, m := range posNickRe.FindAllStringSubmatch(text, -1) {
		n.add(m[2], m[1])
	}
	return n
}

func (n Names) add(rawName, rawPos string) {
	pos, ok := hand.ParsePosition(rawPos)
	if !ok {
		return
	}
	if _, seen := n.PosToName[pos]; seen {
		return
	}
	name := cleanName(rawName)
	if name == "" {
		return
	}
	n.PosToName[pos] = name
	if _, taken := n.NameToPos[name]; !taken {
		n.NameToPos[name] = pos
	}
}

// cleanName 去掉 bullet 前缀和冒号后的内容，拒绝空串、纯数字、位置标签、牌面列表与 "Stack..."。
func cleanName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimLeft(name, "-•* \t")
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	name = strings.Trim(strings.TrimSpace(name), "*")
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if _, isPos := hand.ParsePosition(name); isPos {
		return ""
	}
	if numericRe.MatchString(strings.ToLower(name)) {
		return ""
	}
	if strings.HasPrefix(name, "[") || strings.HasPrefix(strings.ToLower(name), "stack") {
		return ""
	}
	return name
}

// Lookup 解析行首的玩家：先取最长匹配的已知名字（"Co-pilot" 不会被读成 CO），
// 没有名字命中时再看位置标签。返回位置与行首之后剩余的文本。
func (n Names) Lookup(line string) (hand.Position, string, bool) {
	line = strings.TrimSpace(line)
	if pos, rest, ok := n.lookupName(line); ok {
		return pos, rest, true
	}
	if m := leadingPosRe.FindStringSubmatchIndex(line); m != nil {
		pos, _ := hand.ParsePosition(line[m[2]:m[3]])
		return pos, line[m[1]:], true
	}
	return "", "", false
}

func (n Names) lookupName(line string) (hand.Position, string, bool) {
	names := make([]string, 0, len(n.NameToPos))
	for name := range n.NameToPos {
		names = append(names, name)
	}
	// 最长名字优先，长度相同时按字典序，保证结果确定
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		if len(line) < len(name) || !strings.EqualFold(line[:len(name)], name) {
			continue
		}
		rest := line[len(name):]
		if rest != "" && !strings.ContainsRune(" \t:(", rune(rest[0])) {
			continue
		}
		rest = strings.TrimLeft(rest, " \t:")
		if strings.HasPrefix(rest, "(") {
			if end := strings.Index(rest, ")"); end >= 0 {
				rest = strings.TrimLeft(rest[end+1:], " \t:")
			}
		}
		return n.NameToPos[name], rest, true
	}
	return "", "", false
}
