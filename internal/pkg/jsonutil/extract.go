// Package jsonutil 从模型回复等非结构化文本中截取 JSON 片段。
package jsonutil

import (
	"encoding/json"
	"regexp"
	"strings"
)

const codeFence = "```"

// ExtractJSON returns the first balanced JSON object or array in raw,
// preferring the contents of a fenced code block when present.
func ExtractJSON(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if block, ok := extractFromFence(raw); ok {
		return block, true
	}
	return extractBalanced(raw)
}

// ExtractTagged 返回 <tag>...</tag> 之间的内容（大小写不敏感，允许跨行）。
func ExtractTagged(raw, tag string) (string, bool) {
	re := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Pretty indents valid JSON and returns anything else unchanged.
func Pretty(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(buf)
}

func extractFromFence(raw string) (string, bool) {
	start := strings.Index(raw, codeFence)
	if start == -1 {
		return "", false
	}
	rest := raw[start+len(codeFence):]
	end := strings.Index(rest, codeFence)
	if end == -1 {
		return "", false
	}
	block := strings.TrimLeft(rest[:end], "\r\n")
	// 去掉 ```json 之类的语言标记行
	if idx := strings.Index(block, "\n"); idx != -1 {
		first := strings.TrimSpace(block[:idx])
		if first != "" && !strings.ContainsAny(first, "[{") {
			block = block[idx+1:]
		}
	}
	block = strings.TrimSpace(block)
	if block == "" {
		return "", false
	}
	if out, ok := extractBalanced(block); ok {
		return out, true
	}
	return "", false
}

// extractBalanced 从第一个 '{' 或 '['（取先出现者）开始做括号配对。
func extractBalanced(raw string) (string, bool) {
	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return "", false
	}
	open := raw[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}
	depth := 0
	inString := false
	escape := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return strings.TrimSpace(raw[start : i+1]), true
			}
		}
	}
	return "", false
}
