package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

var (
	llmMu          sync.Mutex
	llmLog         *log.Logger
	llmDumpPayload bool
)

// LLMCall identifies one model round trip in the transcript log.
type LLMCall struct {
	Kind     string // vision | coach
	Provider string
	Purpose  string
}

func (c LLMCall) tag(suffix string) string {
	var b strings.Builder
	b.WriteString("[LLM]")
	for _, part := range []string{c.Kind + "-" + suffix, c.Provider, c.Purpose} {
		if strings.Trim(part, "-") == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(part)
		b.WriteString("]")
	}
	return b.String()
}

// SetLLMWriter 设置模型对话日志输出；nil 关闭记录。
func SetLLMWriter(w io.Writer) {
	llmMu.Lock()
	defer llmMu.Unlock()
	if w == nil {
		llmLog = nil
		return
	}
	llmLog = log.New(w, "", log.LstdFlags)
}

func EnableLLMPayloadDump(enabled bool) {
	llmMu.Lock()
	llmDumpPayload = enabled
	llmMu.Unlock()
}

type llmSection struct {
	Title string
	Body  string
}

func writeLLM(header string, sections []llmSection) {
	llmMu.Lock()
	l := llmLog
	llmMu.Unlock()
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, sec := range sections {
		title := strings.TrimSpace(sec.Title)
		if title == "" {
			title = "CONTENT"
		}
		b.WriteString("--- " + title + " ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

// LogLLMRequest 记录请求。图片只记录描述（类型与大小），原始数据仅在开启 payload dump 时写出。
func LogLLMRequest(call LLMCall, systemPrompt, userPrompt string, images []string, payload string) {
	sections := []llmSection{
		{Title: "SYSTEM", Body: systemPrompt},
		{Title: "USER", Body: userPrompt},
	}
	for i, img := range images {
		sections = append(sections, llmSection{Title: fmt.Sprintf("IMAGE#%d", i+1), Body: img})
	}
	llmMu.Lock()
	dump := llmDumpPayload
	llmMu.Unlock()
	if dump && strings.TrimSpace(payload) != "" {
		sections = append(sections, llmSection{Title: "PAYLOAD", Body: payload})
	}
	writeLLM(call.tag("request"), sections)
}

func LogLLMResponse(call LLMCall, raw string, elapsed time.Duration) {
	writeLLM(call.tag("response"), []llmSection{
		{Title: "ELAPSED", Body: elapsed.Round(time.Millisecond).String()},
		{Title: "RAW", Body: raw},
	})
}
