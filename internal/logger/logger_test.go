package logger

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	defer SetLevel("info")

	SetLevel("warn")
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	SetFormat("json")
	defer SetFormat("text")
	Component("parser").Warn("bad line", "line", 3)
	assert.Contains(t, buf.String(), `"component":"parser"`)
	assert.Contains(t, buf.String(), `"line":3`)

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nope"))
}

func TestLLMTranscript(t *testing.T) {
	var buf bytes.Buffer
	SetLLMWriter(&buf)
	defer SetLLMWriter(nil)

	call := LLMCall{Kind: "vision", Provider: "gpt", Purpose: "hand"}
	LogLLMRequest(call, "sys", "user", []string{"image/png 12KB"}, "{raw}")
	LogLLMResponse(call, "<HH></HH>", 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "[LLM][vision-request][gpt][hand]")
	assert.Contains(t, out, "--- IMAGE#1 ---\nimage/png 12KB")
	assert.NotContains(t, out, "{raw}")
	assert.Contains(t, out, "[LLM][vision-response][gpt][hand]")
	assert.Contains(t, out, "1.5s")
}
