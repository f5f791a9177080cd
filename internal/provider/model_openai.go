package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hhnorm/internal/logger"
	"hhnorm/internal/pkg/circuit"
	"hhnorm/internal/pkg/text"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTimeout     = 60 * time.Second
	defaultMaxRetries  = 2
	defaultBackoff     = 800 * time.Millisecond
	maxBackoff         = 8 * time.Second
	defaultTemperature = 0.5
	maxErrorMessage    = 300
)

// OpenAIChatClient：兼容 OpenAI / DeepSeek / Qwen 的聊天补全接口（/v1/chat/completions），
// 图片以 image_url 内容块发送。
type OpenAIChatClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// 429/5xx 的重试次数；0 表示默认 2 次，负数表示不重试
	MaxRetries   int
	Backoff      time.Duration
	ExtraHeaders map[string]string
	HTTPClient   *http.Client
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

// StatusError 是非 2xx 响应。
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d: %s", e.Code, e.Message)
}

func (c *OpenAIChatClient) endpoint() string {
	url := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if url == "" {
		url = defaultBaseURL
	}
	// 配置里可能已经写了完整路径
	url = strings.TrimSuffix(url, "/chat/completions")
	return url + "/chat/completions"
}

func (c *OpenAIChatClient) buildRequest(p ChatPayload) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.System})
	}
	if len(p.Images) == 0 {
		messages = append(messages, chatMessage{Role: "user", Content: p.User})
	} else {
		parts := make([]contentPart, 0, len(p.Images)+1)
		parts = append(parts, contentPart{Type: "text", Text: p.User})
		for _, img := range p.Images {
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: img.DataURI}})
		}
		messages = append(messages, chatMessage{Role: "user", Content: parts})
	}
	req := chatRequest{Model: c.Model, Messages: messages, Temperature: defaultTemperature, MaxTokens: p.MaxTokens}
	if p.Temperature != nil {
		req.Temperature = *p.Temperature
	}
	if p.ExpectJSON {
		req.ResponseFormat = map[string]string{"type": "json_object"}
	}
	return req
}

// maskedHeaders 返回用于日志的请求头，授权类的值只保留后 4 位。
func (c *OpenAIChatClient) maskedHeaders() map[string]string {
	out := map[string]string{"Content-Type": "application/json"}
	if c.APIKey != "" {
		out["Authorization"] = "Bearer " + mask(c.APIKey)
	}
	for k, v := range c.ExtraHeaders {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "key") || strings.Contains(lk, "token") || strings.Contains(lk, "auth") {
			v = mask(v)
		}
		out[k] = v
	}
	return out
}

func mask(v string) string {
	if len(v) > 4 {
		return "****" + v[len(v)-4:]
	}
	return "****"
}

// Call sends one chat completion, retrying 429/5xx with Retry-After or
// exponential backoff.
func (c *OpenAIChatClient) Call(ctx context.Context, p ChatPayload) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := c.MaxRetries
	switch {
	case maxRetries == 0:
		maxRetries = defaultMaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	httpc := c.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: timeout}
	}

	url := c.endpoint()
	body, err := json.Marshal(c.buildRequest(p))
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	logger.Debugf("[AI] 请求: POST %s, headers=%v, images=%d, bytes=%d", url, c.maskedHeaders(), len(p.Images), len(body))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("build chat request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}
		for k, v := range c.ExtraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := httpc.Do(req)
		if err != nil {
			return "", fmt.Errorf("chat request: %w", err)
		}
		if resp.StatusCode/100 == 2 {
			var r struct {
				Choices []struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
				} `json:"choices"`
			}
			derr := json.NewDecoder(resp.Body).Decode(&r)
			resp.Body.Close()
			if derr != nil {
				return "", fmt.Errorf("decode chat response: %w", derr)
			}
			if len(r.Choices) == 0 {
				return "", errors.New("empty choices")
			}
			return r.Choices[0].Message.Content, nil
		}

		var eresp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eresp)
		resp.Body.Close()
		msg := strings.TrimSpace(eresp.Error.Message)
		if msg == "" {
			msg = resp.Status
		}
		lastErr = &StatusError{Code: resp.StatusCode, Message: text.Truncate(msg, maxErrorMessage)}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			break
		}
		wait := retryAfter(resp.Header.Get("Retry-After"))
		if wait == 0 {
			wait = backoff << attempt
			if wait > maxBackoff {
				wait = maxBackoff
			}
		}
		logger.Warnf("[AI] %s 返回 %d，%s 后重试 (%d/%d)", url, resp.StatusCode, wait, attempt+1, maxRetries)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

type chatCaller interface {
	Call(ctx context.Context, p ChatPayload) (string, error)
}

// OpenAIModelProvider 实现 ModelProvider，调用经过熔断器。
type OpenAIModelProvider struct {
	id             string
	enabled        bool
	supportsVision bool
	expectJSON     bool
	client         chatCaller
	breaker        *circuit.CircuitBreaker
}

func NewOpenAIModelProvider(id string, enabled, supportsVision, expectJSON bool, client chatCaller, breaker *circuit.CircuitBreaker) *OpenAIModelProvider {
	return &OpenAIModelProvider{
		id:             id,
		enabled:        enabled,
		supportsVision: supportsVision,
		expectJSON:     expectJSON,
		client:         client,
		breaker:        breaker,
	}
}

func (p *OpenAIModelProvider) ID() string           { return p.id }
func (p *OpenAIModelProvider) Enabled() bool        { return p.enabled }
func (p *OpenAIModelProvider) SupportsVision() bool { return p.supportsVision }
func (p *OpenAIModelProvider) ExpectsJSON() bool    { return p.expectJSON }

func (p *OpenAIModelProvider) Call(ctx context.Context, payload ChatPayload) (string, error) {
	if !p.enabled {
		return "", fmt.Errorf("provider %s is disabled", p.id)
	}
	if len(payload.Images) > 0 && !p.supportsVision {
		return "", fmt.Errorf("provider %s does not accept images", p.id)
	}
	if !payload.ExpectJSON {
		payload.ExpectJSON = p.expectJSON
	}
	if p.breaker == nil {
		return p.client.Call(ctx, payload)
	}
	var out string
	err := p.breaker.Do(func() error {
		var err error
		out, err = p.client.Call(ctx, payload)
		return err
	})
	return out, err
}
