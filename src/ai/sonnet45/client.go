package sonnet45

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stake-plus/commitaudit/src/ai/core"
	"github.com/stake-plus/commitaudit/src/webclient"
)

const (
	anthropicEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultMaxTokens   = 2048
	defaultTemperature = 0.1
	requestTimeout     = 90 * time.Second
)

func init() {
	core.RegisterProvider("sonnet45", newClient, "claude")
}

type client struct {
	apiKey     string
	endpoint   string
	attempts   int
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.ClaudeKey == "" {
		return nil, fmt.Errorf("sonnet-4.5: Claude API key not configured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}

	return &client{
		apiKey:     cfg.ClaudeKey,
		endpoint:   valueOrDefault(cfg.BaseURL, anthropicEndpoint),
		attempts:   cfg.Attempts,
		httpClient: webclient.NewDefault(timeout),
		defaults: core.Options{
			Model:               core.ResolveModelName("sonnet45", cfg.Model),
			Temperature:         orFloat(cfg.Temperature, defaultTemperature),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Respond(ctx context.Context, input string, opts core.Options) (string, error) {
	merged := core.Merge(c.defaults, opts)

	body := map[string]interface{}{
		"model":       merged.Model,
		"max_tokens":  orInt(merged.MaxCompletionTokens, defaultMaxTokens),
		"temperature": merged.Temperature,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]string{
					{"type": "text", "text": input},
				},
			},
		},
	}
	if strings.TrimSpace(merged.SystemPrompt) != "" {
		body["system"] = merged.SystemPrompt
	}

	bodyBytes, _ := json.Marshal(body)
	_, payload, err := webclient.DoWithRetry(ctx, c.attempts, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("sonnet-4.5: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Content []contentChunk `json:"content"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("sonnet-4.5: parse error: %w", err)
	}

	text := extractText(result.Content)
	if text == "" {
		return "", fmt.Errorf("sonnet-4.5: empty response")
	}
	return text, nil
}

type contentChunk struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func extractText(chunks []contentChunk) string {
	var builder strings.Builder
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk.Text) == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(chunk.Text)
	}
	return strings.TrimSpace(builder.String())
}

func valueOrDefault(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
