package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/stake-plus/commitaudit/src/ai/core"
	"github.com/stake-plus/commitaudit/src/webclient"
)

const (
	defaultModelName = "gemini-2.5-flash"
	requestTimeout   = 120 * time.Second
)

func init() {
	core.RegisterProvider("gemini25", newClient, "gemini")
}

type client struct {
	genai    *genai.Client
	attempts int
	defaults core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.GeminiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: webclient.NewDefault(timeout),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &client{
		genai:    gc,
		attempts: cfg.Attempts,
		defaults: core.Options{
			Model:               core.ResolveModelName("gemini25", cfg.Model),
			Temperature:         orFloat(cfg.Temperature, 0.2),
			MaxCompletionTokens: cfg.MaxCompletionTokens,
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Respond(ctx context.Context, input string, opts core.Options) (string, error) {
	merged := core.Merge(c.defaults, opts)

	gcfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(merged.Temperature)),
	}
	// Thinking tokens count against MaxOutputTokens on 2.5 models, so the
	// cap is only sent when configured.
	if merged.MaxCompletionTokens > 0 {
		gcfg.MaxOutputTokens = int32(merged.MaxCompletionTokens)
	}
	if strings.TrimSpace(merged.SystemPrompt) != "" {
		gcfg.SystemInstruction = genai.NewContentFromText(merged.SystemPrompt, genai.RoleUser)
	}

	var text string
	_, _, err := webclient.DoWithRetry(ctx, c.attempts, 2*time.Second, func() (int, []byte, error) {
		resp, err := c.genai.Models.GenerateContent(ctx, normalizeModel(merged.Model), genai.Text(input), gcfg)
		if err != nil {
			return apiStatus(err), nil, err
		}
		text = resp.Text()
		return http.StatusOK, nil, nil
	})
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// apiStatus extracts the HTTP status from an SDK error so only 429/5xx are
// retried. Errors without one are treated as transient.
func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return defaultModelName
	}
	return strings.TrimPrefix(model, "models/")
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
