package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/stake-plus/commitaudit/src/ai/core"
	"github.com/stake-plus/commitaudit/src/verdict"
)

var (
	judgeProviders string
	judgePrompt    string
	judgeMaxLen    int
)

// judgeCmd sends a prompt straight to one or more providers and shows what
// the verdict parser makes of each reply.
var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Send a prompt to the configured judge and show the parsed answer",
	RunE:  runJudge,
}

func init() {
	judgeCmd.Flags().StringVar(&judgeProviders, "providers", "", "comma-separated providers, or all (default: configured provider)")
	judgeCmd.Flags().StringVar(&judgePrompt, "prompt", defaultJudgePrompt, "prompt sent to the judge")
	judgeCmd.Flags().IntVar(&judgeMaxLen, "max-len", 600, "truncate replies to this many bytes (0 = no limit)")
}

func runJudge(cmd *cobra.Command, args []string) error {
	targets := resolveProviders(judgeProviders)
	if len(targets) == 0 {
		targets = []string{cfg.AI.Provider}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, provider := range targets {
		fc := cfg.AI.FactoryConfig()
		fc.Provider = provider
		fc.Model = core.ResolveModelName(provider, "")
		if strings.EqualFold(provider, cfg.AI.Provider) {
			fc.Model = cfg.AI.Model
		}

		fmt.Fprintf(out, "=== %s (%s) ===\n", provider, fc.Model)
		if err := judgeOnce(cmd.Context(), fc, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d providers failed", failed, len(targets))
	}
	return nil
}

func judgeOnce(ctx context.Context, fc core.FactoryConfig, out io.Writer) error {
	client, err := core.NewClient(fc)
	if err != nil {
		return err
	}
	timeout := fc.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := client.Respond(ctx, judgePrompt, core.Options{
		Model:               fc.Model,
		Temperature:         fc.Temperature,
		MaxCompletionTokens: fc.MaxCompletionTokens,
		SystemPrompt:        fc.SystemPrompt,
	})
	if err != nil {
		return err
	}
	ans := verdict.ParseAnswer(reply)
	fmt.Fprintf(out, "reply (%.1fs):\n%s\n", time.Since(start).Seconds(), truncate(reply, judgeMaxLen))
	fmt.Fprintf(out, "parsed: progress=%s estimated_hours=%g", ans.Alignment, ans.EstimatedHours)
	if ans.HasReportedTokens {
		fmt.Fprintf(out, " reported_tokens=%d", ans.ReportedTokens)
	}
	fmt.Fprintln(out)
	return nil
}

func resolveProviders(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, "all") {
		return []string{"gemini25", "gpt4o", "sonnet45"}
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	var out []string
	seen := map[string]struct{}{}
	for _, p := range parts {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return strings.TrimSpace(text)
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return strings.TrimSpace(text[:limit]) + "...(truncated)"
}

const defaultJudgePrompt = `Description: users can reset their password by email

Commit message: add password reset endpoint testcase: [TC7]
Author: Jane Doe <jane@example.com>
Code diff:
+func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
+	token := newResetToken()
+	h.mailer.Send(r.FormValue("email"), token)
+}

Based on the description and the commit evidence, has the described functionality been implemented? Answer 'yes' or 'no'.
Output only a number: how many hours of development work does this evidence represent?`
