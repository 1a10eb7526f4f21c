package verdict

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/OneOfOne/xxhash"
	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/ai/core"
	"github.com/stake-plus/commitaudit/src/evidence"
	"github.com/stake-plus/commitaudit/src/logging"
)

// Verdict is the judge's structured answer. Alignment is "none" when the
// reply carried no yes/no or the judge failed; EstimatedHours is then 0.
type Verdict struct {
	Alignment      string  `json:"progress"`
	EstimatedHours float64 `json:"estimated_hours"`
	StatusCode     int     `json:"-"`
}

// OK reports whether the judge produced a reply.
func (v Verdict) OK() bool {
	return v.StatusCode == http.StatusOK
}

// Extractor asks a judge whether evidence matches a description.
type Extractor struct {
	judge core.Client
	opts  core.Options
	log   *zap.Logger
}

type Option func(*Extractor)

// WithOptions sets per-call model options passed to the judge.
func WithOptions(o core.Options) Option { return func(e *Extractor) { e.opts = o } }

func WithLogger(l *zap.Logger) Option { return func(e *Extractor) { e.log = logging.OrNop(l) } }

func NewExtractor(judge core.Client, opts ...Option) *Extractor {
	e := &Extractor{judge: judge, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the prompt, calls the judge once and parses its reply.
func (e *Extractor) Extract(ctx context.Context, records []evidence.Record, description string) Verdict {
	prompt := BuildPrompt(records, description)

	e.log.Info("sending evidence to judge",
		zap.Int("records", len(records)),
		zap.Int("estimated_tokens", EstimateTokens(prompt)),
		zap.String("prompt_hash", fmt.Sprintf("%016x", xxhash.ChecksumString64(prompt))))

	reply, err := e.judge.Respond(ctx, prompt, e.opts)
	if err != nil {
		if logging.IsTokenLimit(err) {
			e.log.Warn("judge input token limit exceeded", zap.Error(err))
			return Verdict{Alignment: AlignmentNone, StatusCode: http.StatusRequestEntityTooLarge}
		}
		e.log.Error("judge call failed", zap.Error(err), zap.Bool("rate_limited", logging.IsRateLimit(err)))
		return Verdict{Alignment: AlignmentNone, StatusCode: http.StatusInternalServerError}
	}

	reply = strings.TrimSpace(reply)
	e.log.Debug("judge output", zap.String("text", reply))

	ans := ParseAnswer(reply)
	if ans.HasReportedTokens {
		e.log.Info("judge-reported input token count", zap.Int("tokens", ans.ReportedTokens))
	} else {
		e.log.Info("judge-reported input token count unknown")
	}
	if ans.Alignment == AlignmentNone {
		e.log.Warn("no yes/no found in judge output", zap.Float64("discarded_hours", ans.EstimatedHours))
		ans.EstimatedHours = 0
	}

	return Verdict{Alignment: ans.Alignment, EstimatedHours: ans.EstimatedHours, StatusCode: http.StatusOK}
}
