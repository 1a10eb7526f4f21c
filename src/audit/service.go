package audit

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/bitbucket"
	"github.com/stake-plus/commitaudit/src/evidence"
	"github.com/stake-plus/commitaudit/src/logging"
	"github.com/stake-plus/commitaudit/src/verdict"
)

// Request names the test cases, the repository and the expected work.
type Request struct {
	FunctionID  string `json:"function_id" binding:"required"`
	RepoSlug    string `json:"repo_slug" binding:"required"`
	RepoToken   string `json:"repo_token" binding:"required"`
	Workspace   string `json:"workspace" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Result is the success body of an analysis.
type Result struct {
	Status         string  `json:"status"`
	Progress       string  `json:"progress"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// Error carries the status and reason an analysis failed with.
type Error struct {
	Status int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Reason)
}

const (
	ReasonNoCommits     = "No commits found for the given function ID(s)."
	ReasonUpstream      = "Failed to connect to Bitbucket."
	ReasonTooLarge      = "LLM input too large."
	ReasonJudgeFailed   = "LLM processing failed."
	ReasonNoFunctionIDs = "function_id must name at least one test case."
)

type Collector interface {
	Collect(ctx context.Context, criteria evidence.Criteria, repo bitbucket.Repo) evidence.Result
}

type Extractor interface {
	Extract(ctx context.Context, records []evidence.Record, description string) verdict.Verdict
}

// Service runs the collector and then the extractor for one request.
type Service struct {
	collector Collector
	extractor Extractor
	log       *zap.Logger
}

func NewService(c Collector, x Extractor, log *zap.Logger) *Service {
	return &Service{collector: c, extractor: x, log: logging.OrNop(log)}
}

// Analyze returns the verdict for req, or an *Error describing why none
// could be produced.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	criteria := evidence.NewCriteria(evidence.ParseIDs(req.FunctionID))
	if criteria.Empty() {
		return Result{}, &Error{Status: http.StatusBadRequest, Reason: ReasonNoFunctionIDs}
	}

	repo := bitbucket.Repo{Workspace: req.Workspace, Slug: req.RepoSlug, Token: req.RepoToken}
	log := s.log.With(zap.String("workspace", repo.Workspace), zap.String("repo", repo.Slug), zap.Strings("ids", criteria.IDs()))

	collected := s.collector.Collect(ctx, criteria, repo)
	switch {
	case collected.NoMatches():
		log.Info("no matching commits", zap.Int("pages", collected.Pages))
		return Result{}, &Error{Status: http.StatusNotFound, Reason: ReasonNoCommits}
	case collected.Status != http.StatusOK:
		return Result{}, &Error{Status: collected.Status, Reason: ReasonUpstream}
	}
	log.Info("evidence collected", zap.Int("records", len(collected.Records)), zap.Int("pages", collected.Pages))

	v := s.extractor.Extract(ctx, collected.Records, req.Description)
	switch {
	case v.StatusCode == http.StatusRequestEntityTooLarge:
		return Result{}, &Error{Status: v.StatusCode, Reason: ReasonTooLarge}
	case !v.OK():
		return Result{}, &Error{Status: v.StatusCode, Reason: ReasonJudgeFailed}
	}

	log.Info("verdict", zap.String("progress", v.Alignment), zap.Float64("estimated_hours", v.EstimatedHours))
	return Result{Status: "success", Progress: v.Alignment, EstimatedHours: v.EstimatedHours}, nil
}
