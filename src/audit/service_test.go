package audit

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/commitaudit/src/bitbucket"
	"github.com/stake-plus/commitaudit/src/evidence"
	"github.com/stake-plus/commitaudit/src/verdict"
)

type fakeCollector struct {
	result   evidence.Result
	criteria evidence.Criteria
	repo     bitbucket.Repo
}

func (f *fakeCollector) Collect(_ context.Context, c evidence.Criteria, r bitbucket.Repo) evidence.Result {
	f.criteria = c
	f.repo = r
	return f.result
}

type fakeExtractor struct {
	verdict     verdict.Verdict
	called      bool
	description string
}

func (f *fakeExtractor) Extract(_ context.Context, _ []evidence.Record, d string) verdict.Verdict {
	f.called = true
	f.description = d
	return f.verdict
}

var req = Request{FunctionID: "TC1, TC2", RepoSlug: "repo", RepoToken: "tok", Workspace: "ws", Description: "login works"}

func oneRecord() evidence.Result {
	return evidence.Result{Status: http.StatusOK, Records: []evidence.Record{{Hash: "a"}}, Pages: 1}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ae *Error
	require.True(t, errors.As(err, &ae), "want *audit.Error, got %v", err)
	return ae.Status
}

func TestAnalyze_Success(t *testing.T) {
	col := &fakeCollector{result: oneRecord()}
	ext := &fakeExtractor{verdict: verdict.Verdict{Alignment: "yes", EstimatedHours: 6, StatusCode: http.StatusOK}}

	res, err := NewService(col, ext, nil).Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, Result{Status: "success", Progress: "yes", EstimatedHours: 6}, res)
	assert.Equal(t, []string{"TC1", "TC2"}, col.criteria.IDs())
	assert.Equal(t, bitbucket.Repo{Workspace: "ws", Slug: "repo", Token: "tok"}, col.repo)
	assert.Equal(t, "login works", ext.description)
}

func TestAnalyze_ParseMissIsSuccess(t *testing.T) {
	col := &fakeCollector{result: oneRecord()}
	ext := &fakeExtractor{verdict: verdict.Verdict{Alignment: verdict.AlignmentNone, StatusCode: http.StatusOK}}

	res, err := NewService(col, ext, nil).Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "none", res.Progress)
}

func TestAnalyze_NoMatches(t *testing.T) {
	ext := &fakeExtractor{}
	_, err := NewService(&fakeCollector{result: evidence.Result{Status: http.StatusNotFound}}, ext, nil).Analyze(context.Background(), req)

	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	assert.EqualError(t, err, "404: "+ReasonNoCommits)
	assert.False(t, ext.called)
}

func TestAnalyze_UpstreamFailurePassesThrough(t *testing.T) {
	col := &fakeCollector{result: evidence.Result{Status: http.StatusServiceUnavailable, Upstream: true}}

	_, err := NewService(col, &fakeExtractor{}, nil).Analyze(context.Background(), req)

	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
	assert.Contains(t, err.Error(), ReasonUpstream)
}

func TestAnalyze_Upstream404KeepsUpstreamReason(t *testing.T) {
	col := &fakeCollector{result: evidence.Result{Status: http.StatusNotFound, Upstream: true}}

	_, err := NewService(col, &fakeExtractor{}, nil).Analyze(context.Background(), req)

	assert.EqualError(t, err, "404: "+ReasonUpstream)
}

func TestAnalyze_JudgeOutcomes(t *testing.T) {
	tests := []struct {
		status int
		reason string
	}{
		{http.StatusRequestEntityTooLarge, ReasonTooLarge},
		{http.StatusInternalServerError, ReasonJudgeFailed},
	}
	for _, tt := range tests {
		ext := &fakeExtractor{verdict: verdict.Verdict{Alignment: verdict.AlignmentNone, StatusCode: tt.status}}

		_, err := NewService(&fakeCollector{result: oneRecord()}, ext, nil).Analyze(context.Background(), req)

		var ae *Error
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, tt.status, ae.Status)
		assert.Equal(t, tt.reason, ae.Reason)
	}
}

func TestAnalyze_BlankFunctionID(t *testing.T) {
	col := &fakeCollector{}
	bad := req
	bad.FunctionID = " , "

	_, err := NewService(col, &fakeExtractor{}, nil).Analyze(context.Background(), bad)

	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
