package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/commitaudit/src/ai/core"
	"github.com/stake-plus/commitaudit/src/audit"
	"github.com/stake-plus/commitaudit/src/bitbucket"
	"github.com/stake-plus/commitaudit/src/evidence"
	"github.com/stake-plus/commitaudit/src/verdict"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type analyzerFunc func(ctx context.Context, req audit.Request) (audit.Result, error)

func (f analyzerFunc) Analyze(ctx context.Context, req audit.Request) (audit.Result, error) {
	return f(ctx, req)
}

const validBody = `{"function_id":"TC1","repo_slug":"repo","repo_token":"tok","workspace":"ws","description":"login works"}`

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAnalyze_Success(t *testing.T) {
	var got audit.Request
	r := New(analyzerFunc(func(_ context.Context, req audit.Request) (audit.Result, error) {
		got = req
		return audit.Result{Status: "success", Progress: "yes", EstimatedHours: 12}, nil
	}), Options{})

	w := post(t, r, validBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","progress":"yes","estimated_hours":12}`, w.Body.String())
	assert.Equal(t, "TC1", got.FunctionID)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAnalyze_AuditErrorStatus(t *testing.T) {
	r := New(analyzerFunc(func(context.Context, audit.Request) (audit.Result, error) {
		return audit.Result{}, &audit.Error{Status: http.StatusRequestEntityTooLarge, Reason: audit.ReasonTooLarge}
	}), Options{})

	w := post(t, r, validBody)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, audit.ReasonTooLarge, decode(t, w)["detail"])
}

func TestAnalyze_UnexpectedError(t *testing.T) {
	r := New(analyzerFunc(func(context.Context, audit.Request) (audit.Result, error) {
		return audit.Result{}, errors.New("boom")
	}), Options{})

	w := post(t, r, validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAnalyze_MissingField(t *testing.T) {
	r := New(analyzerFunc(func(context.Context, audit.Request) (audit.Result, error) {
		t.Fatal("analyzer must not run")
		return audit.Result{}, nil
	}), Options{})

	w := post(t, r, `{"function_id":"TC1"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	r := New(analyzerFunc(func(context.Context, audit.Request) (audit.Result, error) {
		return audit.Result{Status: "success"}, nil
	}), Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	r := New(analyzerFunc(func(context.Context, audit.Request) (audit.Result, error) {
		return audit.Result{}, nil
	}), Options{CORSOrigins: []string{"https://ok.example"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://ok.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://ok.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

type cannedJudge struct {
	reply string
	err   error
}

func (j cannedJudge) Respond(context.Context, string, core.Options) (string, error) {
	return j.reply, j.err
}

// pipeline wires the real collector, extractor and service against a fake
// Bitbucket that serves one page with a single tagged commit.
func pipeline(t *testing.T, judge core.Client, firstStatus int) http.Handler {
	t.Helper()
	bb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/commits"):
			if firstStatus != 0 {
				w.WriteHeader(firstStatus)
				return
			}
			_, _ = w.Write([]byte(`{"values":[{"hash":"abc","message":"add login\n\ntestcase: [TC1, TC9]","author":{"raw":"Jane Doe <jane@x.com>"}}]}`))
		case strings.HasSuffix(r.URL.Path, "/diff/abc"):
			_, _ = w.Write([]byte("+login"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(bb.Close)

	collector := evidence.NewCollector(bitbucket.NewClient(bb.URL, 0))
	extractor := verdict.NewExtractor(judge)
	return New(audit.NewService(collector, extractor, nil), Options{})
}

func TestPipeline_EndToEnd(t *testing.T) {
	w := post(t, pipeline(t, cannedJudge{reply: "no, 8, 450"}, 0), validBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","progress":"no","estimated_hours":8}`, w.Body.String())
}

func TestPipeline_NoMatchingCommits(t *testing.T) {
	body := strings.Replace(validBody, `"TC1"`, `"TC404"`, 1)

	w := post(t, pipeline(t, cannedJudge{reply: "yes 1"}, 0), body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, audit.ReasonNoCommits, decode(t, w)["detail"])
}

func TestPipeline_UpstreamFailure(t *testing.T) {
	w := post(t, pipeline(t, cannedJudge{reply: "yes 1"}, http.StatusServiceUnavailable), validBody)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, audit.ReasonUpstream, decode(t, w)["detail"])
}

func TestPipeline_JudgeTokenLimit(t *testing.T) {
	w := post(t, pipeline(t, cannedJudge{err: errors.New("too many tokens")}, 0), validBody)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, audit.ReasonTooLarge, decode(t, w)["detail"])
}
