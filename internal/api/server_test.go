package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fortify-solutions/compliance-hub/internal/analyze"
	"github.com/fortify-solutions/compliance-hub/internal/model"
	"github.com/fortify-solutions/compliance-hub/internal/store"
)

const testDataset = `
requirements:
  - id: req-001
    title: Currency Transaction Reporting
    reference: 31 CFR 1010.311
    text: "Systems must: (1) Monitor cash deposits above $10,000, (2) Aggregate same-day currency transactions."
  - id: req-002
    title: Suspicious Activity Reporting
    text: A bank must report suspicious transactions conducted or attempted through the bank.
rules:
  - id: rule-001
    name: Cash Deposit Monitoring
    category: cash
    description: Detects structured cash deposit activity across customer accounts
    requirements: [req-001]
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Parse([]byte(testDataset))
	require.NoError(t, err)

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false

	return NewServer(cfg.Server, st, analyze.New(cfg), zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := bytes.NewBufferString(`{"requirement_id": "req-001"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "req-001", result.RequirementID)
	assert.Equal(t, 1, result.RuleCount)
	assert.True(t, result.MultipleObligations)
}

func TestAnalyzeEndpoint_MissingID(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpoint_BadBody(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString("not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoverageEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/requirements/req-002/coverage", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "req-002", result.RequirementID)
	// req-002 has no linked rules but real obligations.
	assert.Equal(t, model.RiskCritical, result.RiskLevel)
}

func TestCoverageEndpoint_UnknownRequirement(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/requirements/req-999/coverage", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "req-999")
}

func TestListRequirementsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/requirements", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var requirements []model.Requirement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &requirements))
	require.Len(t, requirements, 2)
	assert.Equal(t, "req-001", requirements[0].ID)
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/coverage/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Stats.TotalRequirements)
	// req-002 has obligations and no rules, so it must be flagged.
	require.NotEmpty(t, summary.Flagged)
	assert.Equal(t, 1, summary.Stats.CriticalGaps)
}

func TestRateLimiting(t *testing.T) {
	st, err := store.Parse([]byte(testDataset))
	require.NoError(t, err)

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Server.RequestsPerSecond = 0.1
	cfg.Server.Burst = 1

	srv := NewServer(cfg.Server, st, analyze.New(cfg), zap.NewNop())

	first := httptest.NewRecorder()
	srv.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/requirements", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/requirements", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	limiter := NewClientLimiter(0.1, 1)

	assert.True(t, limiter.Allow("10.0.0.1:1234"))
	assert.False(t, limiter.Allow("10.0.0.1:5678"), "same host should share a bucket")
	assert.True(t, limiter.Allow("10.0.0.2:1234"), "different host gets its own bucket")
}
