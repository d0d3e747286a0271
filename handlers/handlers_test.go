package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskradar/apperrors"
	"riskradar/config"
	"riskradar/database"
	"riskradar/logger"
	"riskradar/models"
	"riskradar/report"
	"riskradar/surveillance"
	"riskradar/workflow"
)

type stubEngine struct {
	candidates []models.CandidateEntity
	result     *models.AnalysisResult
	resolveErr error
	analyzeErr error
	lastKey    string
}

func (s *stubEngine) Resolve(_ context.Context, _ string, opts surveillance.CallOptions) ([]models.CandidateEntity, error) {
	s.lastKey = opts.APIKey
	return s.candidates, s.resolveErr
}

func (s *stubEngine) Analyze(context.Context, string, string, surveillance.CallOptions) (*models.AnalysisResult, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.result, nil
}

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	engine   *stubEngine
	settings *database.SettingsRepository
	cookie   *http.Cookie
}

func newTestServer(t *testing.T, credential string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "riskradar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	engine := &stubEngine{
		candidates: []models.CandidateEntity{{Name: "Acme Corp", Industry: "Manufacturing", Description: "Industrial parts"}},
		result: &models.AnalysisResult{
			SummarySentence: "Stable outlook.",
			BenchmarkScore:  "70/100",
			Signals: []models.RiskSignal{{
				ID:             "sig-0",
				Title:          "Line stoppage",
				Category:       models.CategoryOperational,
				Severity:       models.SeverityMedium,
				Impact:         "Short term margin pressure",
				CovenantImpact: "Minimum EBITDA covenant",
			}},
		},
	}
	log := logger.NewTestLogger(t)
	store := workflow.NewStore(func() *workflow.Workflow {
		return workflow.New(engine, workflow.Options{Credential: credential}, log)
	}, time.Hour)
	settings := database.NewSettingsRepository(db)
	h := New(store, settings, config.SessionConfig{MaxAge: 3600}, log)
	h.now = func() time.Time { return time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC) }

	return &testServer{t: t, router: h.Router(), engine: engine, settings: settings}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == defaultCookieName {
			s.cookie = c
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *testServer) commitAcme() models.Borrower {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/candidates/0/commit", "")
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Borrower models.Borrower `json:"borrower"`
	}
	decode(s.t, rec, &out)
	return out.Borrower
}

func TestPlumbingRoutes(t *testing.T) {
	s := newTestServer(t, "key")

	rec := s.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/models", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Models  []models.ModelInfo `json:"models"`
		Default models.Model       `json:"default"`
	}
	decode(t, rec, &out)
	assert.Len(t, out.Models, len(models.SupportedModels))
	assert.Equal(t, models.DefaultModel, out.Default)
}

func TestResolveCommitAndRead(t *testing.T) {
	s := newTestServer(t, "key")

	rec := s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s.cookie, "session cookie issued")
	var resolved struct {
		Candidates []models.CandidateEntity `json:"candidates"`
	}
	decode(t, rec, &resolved)
	require.Len(t, resolved.Candidates, 1)

	rec = s.do(http.MethodGet, "/api/session", "")
	var snap workflow.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, workflow.StateCandidatesPresented, snap.State)

	rec = s.do(http.MethodPost, "/api/candidates/0/commit", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var committed struct {
		Borrower models.Borrower `json:"borrower"`
	}
	decode(t, rec, &committed)
	b := committed.Borrower
	assert.Equal(t, models.SeverityMedium, b.RiskStatus)

	rec = s.do(http.MethodGet, "/api/borrowers", "")
	var list struct {
		Borrowers []models.Borrower `json:"borrowers"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Borrowers, 1)
	assert.Equal(t, b.ID, list.Borrowers[0].ID)

	rec = s.do(http.MethodGet, "/api/borrowers/"+b.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail report.Detail
	decode(t, rec, &detail)
	assert.Equal(t, "Stable outlook.", detail.Summary)
	require.Len(t, detail.Covenants, 1)
	assert.Equal(t, "Minimum EBITDA covenant", detail.Covenants[0].Clause)
	require.Len(t, detail.Ripples, 1)
	assert.Equal(t, report.NoRippleText, detail.Ripples[0].Text)

	rec = s.do(http.MethodPost, "/api/borrowers/"+b.ID+"/select", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/borrowers/"+b.ID+"/memo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "01. Subject")
	assert.Contains(t, rec.Body.String(), "TIMESTAMP: 2026-01-05")
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, "key")
	s.commitAcme()

	other := &testServer{t: t, router: s.router}
	rec := other.do(http.MethodGet, "/api/borrowers", "")
	var list struct {
		Borrowers []models.Borrower `json:"borrowers"`
	}
	decode(t, rec, &list)
	assert.Empty(t, list.Borrowers)
}

func TestDashboardPages(t *testing.T) {
	s := newTestServer(t, "key")

	rec := s.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search for a borrower")

	b := s.commitAcme()

	for _, tab := range []string{"news", "legal", "supply", "memo", "bogus"} {
		rec = s.do(http.MethodGet, "/dashboard?tab="+tab, "")
		require.Equal(t, http.StatusOK, rec.Code, tab)
		assert.Contains(t, rec.Body.String(), "Acme Corp", tab)
	}
	rec = s.do(http.MethodGet, "/dashboard?tab=legal", "")
	assert.Contains(t, rec.Body.String(), "Minimum EBITDA covenant")

	rec = s.do(http.MethodGet, "/borrowers/"+b.ID+"/memo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "04. Credit Officer Attestation")

	rec = s.do(http.MethodGet, "/borrowers/missing/memo", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t, "key")

	rec := s.do(http.MethodPost, "/api/resolve", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPost, "/api/resolve", `{"query":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/candidates/0/commit", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(http.MethodPost, "/api/candidates/x/commit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodDelete, "/api/candidates", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/borrowers/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodPost, "/api/borrowers/nope/select", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/api/candidates/7/commit", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodDelete, "/api/candidates", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	s.engine.resolveErr = apperrors.NewModelCallFailedError(errors.New("quota exceeded"))
	rec = s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, string(apperrors.KindTransient), body["kind"])
	assert.Equal(t, true, body["retryable"])
}

func TestCredentialFlow(t *testing.T) {
	s := newTestServer(t, "key")
	s.engine.resolveErr = apperrors.NewCredentialInvalidError(errors.New(apperrors.CredentialRevokedMessage))

	rec := s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, string(workflow.AuthUnauthenticated), body["authState"])

	rec = s.do(http.MethodGet, "/dashboard", "")
	assert.Contains(t, rec.Body.String(), "Authorization required")

	rec = s.do(http.MethodPut, "/api/session/credential", `{"apiKey":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.engine.resolveErr = nil
	rec = s.do(http.MethodPut, "/api/session/credential", `{"apiKey":"fresh-key"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, string(workflow.AuthConfigured), body["authState"])

	_, ok, err := s.settings.Load()
	require.NoError(t, err)
	assert.False(t, ok, "dashboard keys stay in memory")

	rec = s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh-key", s.engine.lastKey)

	// A second browser keeps the key it started with.
	other := &testServer{t: t, router: s.router, engine: s.engine, settings: s.settings}
	rec = other.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "key", s.engine.lastKey)
}

func TestMissingCredentialIsUnauthorized(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(http.MethodPost, "/api/resolve", `{"query":"Acme"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, string(apperrors.ErrCodeCredentialMissing), body["code"])
}

func TestSetModel(t *testing.T) {
	s := newTestServer(t, "key")

	rec := s.do(http.MethodPut, "/api/session/model", `{"model":"gpt-4"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, "/api/session/model", `{"model":"`+string(models.ModelGemini3Pro)+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/session", "")
	var snap workflow.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, models.ModelGemini3Pro, snap.Model)

	saved, ok, err := s.settings.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, string(models.ModelGemini3Pro), saved.Model)
}
