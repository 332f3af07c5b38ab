package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/observability"
	"resumeforge/internal/types"
)

func newTestServer(t *testing.T, opts Options) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.DefaultFormat = "json"
	cfg.App.MaxSuggestions = 10
	cfg.App.MinRelevance = 40
	cfg.Observability.HealthCheck.Timeout = 5 * time.Second
	cfg.Observability.HealthCheck.AIModelCheckTimeout = 2 * time.Second

	logger := errors.NewLogger(slog.LevelError)

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	require.NoError(t, err)

	return NewServer(cfg, opts, logger), om
}

func sampleResume() types.ResumeContent {
	return types.ResumeContent{
		PersonalInfo: types.PersonalInfo{
			Name:  "Jordan Reyes",
			Email: "jordan.reyes@example.com",
		},
		Summary: "Backend engineer with six years building Go services.",
		Skills:  []string{"Go", "PostgreSQL", "Docker", "Kubernetes"},
		Experience: []types.Experience{
			{
				Company: "Acme Corp",
				Title:   "Senior Software Engineer",
				Bullets: []string{
					"Built a payment processing service in Go handling 2M requests per day",
					"Reduced API latency by 40% through query optimization",
				},
			},
		},
	}
}

const sampleJobDescription = `Senior Backend Engineer

We are looking for a senior engineer to join our platform team.

Requirements:
- 5+ years of experience with Go
- Strong knowledge of PostgreSQL and Docker
- Experience with Kubernetes is a plus
- Bachelor's degree in computer science or equivalent`

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyzeHandlerHeuristicPath(t *testing.T) {
	s, om := newTestServer(t, Options{})

	rec := postJSON(t, s.createAnalyzeHandler(om), AnalyzeRequest{JobDescription: sampleJobDescription})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.JobAnalysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Contains(t, result.RequiredSkills, "Docker")
	assert.Equal(t, "senior", result.ExperienceLevel)
}

func TestAnalyzeHandlerRejectsEmptyJob(t *testing.T) {
	s, om := newTestServer(t, Options{})

	rec := postJSON(t, s.createAnalyzeHandler(om), AnalyzeRequest{JobDescription: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerRejectsWrongContentType(t *testing.T) {
	s, om := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("job"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.createAnalyzeHandler(om)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchHandler(t *testing.T) {
	s, om := newTestServer(t, Options{})

	rec := postJSON(t, s.createMatchHandler(om), MatchRequest{
		Resume:         sampleResume(),
		JobDescription: sampleJobDescription,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.MatchAnalysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Greater(t, result.OverallScore, 0)
	assert.Contains(t, result.KeywordMatches, "Docker")
	assert.Greater(t, result.ATSComplianceScore, 0)
}

func TestATSHandler(t *testing.T) {
	s, om := newTestServer(t, Options{})

	resumeText := `Jordan Reyes
jordan.reyes@example.com | 555-123-4567

Summary
Backend engineer with six years of Go experience.

Experience
Senior Software Engineer, Acme Corp
- Built a payment processing service in Go

Education
B.S. Computer Science, State University

Skills
Go, PostgreSQL, Docker`

	rec := postJSON(t, s.createATSHandler(om), ATSRequest{ResumeText: resumeText})
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.ATSReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Greater(t, report.OverallScore, 0)
	assert.NotEmpty(t, report.Factors)
}

func TestATSHandlerRejectsEmptyText(t *testing.T) {
	s, om := newTestServer(t, Options{})

	rec := postJSON(t, s.createATSHandler(om), ATSRequest{ResumeText: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseHandlerWithTextUpload(t *testing.T) {
	s, om := newTestServer(t, Options{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(`Jordan Reyes
jordan.reyes@example.com

Skills
Go, PostgreSQL, Docker`))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.createParseHandler(om)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resume types.ResumeContent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resume))
	assert.Contains(t, resume.Skills, "Docker")
}

func TestParseHandlerMissingFile(t *testing.T) {
	s, om := newTestServer(t, Options{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.createParseHandler(om)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseHandlerRejectsUnsupportedExtension(t *testing.T) {
	s, om := newTestServer(t, Options{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "resume.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a resume"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.createParseHandler(om)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s, _ := newTestServer(t, Options{APIKeys: []string{"valid-key-12345"}})

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid header key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-API-Key", "valid-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer valid-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuthMiddlewareSkipsWhenNoKeysConfigured(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	s, om := newTestServer(t, Options{MaxRequestSize: 64})

	handler := s.requestSizeLimitMiddleware()(s.createATSHandler(om))

	body, err := json.Marshal(ATSRequest{ResumeText: strings.Repeat("x", 1024)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVersionHandler(t *testing.T) {
	s, _ := newTestServer(t, Options{Version: "1.2.3"})

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	s.versionHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "1.2.3", response["version"])
	assert.Equal(t, "resumeforge", response["service"])
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey("12345678"))
	assert.Equal(t, "12345678****", maskAPIKey("123456789abcdef"))
}
