package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resumeforge/internal/ai"
	"resumeforge/internal/analyzer"
	"resumeforge/internal/ats"
	"resumeforge/internal/export"
	"resumeforge/internal/extract"
	"resumeforge/internal/match"
	"resumeforge/internal/observability"
	"resumeforge/internal/parser"
	"resumeforge/internal/suggest"
	"resumeforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createParseHandler handles resume uploads, extracting text and structuring it
func (s *Server) createParseHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.parse")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume file", "multipart field 'file' is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.Warn("Failed to close uploaded file", "error", err)
			}
		}()

		if err := extract.ValidateUpload(header.Filename, header.Size); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid resume file", err.Error(), http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to read resume file", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", header.Filename),
			attribute.Int64("request.file_size", header.Size),
			attribute.String("operation", "parse"),
		)

		metrics := om.GetMetrics()

		text, err := extract.Text(data, header.Filename)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "extraction"))
			metrics.RecordBusinessMetric(ctx, "resume_parsed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to extract resume text", err.Error(), http.StatusUnprocessableEntity)
			return
		}

		resume := parser.Parse(text)

		metrics.RecordBusinessMetric(ctx, "resume_parsed", true, om,
			attribute.Int("output.skills_count", len(resume.Skills)),
			attribute.Int("output.experience_count", len(resume.Experience)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("output.skills_count", len(resume.Skills)),
		)

		writeJSONResponse(w, resume)
	}
}

// createAnalyzeHandler analyzes a job description, preferring the AI path
// and falling back to the heuristic analyzer when no API key is configured
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		metrics := om.GetMetrics()

		analyzeConfig := s.AppConfig.GetAnalyzeConfig()
		if analyzeConfig.APIKey == "" {
			// Heuristic analysis needs no credential
			result := analyzer.Analyze(req.JobDescription)
			span.SetAttributes(
				attribute.Bool("success", true),
				attribute.String("analysis.path", "heuristic"),
			)
			metrics.RecordBusinessMetric(ctx, "job_analyzed", true, om,
				attribute.String("path", "heuristic"),
				attribute.Int("required_skills_count", len(result.RequiredSkills)))
			writeJSONResponse(w, result)
			return
		}

		aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		var result types.JobAnalysis
		err = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.Provider.AnalyzeJob(ctx, req.JobDescription)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "job_analyzed", false, om)
			writeErrorResponse(w, "Failed to analyze job description", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "job_analyzed", true, om,
			attribute.String("path", "ai"),
			attribute.Int("required_skills_count", len(result.RequiredSkills)),
			attribute.String("experience_level", result.ExperienceLevel))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("analysis.path", "ai"),
			attribute.Int("required_skills_count", len(result.RequiredSkills)),
		)

		writeJSONResponse(w, result)
	}
}

// createMatchHandler scores a structured resume against a job description
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "match"),
		)

		job := analyzer.Analyze(req.JobDescription)

		atsReport, err := ats.Check(export.PlainText(req.Resume))
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to check ATS compliance", err.Error(), http.StatusInternalServerError)
			return
		}

		result := match.Analysis(req.Resume, job, nil, atsReport.OverallScore)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "match_computed", true, om,
			attribute.Int("overall_score", result.OverallScore),
			attribute.Int("missing_keywords_count", len(result.MissingKeywords)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("overall_score", result.OverallScore),
		)

		writeJSONResponse(w, result)
	}
}

// createSuggestHandler generates improvement suggestions for a resume
func (s *Server) createSuggestHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.suggest")
		defer span.End()

		var req SuggestRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "suggest"),
		)

		suggestConfig := s.AppConfig.GetSuggestConfig()
		aiService, err := ai.NewService(&suggestConfig, "suggest", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		job := analyzer.Analyze(req.JobDescription)

		engine := suggest.NewEngine(aiService.Provider, s.Logger, suggest.Options{
			MaxSuggestions: s.AppConfig.App.MaxSuggestions,
			MinRelevance:   s.AppConfig.App.MinRelevance,
		})
		suggestions := engine.Generate(ctx, req.Resume, job)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "suggestions_generated", true, om,
			attribute.Int("suggestions_count", len(suggestions)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("suggestions_count", len(suggestions)),
		)

		writeJSONResponse(w, suggestions)
	}
}

// createATSHandler runs the ATS compliance check over flattened resume text
func (s *Server) createATSHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumeforge.api")
		ctx, span := tracer.Start(ctx, "api.ats")
		defer span.End()

		var req ATSRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "ats"),
		)

		report, err := ats.Check(req.ResumeText)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to check ATS compliance", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "ats_checked", true, om,
			attribute.Int("overall_score", report.OverallScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("overall_score", report.OverallScore),
		)

		writeJSONResponse(w, report)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSONResponse encodes a successful result
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
