package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortify-solutions/compliance-hub/internal/analyze"
	"github.com/fortify-solutions/compliance-hub/internal/model"
	"github.com/fortify-solutions/compliance-hub/internal/store"
)

// Server exposes the coverage analysis engine over HTTP. It is read-only:
// the dataset is loaded once at startup and every endpoint answers from it.
type Server struct {
	store    *store.Store
	analyzer *analyze.Analyzer
	logger   *zap.Logger
	limiter  *ClientLimiter
	router   *mux.Router
	httpSrv  *http.Server
}

// NewServer wires routes, logging, and rate limiting
func NewServer(cfg model.ServerConfig, st *store.Store, analyzer *analyze.Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:    st,
		analyzer: analyzer,
		logger:   logger,
		limiter:  NewClientLimiter(cfg.RequestsPerSecond, cfg.Burst),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(s.loggingMiddleware, s.limiter.Middleware)
	v1.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	v1.HandleFunc("/requirements", s.handleListRequirements).Methods(http.MethodGet)
	v1.HandleFunc("/requirements/{id}/coverage", s.handleCoverage).Methods(http.MethodGet)
	v1.HandleFunc("/coverage/summary", s.handleSummary).Methods(http.MethodGet)

	s.router = r
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the router for testing
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting API server", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

type analyzeRequest struct {
	RequirementID string `json:"requirement_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type summaryResponse struct {
	Stats   model.SummaryStats     `json:"stats"`
	Flagged []model.AnalysisResult `json:"flagged"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.RequirementID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "requirement_id is required"})
		return
	}
	s.writeAnalysis(w, req.RequirementID)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	s.writeAnalysis(w, mux.Vars(r)["id"])
}

func (s *Server) writeAnalysis(w http.ResponseWriter, requirementID string) {
	requirement, ok := s.store.Requirement(requirementID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "requirement not found: " + requirementID})
		return
	}

	result := s.analyzer.AnalyzeRequirementCoverage(requirement, s.store.RulesForRequirement(requirementID))
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Requirements())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	requirements := s.store.Requirements()

	results := make([]model.AnalysisResult, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, s.analyzer.AnalyzeRequirementCoverage(req, s.store.RulesForRequirement(req.ID)))
	}

	flagged := make([]model.AnalysisResult, 0)
	for _, result := range results {
		if len(result.Warnings) > 0 {
			flagged = append(flagged, result)
		}
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Stats:   analyze.CoverageSummary(results),
		Flagged: flagged,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
