package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/bookminer"
	"github.com/zombar/bookminer/analysis"
	"github.com/zombar/bookminer/models"
)

// Server represents the API server
type Server struct {
	extractor      *bookminer.Extractor
	analyzer       *analysis.Analyzer
	addr           string
	server         *http.Server
	mux            *http.ServeMux
	corsEnabled    bool
	maxUploadBytes int64
}

// Config contains server configuration
type Config struct {
	Addr            string
	ExtractorConfig bookminer.Config
	AnalyzerConfig  analysis.Config
	CORSEnabled     bool
	MaxUploadBytes  int64
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ExtractorConfig: bookminer.DefaultConfig(),
		AnalyzerConfig:  analysis.DefaultConfig(),
		CORSEnabled:     true,
		MaxUploadBytes:  50 * 1024 * 1024, // bookmark exports rarely exceed a few MB
	}
}

// NewServer creates a new API server
func NewServer(config Config) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	s := &Server{
		extractor:      bookminer.New(config.ExtractorConfig),
		analyzer:       analysis.New(config.AnalyzerConfig),
		addr:           config.Addr,
		mux:            http.NewServeMux(),
		corsEnabled:    config.CORSEnabled,
		maxUploadBytes: config.MaxUploadBytes,
	}

	// Register routes
	s.registerRoutes()

	// Create HTTP server; the handler chain is wrapped with otelhttp so
	// incoming trace context propagates into the pipeline spans
	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      otelhttp.NewHandler(s.middleware(s.mux), "bookminer-api"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // allow time for large uploads
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.Handle("/metrics", promhttp.Handler())
}

// Start starts the API server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

// middleware applies common middleware to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS headers
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Logging (skip health checks to reduce noise)
		start := time.Now()
		if r.URL.Path != "/health" {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}

		next.ServeHTTP(w, r)

		if r.URL.Path != "/health" {
			log.Printf("%s %s - completed in %v", r.Method, r.URL.Path, time.Since(start))
		}
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// AnalyzeResponse is the envelope for every pipeline outcome. Success is
// explicit: insufficient input is a successful=false response with a
// message, not an HTTP error.
type AnalyzeResponse struct {
	Success           bool                   `json:"success"`
	ID                string                 `json:"id,omitempty"`
	Message           string                 `json:"message,omitempty"`
	ElapsedSeconds    float64                `json:"elapsed_seconds"`
	Count             int                    `json:"count,omitempty"`
	ClustersRequested int                    `json:"clusters_requested,omitempty"`
	Data              *models.AnalysisResult `json:"data,omitempty"`
}

// handleAnalyze accepts an uploaded bookmark export and runs the full
// extract-then-analyze pipeline on it
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".html") && !strings.HasSuffix(name, ".htm") {
		respondError(w, http.StatusBadRequest, "upload must be an exported .html bookmark file")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		// unreadable source is the only failure class that terminates the
		// request with an error status
		analysesTotal.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read upload: %v", err))
		return
	}
	if int64(len(raw)) > s.maxUploadBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	records := s.extractor.Extract(raw)
	if len(records) == 0 {
		analysesTotal.WithLabelValues("empty").Inc()
		respondJSON(w, http.StatusOK, AnalyzeResponse{
			Success:        false,
			Message:        "no bookmarks found in the uploaded file",
			ElapsedSeconds: time.Since(start).Seconds(),
		})
		return
	}
	if len(records) < 2 {
		analysesTotal.WithLabelValues("empty").Inc()
		respondJSON(w, http.StatusOK, AnalyzeResponse{
			Success:        false,
			Message:        "too few bookmarks for analysis",
			ElapsedSeconds: time.Since(start).Seconds(),
		})
		return
	}

	// k is chosen per invocation from the record volume; no shared setting
	k := analysis.DefaultClusterCount(len(records))
	result := s.analyzer.Analyze(records, k)

	elapsed := time.Since(start)
	bookmarksExtracted.Add(float64(len(records)))
	analysesTotal.WithLabelValues("ok").Inc()
	analysisDuration.Observe(elapsed.Seconds())

	log.Printf("analysis complete: %d records, k=%d, %.2fs", len(records), k, elapsed.Seconds())

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		Success:           true,
		ID:                uuid.New().String(),
		ElapsedSeconds:    elapsed.Seconds(),
		Count:             len(records),
		ClustersRequested: k,
		Data:              &result,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
