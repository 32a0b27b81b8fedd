// Package serve exposes the extraction pipeline over HTTP.
package serve

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtnitsch/ninja-snatch/internal/common"
	"github.com/dtnitsch/ninja-snatch/internal/extract"
	dbpkg "github.com/dtnitsch/ninja-snatch/pkg/db"
	"github.com/dtnitsch/ninja-snatch/pkg/snatch"
)

// maxRequestBytes caps the body of an extract request, inline markup included.
const maxRequestBytes = 10 << 20

// Server routes HTTP requests to a shared Runner. The runner's pipeline
// keeps no per-run state so requests are served concurrently.
type Server struct {
	runner *extract.Runner
	db     *dbpkg.DB
	logger *slog.Logger
}

// New returns a Server. database may be nil, which disables history.
func New(runner *extract.Runner, database *dbpkg.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{runner: runner, db: database, logger: logger}
}

// ExtractRequest is the body for POST /v1/extract.
type ExtractRequest struct {
	URL      string `json:"url"`
	HTML     string `json:"html"`
	Selector string `json:"selector"`
	Format   string `json:"format"`
	Sanitize bool   `json:"sanitize"`
}

// SnapshotItem is one entry of GET /v1/snapshots.
type SnapshotItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url,omitempty"`
	Selector  string    `json:"selector"`
	Mode      string    `json:"mode"`
	Live      bool      `json:"live,omitempty"`
	Fallback  bool      `json:"fallback,omitempty"`
	Nodes     int       `json:"nodes"`
	Patterns  int       `json:"patterns"`
	Rules     int       `json:"rules"`
	Title     string    `json:"title,omitempty"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleExtract captures one element from a URL or from inline markup.
// POST /v1/extract
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" && req.HTML == "" {
		writeError(w, http.StatusBadRequest, "url or html required")
		return
	}
	if req.URL != "" {
		valid, invalid := common.SanitizeAndValidateURLs([]string{req.URL})
		if len(invalid) > 0 {
			writeError(w, http.StatusBadRequest, "Invalid url")
			return
		}
		req.URL = valid[0]
	}
	format, err := snatch.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := extract.Job{URL: req.URL, HTML: req.HTML, Selector: req.Selector}
	snap, errType, err := s.runner.Snapshot(r.Context(), job)
	if err != nil {
		s.logger.Warn("Extract failed", "source", job.Source(), "error_type", errType, "error", err)
		writeError(w, statusFor(errType), err.Error())
		return
	}

	if s.db != nil {
		if err := s.db.InsertSnapshot(snap, ""); err != nil {
			s.logger.Warn("Failed to record snapshot", "id", snap.ID, "error", err)
		}
	}

	out, err := snatch.Render(snap, format, req.Sanitize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render snapshot")
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Snapshot-ID", snap.ID)
	_, _ = w.Write([]byte(out))
}

// GET /v1/snapshots?limit=N
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	list, err := s.db.ListSnapshots(limit)
	if err != nil {
		s.logger.Error("Failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	items := make([]SnapshotItem, 0, len(list))
	for _, l := range list {
		items = append(items, SnapshotItem{
			ID:        l.ID,
			URL:       l.URL,
			Selector:  l.Selector,
			Mode:      l.Mode,
			Live:      l.Live,
			Fallback:  l.Fallback,
			Nodes:     l.Nodes,
			Patterns:  l.Patterns,
			Rules:     l.Rules,
			Title:     l.Title,
			Language:  l.Language,
			CreatedAt: l.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// GET /v1/snapshots/{id}
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}
	id := chi.URLParam(r, "id")
	snap, err := s.db.GetSnapshot(id)
	if errors.Is(err, dbpkg.ErrSnapshotNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to load snapshot", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func statusFor(errType string) int {
	switch errType {
	case "no_match":
		return http.StatusNotFound
	case "pipeline_error", "parse_error", "invalid_url":
		return http.StatusUnprocessableEntity
	case "fetch_error", "browser_error":
		return http.StatusBadGateway
	case "timeout":
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func contentType(f snatch.Format) string {
	switch f {
	case snatch.FormatYAML:
		return "application/yaml"
	case snatch.FormatHTML:
		return "text/html; charset=utf-8"
	case snatch.FormatJSX:
		return "text/jsx; charset=utf-8"
	}
	return "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
