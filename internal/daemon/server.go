package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/blogkit/internal/ledger"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

// Server exposes the daemon's status API and the Prometheus scrape
// endpoint.
type Server struct {
	daemon *Daemon
	server *http.Server
}

// NewServer builds the status server on addr.
func NewServer(addr string, d *Daemon) *Server {
	s := &Server{daemon: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/issues", s.handleIssues)
	r.Get("/api/history", s.handleHistory)
	r.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(d.registry))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		slog.Info("Status server listening", slog.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Status server failed", logfields.Error(err))
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying mux, for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusResponse is the /api/status payload.
type statusResponse struct {
	RunID    string    `json:"run_id"`
	RunAt    time.Time `json:"run_at"`
	Files    int       `json:"files"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	Infos    int       `json:"infos"`
	Clean    bool      `json:"clean"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	result, runID, at := s.daemon.snapshot()
	if result == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no lint run yet"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		RunID:    runID,
		RunAt:    at,
		Files:    result.FilesTotal,
		Errors:   result.ErrorCount(),
		Warnings: result.WarningCount(),
		Infos:    result.InfoCount(),
		Clean:    len(result.Issues) == 0,
	})
}

// issueResponse is one issue in the /api/issues payload.
type issueResponse struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func (s *Server) handleIssues(w http.ResponseWriter, _ *http.Request) {
	result, _, _ := s.daemon.snapshot()
	if result == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no lint run yet"})
		return
	}
	issues := make([]issueResponse, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, issueResponse{
			File:     issue.FilePath,
			Line:     issue.Line,
			Rule:     issue.Rule,
			Severity: issue.Severity.String(),
			Message:  issue.Message,
		})
	}
	writeJSON(w, http.StatusOK, issues)
}

// historyEntry is one run in the /api/history payload.
type historyEntry struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Files      int       `json:"files"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Infos      int       `json:"infos"`
	Trigger    string    `json:"trigger"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	n := 20
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be between 1 and 500"})
			return
		}
		n = parsed
	}

	runs, err := s.daemon.store.Recent(r.Context(), n)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, toHistoryEntry(run))
	}
	writeJSON(w, http.StatusOK, entries)
}

func toHistoryEntry(run ledger.Run) historyEntry {
	return historyEntry{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Files:      run.Files,
		Errors:     run.Errors,
		Warnings:   run.Warnings,
		Infos:      run.Infos,
		Trigger:    string(run.Trigger),
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", logfields.Error(err))
	}
}
