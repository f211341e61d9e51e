// Package server serves the dashboard over HTTP. Each browser gets its own
// dashboard.Controller, keyed by a uuid held in the seo_session cookie.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/analyzer"
	"github.com/helmcode/seo-ai/pkg/dashboard"
	"github.com/helmcode/seo-ai/pkg/locale"
	"github.com/helmcode/seo-ai/pkg/metrics"
	"github.com/helmcode/seo-ai/pkg/model"
	"github.com/helmcode/seo-ai/pkg/report"
)

const (
	cookieName = "seo_session"

	// DefaultIdleTimeout drops sessions nobody has touched for this long.
	DefaultIdleTimeout = time.Hour
	// DefaultMaxSessions caps live sessions; the least recently seen one is
	// evicted to make room.
	DefaultMaxSessions = 1000

	maxBodyBytes = 1 << 16
)

type Options struct {
	Analyzer    *analyzer.Analyzer
	Locale      locale.Locale
	StepDelay   time.Duration
	IdleTimeout time.Duration
	MaxSessions int
	Logger      *zap.Logger
	// Metrics is optional; /metrics is not routed without it.
	Metrics *metrics.Collector
	Now     func() time.Time
}

type Server struct {
	opts   Options
	logger *zap.Logger
	mux    *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	ctrl     *dashboard.Controller
	lastSeen time.Time
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Locale == "" {
		opts.Locale = locale.Default
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		mux:      http.NewServeMux(),
		sessions: map[string]*entry{},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/session", s.handleSnapshot)
	s.mux.HandleFunc("POST /api/session", s.handleSubmit)
	s.mux.HandleFunc("DELETE /api/session", s.handleReset)
	s.mux.HandleFunc("POST /api/session/modules/{module}", s.handleSelect)
	s.mux.HandleFunc("POST /api/session/fix", s.handleFix)
	s.mux.HandleFunc("GET /api/session/report", s.handleReport)
	if s.opts.Metrics != nil {
		s.mux.Handle("GET /metrics", s.opts.Metrics.Handler(s.logger))
	}
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Close cancels every session's pipelines and waits for them.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = map[string]*entry{}
	s.mu.Unlock()

	for _, e := range sessions {
		e.ctrl.Close()
	}
	s.recordSessions(0)
}

// controller returns the caller's controller, creating a session and
// setting the cookie when the request has none.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*dashboard.Controller, string) {
	now := s.opts.Now()
	id := ""
	if c, err := r.Cookie(cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	s.mu.Lock()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = now
		s.mu.Unlock()
		return e.ctrl, id
	}

	id = uuid.NewString()
	ctrl := dashboard.New(s.opts.Analyzer, dashboard.Options{
		StepDelay: s.opts.StepDelay,
		Logger:    s.logger.With(zap.String("session", id)),
		Now:       s.opts.Now,
	})
	expired := s.expireLocked(now)
	if len(s.sessions) >= s.opts.MaxSessions {
		expired = append(expired, s.evictOldestLocked())
	}
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: now}
	count := len(s.sessions)
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	s.recordSessions(count)
	s.logger.Debug("Session created", zap.String("session", id), zap.Int("expired", len(expired)))

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return ctrl, id
}

// expireLocked removes idle sessions and returns their controllers for
// closing outside the lock.
func (s *Server) expireLocked(now time.Time) []*dashboard.Controller {
	var expired []*dashboard.Controller
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.opts.IdleTimeout {
			expired = append(expired, e.ctrl)
			delete(s.sessions, id)
		}
	}
	return expired
}

// evictOldestLocked removes the least recently seen session.
func (s *Server) evictOldestLocked() *dashboard.Controller {
	var oldestID string
	var oldest *entry
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	delete(s.sessions, oldestID)
	return oldest.ctrl
}

// Sweep closes sessions idle longer than the idle timeout.
func (s *Server) Sweep() int {
	s.mu.Lock()
	expired := s.expireLocked(s.opts.Now())
	count := len(s.sessions)
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	if len(expired) > 0 {
		s.recordSessions(count)
		s.logger.Debug("Idle sessions swept", zap.Int("expired", len(expired)), zap.Int("sessions", count))
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Server) recordSessions(n int) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.SetSessions(n)
	}
}

// sessionJSON is the API view of a session.
type sessionJSON struct {
	dashboard.View
	Completed int `json:"completed"`
	Progress  int `json:"progress"`
}

func newSessionJSON(v dashboard.View) sessionJSON {
	return sessionJSON{View: v, Completed: v.Completed(), Progress: v.Progress()}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)
	writeJSON(w, http.StatusOK, newSessionJSON(ctrl.Snapshot()))
}

type submitRequest struct {
	Domain string `json:"domain"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)

	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := ctrl.Submit(req.Domain); err != nil {
		if errors.Is(err, dashboard.ErrNoDomain) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, newSessionJSON(ctrl.Snapshot()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)
	ctrl.Reset()
	writeJSON(w, http.StatusOK, newSessionJSON(ctrl.Snapshot()))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)

	m, err := model.ParseModule(r.PathValue("module"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	job, err := ctrl.Select(m)
	if err != nil {
		s.fail(w, err)
		return
	}
	status := http.StatusOK
	if job != nil {
		status = http.StatusAccepted
	}
	writeJSON(w, status, newSessionJSON(ctrl.Snapshot()))
}

type fixRequest struct {
	Module  string `json:"module"`
	IssueID string `json:"issueId"`
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)

	var req fixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := model.ParseModule(req.Module)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	fix, err := ctrl.Fix(r.Context(), m, req.IssueID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fix)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctrl, _ := s.controller(w, r)

	doc, name, err := ctrl.Report(s.opts.Locale)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrNoDomain),
		errors.Is(err, dashboard.ErrModuleNotReady):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, model.ErrUnknownModule),
		errors.Is(err, dashboard.ErrIssueNotFound),
		errors.Is(err, report.ErrNoData):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, dashboard.ErrNotFixable):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)))
	})
}
