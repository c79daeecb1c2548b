package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"binclock/internal/button"
	"binclock/internal/clock"
	"binclock/internal/config"
	"binclock/internal/convert"
	"binclock/internal/glyph"
	"binclock/internal/ics"
	appLog "binclock/internal/log"
	"binclock/internal/model"
)

// Source is the running clock as seen by the HTTP API.
type Source interface {
	Snapshot() clock.Snapshot
	Rows() glyph.Pattern
	// Click queues a press and release of button i.
	Click(i int) error
}

// Server provides a small status API for the clock.
type Server struct {
	cfg *config.Config
	src Source
	mux *http.ServeMux
	now func() time.Time

	// 연도별 .ics 캐시. 이벤트 테이블은 실행 중 바뀌지 않는다.
	icsMu    sync.RWMutex
	icsCache map[int][]byte
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, src Source) *Server {
	s := &Server{
		cfg:      cfg,
		src:      src,
		mux:      http.NewServeMux(),
		now:      time.Now,
		icsCache: make(map[int][]byte),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// 빈 사용자명 또는 비밀번호가 설정된 경우에는 비활성화로 취급한다.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="binclock", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves the API on cfg.Listen until ctx is cancelled, then
// shuts down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, src Source) error {
	ln, err := Listen(cfg)
	if err != nil {
		return err
	}
	return Serve(ctx, cfg, src, ln)
}

// Listen binds cfg.Listen so address errors surface before serving starts.
func Listen(cfg *config.Config) (net.Listener, error) {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("web: listen %s: %w", cfg.Listen, err)
	}
	return ln, nil
}

// Serve runs the API on ln until ctx is done, then shuts down gracefully.
// ln is closed on return.
func Serve(ctx context.Context, cfg *config.Config, src Source, ln net.Listener) error {
	s := NewServer(cfg, src)
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/screen", s.handleScreen)
	s.mux.HandleFunc("GET /api/calendar.ics", s.handleCalendar)
	s.mux.HandleFunc("POST /api/buttons/{name}", s.handleButton)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	Today  string        `json:"today"`
	Events []model.Event `json:"events"`
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	snap := s.src.Snapshot()
	writeJSON(w, http.StatusOK, eventsResponse{
		Today:  snap.DateTime.String(),
		Events: model.Events(snap.Events),
	})
}

func (s *Server) handleScreen(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.ScreenFrom(s.src.Snapshot(), s.src.Rows()))
}

// handlePreview renders the current face as a PNG.
//
// GET /preview.png?scale=16
//   - scale: LED 한 칸의 픽셀 크기 (2..64, 기본 convert.DefaultScale)
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	scale := parseIntDefault(r.URL.Query().Get("scale"), convert.DefaultScale)
	if scale < 2 || scale > 64 {
		writeError(w, http.StatusBadRequest, "scale must be in [2..64]")
		return
	}

	var buf bytes.Buffer
	if err := convert.WritePNG(&buf, s.src.Rows(), scale); err != nil {
		appLog.Error("preview encode failed", err)
		writeError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handleCalendar exports the event table as iCalendar.
//
// GET /api/calendar.ics?year=2013 (기본: 시계의 현재 연도)
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	snap := s.src.Snapshot()
	year := parseIntDefault(r.URL.Query().Get("year"), snap.DateTime.Year)
	if year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "year must be in [1..9999]")
		return
	}

	s.icsMu.RLock()
	body, ok := s.icsCache[year]
	s.icsMu.RUnlock()

	if !ok {
		var err error
		body, err = ics.Export(snap.Events, year, s.now())
		if err != nil {
			appLog.Error("calendar export failed", err, "year", year)
			writeError(w, http.StatusInternalServerError, "failed to export calendar")
			return
		}
		s.icsMu.Lock()
		s.icsCache[year] = body
		s.icsMu.Unlock()
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="binclock-`+strconv.Itoa(year)+`.ics"`)
	_, _ = w.Write(body)
}

type buttonResponse struct {
	Button string `json:"button"`
	Index  int    `json:"index"`
}

// handleButton queues a click of the named button, e.g.
// POST /api/buttons/mode.
func (s *Server) handleButton(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	i, err := button.ByName(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := s.src.Click(i); err != nil {
		appLog.Error("button click rejected", err, "button", name)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	appLog.Debug("api button click", "button", name)
	writeJSON(w, http.StatusAccepted, buttonResponse{Button: button.Name(i), Index: i})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
