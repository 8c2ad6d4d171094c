package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vdirective/pkg/component"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/middleware"
	"github.com/vango-dev/vdirective/pkg/template"
)

// maxBodyBytes bounds request bodies carrying template data.
const maxBodyBytes = 1 << 20

// Server serves an App over HTTP.
type Server struct {
	app      *component.App
	config   *Config
	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request and live session metrics and serves gatherer
// on the metrics path.
func WithMetrics(m *middleware.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// New creates a Server for app.
func New(app *component.App, config *Config, opts ...Option) *Server {
	config = config.withDefaults()
	s := &Server{
		app:    app,
		config: config,
		logger: config.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing())
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/components", s.handleComponents)
	for _, route := range []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"/render/*", s.handleRender},
		{"/page/*", s.handlePage},
		{"/parity/*", s.handleParity},
	} {
		r.Get(route.pattern, route.handler)
		r.Post(route.pattern, route.handler)
	}
	r.Get("/live/*", s.handleLive)
	if s.gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"components": s.app.Names()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	c, data, ok := s.prepare(w, r)
	if !ok {
		return
	}
	html, err := c.RenderToString(r.Context(), data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	c, data, ok := s.prepare(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.RenderPage(r.Context(), w, c.Name(), data); err != nil {
		s.fail(w, r, err)
	}
}

func (s *Server) handleParity(w http.ResponseWriter, r *http.Request) {
	c, data, ok := s.prepare(w, r)
	if !ok {
		return
	}
	res, err := c.Parity(r.Context(), data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equal": res.Equal(), "diffs": res.Diffs})
}

// componentParam returns the component name from the wildcard route
// segment. Names may contain slashes.
func componentParam(r *http.Request) string {
	return strings.Trim(chi.URLParam(r, "*"), "/")
}

// prepare resolves the component and decodes the template data.
func (s *Server) prepare(w http.ResponseWriter, r *http.Request) (*component.Bound, map[string]any, bool) {
	c, err := s.app.Get(componentParam(r))
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	data, err := requestData(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", err.Error())
		return nil, nil, false
	}
	return c, data, true
}

func requestData(r *http.Request) (map[string]any, error) {
	var raw []byte
	if r.Method == http.MethodPost {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		raw = body
	} else if q := r.URL.Query().Get("data"); q != "" {
		raw = []byte(q)
	}
	return decodeData(raw)
}

func decodeData(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("data must be a JSON object: %w", err)
	}
	return data, nil
}

// fail maps err to a status. Compile problems are the caller's template
// and answer 422; hook failures answer 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := ""
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		code = coded.Code()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "path", r.URL.Path, "code", code, "error", err)
	}
	writeError(w, status, code, err.Error())
}

func statusFor(err error) int {
	var (
		missing    *directive.MissingServerHookError
		unresolved *directive.UnresolvedDirectiveError
		dup        *directive.DuplicateDirectiveError
		parse      *template.ParseError
	)
	switch {
	case errors.Is(err, component.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &missing), errors.As(err, &unresolved), errors.As(err, &dup), errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	body := map[string]string{"error": msg}
	if code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

// liveMessage is sent to live preview peers.
type liveMessage struct {
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

const liveWriteWait = 10 * time.Second

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	c, data, ok := s.prepare(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	if s.metrics != nil {
		s.metrics.LiveSessionOpened()
		defer s.metrics.LiveSessionClosed()
	}

	ctx := r.Context()
	inst, err := c.Mount(ctx, nil, data)
	if inst == nil {
		s.send(conn, liveMessage{Error: err.Error()})
		return
	}
	defer func() {
		if err := inst.Unmount(); err != nil {
			s.logger.Warn("live unmount", "component", c.Name(), "error", err)
		}
	}()
	if !s.send(conn, snapshot(inst.Container().InnerHTML(), err)) {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live read", "error", err)
			}
			return
		}
		next, err := decodeData(msg)
		if err != nil {
			if !s.send(conn, liveMessage{Error: err.Error()}) {
				return
			}
			continue
		}
		err = inst.Patch(&directive.Context{Context: ctx, Data: next})
		if !s.send(conn, snapshot(inst.Container().InnerHTML(), err)) {
			return
		}
	}
}

func snapshot(html string, err error) liveMessage {
	m := liveMessage{HTML: html}
	if err != nil {
		m.Error = err.Error()
	}
	return m
}

func (s *Server) send(conn *websocket.Conn, m liveMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := conn.WriteJSON(m); err != nil {
		s.logger.Debug("live write", "error", err)
		return false
	}
	return true
}
