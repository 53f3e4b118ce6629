// Package server exposes the translation pipeline over HTTP.
//
// Design: Stateless request/response translation on /v1/translate, plus a
// websocket on /v1/live that re-translates editor snapshots and only ever
// answers the newest one.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/frontend"
	"github.com/valdisz/PyToJs/pkg/logger"
	"github.com/valdisz/PyToJs/pkg/telemetry"
	"github.com/valdisz/PyToJs/pkg/transpile"
)

type Config struct {
	Addr string
	// RateLimit and Burst bound translations per live session.
	RateLimit   float64
	Burst       int
	ServiceName string
}

func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		RateLimit:   20,
		Burst:       40,
		ServiceName: "pytojs",
	}
}

type Server struct {
	cfg      Config
	pipeline *transpile.Pipeline
	router   *gin.Engine

	mu       sync.Mutex
	sessions map[string]*liveSession
}

func New(cfg Config, pipeline *transpile.Pipeline) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		router:   gin.New(),
		sessions: make(map[string]*liveSession),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware(cfg.ServiceName))
	s.router.Use(requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/v1/translate", s.handleTranslate)
	s.router.GET("/v1/live", s.handleLive)
	if h := telemetry.MetricsHandler(); h != nil {
		s.router.GET("/metrics", gin.WrapH(h))
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogServerStart(s.cfg.Addr)
		errCh <- srv.ListenAndServe()
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
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

type TranslateRequest struct {
	Source string `json:"source" binding:"required"`
	File   string `json:"file,omitempty"`
}

type TranslateResponse struct {
	Output      string            `json:"output"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	OK          bool              `json:"ok"`
	Cached      bool              `json:"cached"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.Lock()
	n := len(s.sessions)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": n})
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.File == "" {
		req.File = "<request>"
	}

	res, err := s.pipeline.Translate(c.Request.Context(), req.File, []byte(req.Source))
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, TranslateResponse{
		Output:      res.Output,
		Diagnostics: nonNil(res.Diagnostics),
		OK:          res.OK,
		Cached:      res.Cached,
	})
}

// errorResponse maps a pipeline error to a status and body. Syntax errors
// are the client's fault; anything else is ours.
func errorResponse(err error) (int, ErrorResponse) {
	var perr *frontend.ParseError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadRequest, ErrorResponse{Error: perr.Message, Line: perr.Line, Column: perr.Column}
	case errors.Is(err, frontend.ErrEmptySource):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()}
	default:
		logger.Error("Translation pipeline failed", "error", err)
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

func nonNil(list []diag.Diagnostic) []diag.Diagnostic {
	if list == nil {
		return []diag.Diagnostic{}
	}
	return list
}
