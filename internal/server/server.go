// Package server serves the ranked signal feed over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/moltsignal/internal/config"
	"github.com/ppiankov/moltsignal/internal/digest"
	"github.com/ppiankov/moltsignal/internal/feed"
	"github.com/ppiankov/moltsignal/internal/signal"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Options configures the HTTP surface.
type Options struct {
	SignalPath  string
	PostURLBase string
	Logger      *slog.Logger
}

type Server struct {
	fetcher    feed.Fetcher
	profile    *config.Profile
	signalPath string
	page       []byte
	logger     *slog.Logger
}

// New creates a server that fetches through fetcher and ranks with profile
// on every signal request.
func New(fetcher feed.Fetcher, profile *config.Profile, opts Options) (*Server, error) {
	if fetcher == nil {
		return nil, errors.New("server: fetcher is required")
	}
	if profile == nil {
		return nil, errors.New("server: signal profile is required")
	}
	if opts.SignalPath == "" {
		opts.SignalPath = config.DefaultSignalPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	page, err := renderViewer(viewerData{
		Title:        viewerTitle,
		SignalPath:   opts.SignalPath,
		PostURLBase:  opts.PostURLBase,
		SnippetRunes: digest.SnippetRunes,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		fetcher:    fetcher,
		profile:    profile,
		signalPath: opts.SignalPath,
		page:       page,
		logger:     opts.Logger,
	}, nil
}

// Handler returns a gin engine with all routes registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	s.RegisterRoutes(r)
	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET(s.signalPath, s.signalFeed)

	// Everything else gets the viewer page.
	r.NoRoute(s.viewer)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", addr, "signal_path", s.signalPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) signalFeed(c *gin.Context) {
	ranked, fetched, err := signal.FetchAndRank(c.Request.Context(), s.fetcher, s.profile)
	if err != nil {
		s.logger.Error("fetch signal feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.logger.Debug("ranked signal feed", "fetched", fetched, "kept", len(ranked))

	c.Header("Access-Control-Allow-Origin", "*")
	c.JSON(http.StatusOK, ranked)
}

func (s *Server) viewer(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.page)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
