// Package server exposes the schedules, countdowns and alerts over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/imsakiye/internal/live"
	"github.com/smokyabdulrahman/imsakiye/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	TimeFormat   string   // Go layout, "15:04" or "3:04 PM"
	AllowOrigins []string // empty allows any origin

	// Live stream tick periods; zero uses the live package defaults.
	CountdownPeriod time.Duration
	AlertPeriod     time.Duration
	RefreshPeriod   time.Duration

	Logger zerolog.Logger
}

// Server serves the JSON API, calendar exports and live event streams.
type Server struct {
	svc    *service.Service
	opts   Options
	log    zerolog.Logger
	router *gin.Engine
}

// New builds a Server and its routes.
func New(svc *service.Service, opts Options) *Server {
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04"
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		svc:  svc,
		opts: opts,
		log:  opts.Logger.With().Str("component", "server").Logger(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(s.corsConfig()))
	s.registerRoutes(r)
	s.router = r
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", "Cache-Control", "Last-Event-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
	}
	if len(s.opts.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.opts.AllowOrigins
	}
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := s.log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = s.log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) liveOptions() live.Options {
	return live.Options{
		CountdownPeriod: s.opts.CountdownPeriod,
		AlertPeriod:     s.opts.AlertPeriod,
		RefreshPeriod:   s.opts.RefreshPeriod,
		Logger:          s.opts.Logger,
	}
}
