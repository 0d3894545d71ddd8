// Package httpapi exposes the module registry over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	multipartMemory   = 8 << 20
)

// Server routes HTTP requests to the module registry.
type Server struct {
	registry ports.ModuleRegistry
	archiver ports.Archiver
	log      ports.Logger
	cfg      domain.ServerConfig
	router   *gin.Engine
}

var _ ports.Server = (*Server)(nil)

// NewServer creates a Server and registers its routes.
func NewServer(
	registry ports.ModuleRegistry,
	archiver ports.Archiver,
	log ports.Logger,
	cfg domain.ServerConfig,
) (*Server, error) {
	corsCfg := corsConfig(cfg.CORSOrigins)
	if err := corsCfg.Validate(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid CORS configuration"), "cors_origins", cfg.CORSOrigins)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.MaxMultipartMemory = multipartMemory
	router.Use(gin.Recovery(), RequestLogger(log), cors.New(corsCfg))

	s := &Server{
		registry: registry,
		archiver: archiver,
		log:      log,
		cfg:      cfg,
		router:   router,
	}
	s.registerRoutes()
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Disposition", "ETag"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.log.Info("listening on " + ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "http server failed")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "http server shutdown failed")
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}
