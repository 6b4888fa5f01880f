package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JeanGrijp/csrf-token-server/csrf"
	"github.com/JeanGrijp/csrf-token-server/internal/config"
	"github.com/JeanGrijp/csrf-token-server/internal/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 8192
)

// Server owns the issuing listener and the optional metrics listener.
type Server struct {
	cfg     config.ServerSection
	log     *slog.Logger
	http    *http.Server
	metrics *http.Server
}

// New builds the HTTP servers. reg may be nil when metrics are disabled.
func New(cfg config.ServerSection, iss *csrf.Issuer, reg *metrics.Registry, log *slog.Logger) *Server {
	s := &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(cfg.Engine, iss, log),
			ReadHeaderTimeout: readHeaderTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}

	if cfg.MetricsAddr != "" && reg != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok\n"))
		})
		s.metrics = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}
	}

	return s
}

// Handler returns the issuing handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run binds the configured addresses and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}

	var mln net.Listener
	if s.metrics != nil {
		mln, err = net.Listen("tcp", s.metrics.Addr)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen metrics %s: %w", s.metrics.Addr, err)
		}
	}

	return s.Serve(ctx, ln, mln)
}

// Serve serves on already bound listeners. mln is ignored when metrics are
// disabled. When ctx is cancelled both servers are shut down gracefully
// within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln, mln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("issuing server listening", "addr", ln.Addr().String(), "engine", s.cfg.Engine)
		return serve(s.http, ln)
	})
	if s.metrics != nil && mln != nil {
		g.Go(func() error {
			s.log.Info("metrics server listening", "addr", mln.Addr().String())
			return serve(s.metrics, mln)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		err := s.http.Shutdown(sctx)
		if s.metrics != nil {
			err = errors.Join(err, s.metrics.Shutdown(sctx))
		}
		return err
	})

	return g.Wait()
}

func serve(srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
