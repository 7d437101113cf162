package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/caasmo/notefold/config"
)

// Daemon is a long running component the server starts before accepting
// traffic and stops during graceful shutdown.
type Daemon interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

// Server runs the HTTP listener and the registered daemons, and owns the
// process signal loop: SIGHUP triggers a config reload, SIGINT/SIGTERM/
// SIGQUIT a graceful shutdown.
type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	logger         *slog.Logger
	daemons        []Daemon
	reloadFunc     func() error

	// exitFunc is os.Exit, replaceable in tests.
	exitFunc func(int)
}

// NewServer creates a server. reloadFunc runs on SIGHUP; it may be a no-op
// but not nil.
func NewServer(provider *config.Provider, handler http.Handler, logger *slog.Logger, reloadFunc func() error) *Server {
	return &Server{
		configProvider: provider,
		handler:        handler,
		logger:         logger,
		reloadFunc:     reloadFunc,
		exitFunc:       os.Exit,
	}
}

// AddDaemon registers a daemon. Daemons start in registration order and
// stop concurrently at shutdown.
func (s *Server) AddDaemon(d Daemon) {
	s.daemons = append(s.daemons, d)
}

// Run blocks until the process receives a shutdown signal or the listener
// fails, then shuts everything down within the configured grace period.
func (s *Server) Run() {
	cfg := s.configProvider.Get()

	s.logger.Info("server configuration",
		"addr", cfg.Server.Addr,
		"max_conns", cfg.Server.MaxConns,
		"read_timeout", cfg.Server.ReadTimeout.Duration,
		"read_header_timeout", cfg.Server.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.Server.WriteTimeout.Duration,
		"idle_timeout", cfg.Server.IdleTimeout.Duration,
		"shutdown_timeout", cfg.Server.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.Server.WriteTimeout.Duration,
		IdleTimeout:       cfg.Server.IdleTimeout.Duration,
	}

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		s.logger.Error("failed to listen", "addr", cfg.Server.Addr, "err", err)
		s.exitFunc(1)
		return
	}
	if cfg.Server.MaxConns > 0 {
		listener = netutil.LimitListener(listener, cfg.Server.MaxConns)
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	if err := s.startDaemons(); err != nil {
		s.logger.Error("daemon startup failed", "err", err)
		s.shutdown(srv, 1)
		return
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signals)

	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				s.logger.Info("received SIGHUP, reloading configuration")
				if err := s.reloadFunc(); err != nil {
					s.logger.Error("configuration reload failed", "err", err)
				}
				continue
			}
			s.logger.Info("received shutdown signal", "signal", sig.String())
			s.shutdown(srv, 0)
			return
		case err := <-serverError:
			s.logger.Error("server error, initiating shutdown", "err", err)
			s.shutdown(srv, 1)
			return
		}
	}
}

// startDaemons starts every registered daemon in order. On failure the
// already started daemons are stopped again before the error returns;
// shutdown then only has the HTTP server left to tear down.
func (s *Server) startDaemons() error {
	for i, d := range s.daemons {
		s.logger.Info("starting daemon", "name", d.Name())
		if err := d.Start(); err != nil {
			started := s.daemons[:i]
			s.daemons = nil
			timeout := s.configProvider.Get().Server.ShutdownGracefulTimeout.Duration
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			for _, sd := range started {
				s.logger.Info("stopping daemon after startup failure", "name", sd.Name())
				if stopErr := sd.Stop(ctx); stopErr != nil {
					s.logger.Error("daemon cleanup error", "name", sd.Name(), "err", stopErr)
				}
			}
			cancel()
			return fmt.Errorf("daemon %s: %w", d.Name(), err)
		}
	}
	return nil
}

// shutdown stops the HTTP server and all daemons within the grace period
// and exits the process with the given code.
func (s *Server) shutdown(srv *http.Server, code int) {
	timeout := s.configProvider.Get().Server.ShutdownGracefulTimeout.Duration
	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	group, _ := errgroup.WithContext(gracefulCtx)

	group.Go(func() error {
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "err", err)
			return err
		}
		return nil
	})

	for _, d := range s.daemons {
		d := d
		group.Go(func() error {
			s.logger.Info("stopping daemon", "name", d.Name())
			if err := d.Stop(gracefulCtx); err != nil {
				s.logger.Error("daemon shutdown error", "name", d.Name(), "err", err)
				return err
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		s.logger.Error("shutdown finished with errors", "err", err)
		if code == 0 {
			code = 1
		}
		s.exitFunc(code)
		return
	}

	s.logger.Info("all systems stopped gracefully")
	s.exitFunc(code)
}
