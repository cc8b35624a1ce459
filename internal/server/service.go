// Package server owns the jsontp listener and per-connection engine.
//
// One goroutine serves each accepted stream. Connections share nothing but
// the service's router, which is read-mostly.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/danmuck/jsontp/internal/observability"
	"github.com/danmuck/jsontp/internal/protocol"
	"github.com/danmuck/jsontp/internal/router"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Service is a jsontp server: a router plus an accept loop.
type Service struct {
	cfg    ServiceConfig
	router *router.Router

	sem *semaphore.Weighted

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup

	activeConns atomic.Int64
}

// NewService returns a service with default configuration.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

func NewServiceWithConfig(cfg ServiceConfig) *Service {
	cfg = cfg.WithDefaults()
	svc := &Service{
		cfg:    cfg,
		router: router.New(),
		conns:  make(map[net.Conn]struct{}),
	}
	if cfg.MaxConns > 0 {
		svc.sem = semaphore.NewWeighted(cfg.MaxConns)
	}
	return svc
}

func (s *Service) Config() ServiceConfig {
	return s.cfg
}

func (s *Service) Router() *router.Router {
	return s.router
}

// Register binds h to the exact resource path. The last registration wins.
func (s *Service) Register(path string, h router.Handler) error {
	return s.router.Register(path, h)
}

func (s *Service) RegisterFunc(path string, f func(*protocol.Request) protocol.Response) error {
	return s.router.RegisterFunc(path, f)
}

// RegisterErrorHandler replaces the default body sent with status code.
func (s *Service) RegisterErrorHandler(code int, h router.Handler) error {
	return s.router.RegisterErrorHandler(code, h)
}

func (s *Service) Routes() []string {
	return s.router.Routes()
}

// ActiveConns reports the number of connections currently being served.
func (s *Service) ActiveConns() int64 {
	return s.activeConns.Load()
}

// Start listens on host:port and serves until the process exits.
func (s *Service) Start(host string, port int) error {
	s.cfg.ListenAddr = net.JoinHostPort(host, strconv.Itoa(port))
	return s.ListenAndServe(context.Background())
}

// Run serves until SIGINT or SIGTERM.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx)
}

// ListenAndServe binds the configured listener, starts the admin surface
// when configured, and serves until ctx is cancelled.
func (s *Service) ListenAndServe(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("server listen %s: %w", s.cfg.ListenAddr, err)
	}
	log.Info().Str("node", s.cfg.Name).Str("addr", ln.Addr().String()).Msg("server.Service listening")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	adminErr := make(chan error, 1)
	if addr := strings.TrimSpace(s.cfg.AdminListenAddr); addr != "" {
		aln, err := net.Listen("tcp", addr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("admin listen %s: %w", addr, err)
		}
		handler := observability.NewAdminRouter(observability.AdminConfig{
			Node:        s.cfg.Name,
			CorsOrigins: s.cfg.CorsOrigins,
			Token:       s.cfg.AdminToken,
			ActiveConns: s.ActiveConns,
		}, s)
		go func() {
			adminErr <- observability.ServeAdmin(ctx, aln, handler)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(ctx, ln)
	}()
	select {
	case err := <-serveErr:
		return err
	case err := <-adminErr:
		cancel()
		if err != nil {
			<-serveErr
			return err
		}
		return <-serveErr
	}
}

// Serve accepts connections on ln until ctx is cancelled or accept fails.
// Open connections are closed and drained before Serve returns.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	observability.RegisterMetrics()
	done := make(chan struct{})
	defer func() {
		close(done)
		_ = ln.Close()
		s.closeAllConns()
		s.wg.Wait()
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-done:
		}
	}()

	for {
		if s.sem != nil {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				return nil
			}
		}
		nc, err := ln.Accept()
		if err != nil {
			s.release()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.trackConn(nc)
		s.wg.Add(1)
		go s.handleConn(nc)
	}
}

func (s *Service) handleConn(nc net.Conn) {
	defer s.wg.Done()
	defer s.release()
	defer s.untrackConn(nc)
	defer nc.Close()

	id := uuid.NewString()
	logger := log.With().Str("conn_id", id).Str("remote", nc.RemoteAddr().String()).Logger()

	active := s.activeConns.Add(1)
	observability.ConnOpened(s.cfg.Name)
	logger.Info().Int64("active_clients", active).Msg("server.conn opened")
	defer func() {
		remaining := s.activeConns.Add(-1)
		observability.ConnClosed(s.cfg.Name)
		logger.Info().Int64("active_clients", remaining).Msg("server.conn closed")
	}()

	c := newConn(s, nc, id, logger)
	if err := c.serve(); err != nil {
		kind := faultKind(err)
		if s.isTracked(nc) {
			observability.RecordConnFault(s.cfg.Name, kind)
			logger.Warn().Err(err).Str("kind", kind).Msg("server.conn fault")
		}
	}
}

func (s *Service) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}

func (s *Service) trackConn(nc net.Conn) {
	s.connsMu.Lock()
	s.conns[nc] = struct{}{}
	s.connsMu.Unlock()
}

func (s *Service) untrackConn(nc net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, nc)
	s.connsMu.Unlock()
}

func (s *Service) isTracked(nc net.Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	_, ok := s.conns[nc]
	return ok
}

func (s *Service) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for nc := range s.conns {
		_ = nc.Close()
		delete(s.conns, nc)
	}
}
