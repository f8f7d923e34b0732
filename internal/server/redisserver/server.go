package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/command"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Default timeouts used when the corresponding Config field is zero.
const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute
)

// Config holds the RESP server configuration.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// ReadTimeout bounds the time to receive the rest of a request once its
	// first bytes have arrived. Helps against slowloris clients.
	ReadTimeout time.Duration
	// WriteTimeout bounds each flush of replies.
	WriteTimeout time.Duration
	// IdleTimeout bounds the wait between requests.
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per client IP.
	// 0 disables rate limiting.
	RateLimit int
	// MaxConnections caps concurrent clients. 0 means unlimited.
	MaxConnections int
	// CloseOnCommandError closes the connection after replying to a request
	// that failed to parse as a command.
	CloseOnCommandError bool
	// Limits bounds what the decoder accepts from a client.
	Limits resp.Limits
	// TLS, when set, serves RESP over TLS on Addr.
	TLS *tls.Config
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
		Limits:       resp.DefaultLimits(),
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the registry the server reports to.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Server is the RESP protocol server.
type Server struct {
	cfg      *Config
	store    command.Store
	decoder  *resp.Decoder
	limiters *limiterRegistry
	logger   *slog.Logger
	metrics  *metric.Registry

	ln        net.Listener
	stopWatch func() bool
	running   atomic.Bool
	wg        sync.WaitGroup

	mu     sync.Mutex
	conns  map[*Conn]struct{}
	active atomic.Int64
}

// New creates a server that executes commands against store.
func New(cfg *Config, store command.Store, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:     cfg,
		store:   store,
		decoder: resp.NewDecoder(cfg.Limits),
		logger:  slog.Default(),
		conns:   make(map[*Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}
	if cfg.RateLimit > 0 {
		s.limiters = newLimiterRegistry(cfg.RateLimit)
	}
	return s
}

// Start binds the listener and serves connections in the background until
// Shutdown is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("redisserver: already started")
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("redisserver: listen %s: %w", s.cfg.Addr, err)
	}
	if s.cfg.TLS != nil {
		ln = tls.NewListener(ln, s.cfg.TLS)
	}
	s.ln = ln
	s.logger.Info("redis server listening", "address", ln.Addr().String(), "tls", s.cfg.TLS != nil)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("redis accept loop stopped", "error", err)
		}
	}()

	s.stopWatch = context.AfterFunc(ctx, func() { _ = s.closeListener() })

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is between Start and Shutdown.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ActiveConnections reports the number of connected clients.
func (s *Server) ActiveConnections() int {
	return int(s.active.Load())
}

// Shutdown stops accepting, closes every client connection and waits for
// their goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	if s.stopWatch != nil {
		s.stopWatch()
	}
	err := s.closeListener()

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) closeListener() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}

		if s.limiters != nil {
			if n := s.limiters.sweep(); n > 0 {
				s.logger.Debug("evicted idle rate limiters", "count", n)
			}
		}

		if max := s.cfg.MaxConnections; max > 0 && s.active.Load() >= int64(max) {
			s.reject(nc)
			continue
		}

		c := newConn(nc, s.metrics)
		s.track(c)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

// reject answers a connection over the client limit and closes it.
func (s *Server) reject(nc net.Conn) {
	s.metrics.ConnectionsRejected.Inc()
	s.logger.Warn("max connections reached, rejecting client", "remote", nc.RemoteAddr().String())
	_ = nc.SetWriteDeadline(time.Now().Add(s.writeTimeout()))
	_ = resp.WriteFrame(nc, resp.SimpleError("ERR max number of clients reached"))
	_ = nc.Close()
}

func (s *Server) track(c *Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	s.active.Add(1)
	s.metrics.ConnectionsActive.Inc()
	s.metrics.ConnectionsTotal.Inc()
}

func (s *Server) untrack(c *Conn) {
	_ = c.Close()
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.active.Add(-1)
	s.metrics.ConnectionsActive.Dec()
}

func (s *Server) readTimeout() time.Duration {
	if s.cfg.ReadTimeout > 0 {
		return s.cfg.ReadTimeout
	}
	return DefaultReadTimeout
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WriteTimeout > 0 {
		return s.cfg.WriteTimeout
	}
	return DefaultWriteTimeout
}

func (s *Server) idleTimeout() time.Duration {
	if s.cfg.IdleTimeout > 0 {
		return s.cfg.IdleTimeout
	}
	return DefaultIdleTimeout
}
