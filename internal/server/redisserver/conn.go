package redisserver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

const readChunk = 16 * 1024

// Conn is a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	// buf accumulates bytes read but not yet decoded.
	buf bytes.Buffer
	bw  *bufio.Writer

	closed atomic.Bool
}

func newConn(nc net.Conn, m *metric.Registry) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: nc,
		bw:      bufio.NewWriter(&countingWriter{w: nc, m: m}),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// Close closes the underlying network connection. It is safe to call more
// than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// clientIP returns the host part of the remote address.
func (c *Conn) clientIP() string {
	addr := c.RemoteAddr().String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// countingWriter reports written bytes to the registry.
type countingWriter struct {
	w io.Writer
	m *metric.Registry
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.m.BytesWritten.Add(float64(n))
	return n, err
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	ctx = logger.WithConnID(logger.WithLogger(ctx, logger.FromSlog(s.logger)), c.id)
	log := logger.L(ctx).With("remote", c.RemoteAddr().String())
	log.Debug("client connected")

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	chunk := make([]byte, readChunk)
	for {
		// Answer every complete frame already buffered.
		for {
			f, err := s.decoder.Decode(&c.buf)
			if errors.Is(err, resp.ErrNotComplete) {
				break
			}
			if err != nil {
				s.metrics.ProtocolErrors.Inc()
				log.Warn("protocol error, closing connection", "error", err)
				_ = resp.WriteFrame(c.bw, protocolErrorReply(err))
				s.flush(c)
				return
			}

			reply, closeAfter := s.handle(ctx, c, f)
			if err := resp.WriteFrame(c.bw, reply); err != nil {
				return
			}
			if closeAfter {
				s.flush(c)
				return
			}
		}

		if c.bw.Buffered() > 0 {
			if err := s.flush(c); err != nil {
				log.Debug("write failed", "error", err)
				return
			}
		}

		// Idle between requests; tighter once a frame has started.
		timeout := s.idleTimeout()
		if c.buf.Len() > 0 {
			timeout = s.readTimeout()
		}
		if err := c.netConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return
		}

		n, err := c.netConn.Read(chunk)
		if n > 0 {
			c.buf.Write(chunk[:n])
			s.metrics.BytesRead.Add(float64(n))
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				if c.buf.Len() > 0 {
					log.Debug("client closed mid-request", "pending", c.buf.Len())
				}
			case errors.Is(err, net.ErrClosed):
			default:
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					log.Debug("connection timed out")
				} else {
					log.Debug("connection read error", "error", err)
				}
			}
			log.Debug("client disconnected")
			return
		}
	}
}

func (s *Server) flush(c *Conn) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(s.writeTimeout())); err != nil {
		return err
	}
	return c.bw.Flush()
}

// protocolErrorReply renders a decode failure for the client.
func protocolErrorReply(err error) resp.SimpleError {
	msg := strings.TrimPrefix(err.Error(), resp.ErrProtocol.Error()+": ")
	return resp.SimpleError("ERR protocol error: " + msg)
}
