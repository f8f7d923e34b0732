package connection

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultTimeout bounds dialing and each request when none is given.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned when using a closed client.
var ErrClosed = errors.New("connection: client is closed")

// Client is a RESP connection to a respkv server. It is not safe for
// concurrent use; share clients through a Pool.
type Client struct {
	addr    string
	timeout time.Duration
	conn    net.Conn
	bw      *bufio.Writer
	buf     bytes.Buffer
	chunk   []byte
}

// DialOption configures Dial.
type DialOption func(*dialOptions)

type dialOptions struct {
	tls *tls.Config
}

// WithTLS makes Dial negotiate TLS using cfg.
func WithTLS(cfg *tls.Config) DialOption {
	return func(o *dialOptions) {
		o.tls = cfg
	}
}

// Dial connects to addr. A zero timeout uses DefaultTimeout.
func Dial(ctx context.Context, addr string, timeout time.Duration, opts ...DialOption) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var o dialOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		conn net.Conn
		err  error
	)
	nd := &net.Dialer{Timeout: timeout}
	if o.tls != nil {
		td := &tls.Dialer{NetDialer: nd, Config: o.tls}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = nd.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connection: dial %s: %w", addr, err)
	}
	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		bw:      bufio.NewWriter(conn),
		chunk:   make([]byte, 16*1024),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command made of args and waits for its reply. Error replies
// from the server are returned as resp.SimpleError frames, not as errors.
func (c *Client) Do(args ...string) (resp.Frame, error) {
	return c.DoFrame(Request(args...))
}

// DoFrame sends an already built request frame and waits for its reply.
func (c *Client) DoFrame(req resp.Frame) (resp.Frame, error) {
	if err := c.Send(req); err != nil {
		return nil, err
	}
	if err := c.Flush(); err != nil {
		return nil, err
	}
	return c.Receive()
}

// Send buffers a request without flushing it, for pipelining.
func (c *Client) Send(req resp.Frame) error {
	if c.conn == nil {
		return ErrClosed
	}
	return resp.WriteFrame(c.bw, req)
}

// Flush writes buffered requests to the server.
func (c *Client) Flush() error {
	if c.conn == nil {
		return ErrClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.bw.Flush()
}

// Receive reads the next reply.
func (c *Client) Receive() (resp.Frame, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}
	for {
		f, err := resp.Decode(&c.buf)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, resp.ErrNotComplete) {
			return nil, fmt.Errorf("connection: bad reply from %s: %w", c.addr, err)
		}
		n, err := c.conn.Read(c.chunk)
		c.buf.Write(c.chunk[:n])
		if err != nil {
			return nil, fmt.Errorf("connection: read from %s: %w", c.addr, err)
		}
	}
}

// Ping checks the connection with a PING round trip.
func (c *Client) Ping() error {
	reply, err := c.Do("PING")
	if err != nil {
		return err
	}
	if reply != resp.SimpleString("PONG") {
		return fmt.Errorf("connection: unexpected PING reply %v", reply)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Request builds a command frame: an array of bulk strings.
func Request(args ...string) resp.Array {
	elems := make([]resp.Frame, len(args))
	for i, a := range args {
		elems[i] = resp.BulkFromString(a)
	}
	return resp.NewArray(elems...)
}
