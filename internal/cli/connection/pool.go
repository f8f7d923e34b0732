package connection

import (
	"context"
	"fmt"
	"time"

	pool "github.com/jolestar/go-commons-pool/v2"

	"github.com/yndnr/respkv/pkg/resp"
)

// PoolConfig sizes a Pool.
type PoolConfig struct {
	Addr    string
	Timeout time.Duration
	// MaxTotal caps open connections. Borrowers block when it is reached.
	MaxTotal int
	// MaxIdle caps connections kept open while unused.
	MaxIdle int
	// DialOptions apply to every connection the pool opens.
	DialOptions []DialOption
}

// Pool hands out Clients connected to one server.
type Pool struct {
	p *pool.ObjectPool
}

// NewPool creates a pool. Connections are opened lazily on Borrow.
func NewPool(ctx context.Context, cfg PoolConfig) *Pool {
	pc := pool.NewDefaultPoolConfig()
	if cfg.MaxTotal > 0 {
		pc.MaxTotal = cfg.MaxTotal
	}
	if cfg.MaxIdle > 0 {
		pc.MaxIdle = cfg.MaxIdle
	}
	pc.TestOnBorrow = false
	pc.BlockWhenExhausted = true

	return &Pool{
		p: pool.NewObjectPool(ctx, &clientFactory{addr: cfg.Addr, timeout: cfg.Timeout, opts: cfg.DialOptions}, pc),
	}
}

// Borrow takes a client from the pool, dialing a new one if none is idle.
func (p *Pool) Borrow(ctx context.Context) (*Client, error) {
	obj, err := p.p.BorrowObject(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*Client)
	if !ok {
		return nil, fmt.Errorf("connection: pool returned %T", obj)
	}
	return c, nil
}

// Return gives a healthy client back to the pool.
func (p *Pool) Return(ctx context.Context, c *Client) error {
	return p.p.ReturnObject(ctx, c)
}

// Invalidate drops a client that hit an I/O error.
func (p *Pool) Invalidate(ctx context.Context, c *Client) error {
	return p.p.InvalidateObject(ctx, c)
}

// Do runs one command on a pooled client.
func (p *Pool) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	c, err := p.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	f, err := c.Do(args...)
	if err != nil {
		_ = p.Invalidate(ctx, c)
		return nil, err
	}
	return f, p.Return(ctx, c)
}

// Active reports how many clients are borrowed.
func (p *Pool) Active() int {
	return p.p.GetNumActive()
}

// Idle reports how many clients are waiting in the pool.
func (p *Pool) Idle() int {
	return p.p.GetNumIdle()
}

// Close closes every idle client and the pool.
func (p *Pool) Close(ctx context.Context) {
	p.p.Close(ctx)
}

type clientFactory struct {
	addr    string
	timeout time.Duration
	opts    []DialOption
}

func (f *clientFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := Dial(ctx, f.addr, f.timeout, f.opts...)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

func (f *clientFactory) DestroyObject(_ context.Context, o *pool.PooledObject) error {
	return o.Object.(*Client).Close()
}

func (f *clientFactory) ValidateObject(_ context.Context, o *pool.PooledObject) bool {
	return o.Object.(*Client).Ping() == nil
}

func (f *clientFactory) ActivateObject(context.Context, *pool.PooledObject) error {
	return nil
}

func (f *clientFactory) PassivateObject(context.Context, *pool.PooledObject) error {
	return nil
}
