package connection

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/pkg/resp"
)

func startServer(t *testing.T) string {
	t.Helper()
	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := redisserver.New(cfg, memory.New())
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

func TestRequest(t *testing.T) {
	got := resp.Encode(Request("SET", "k", "v"))
	want := "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"
	if string(got) != want {
		t.Errorf("Request() encodes to %q, want %q", got, want)
	}
}

func TestDial_Refused(t *testing.T) {
	_, err := Dial(context.Background(), "127.0.0.1:1", 500*time.Millisecond)
	if err == nil {
		t.Fatal("Dial() to a closed port should fail")
	}
}

func TestClient_Do(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t), 0)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	if err := c.Ping(); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	tests := []struct {
		args []string
		want resp.Frame
	}{
		{[]string{"SET", "name", "respkv"}, resp.OK},
		{[]string{"GET", "name"}, resp.BulkFromString("respkv")},
		{[]string{"GET", "missing"}, resp.Null{}},
		{[]string{"SADD", "s", "x", "y"}, resp.Integer(2)},
		{[]string{"HGET"}, resp.SimpleError("ERR wrong number of arguments for 'hget' command")},
	}
	for _, tt := range tests {
		got, err := c.Do(tt.args...)
		if err != nil {
			t.Fatalf("Do(%v) error = %v", tt.args, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Do(%v) = %#v, want %#v", tt.args, got, tt.want)
		}
	}
}

func TestClient_Pipeline(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t), 0)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()

	for _, msg := range []string{"a", "b", "c"} {
		if err := c.Send(Request("ECHO", msg)); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	for _, msg := range []string{"a", "b", "c"} {
		got, err := c.Receive()
		if err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
		if !reflect.DeepEqual(got, resp.BulkFromString(msg)) {
			t.Errorf("Receive() = %#v, want %q", got, msg)
		}
	}
}

func TestClient_Closed(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t), 0)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := c.Do("PING"); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() after Close error = %v, want ErrClosed", err)
	}
}

func TestPool_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	p := NewPool(ctx, PoolConfig{Addr: startServer(t), MaxTotal: 4, MaxIdle: 4})
	defer p.Close(ctx)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply, err := p.Do(ctx, "SADD", "members", "m")
			if err != nil {
				errs <- err
				return
			}
			if _, ok := reply.(resp.Integer); !ok {
				errs <- errors.New("unexpected reply type")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("pooled Do() error = %v", err)
	}

	if p.Active() != 0 {
		t.Errorf("Active() = %d after all returned, want 0", p.Active())
	}
	if idle := p.Idle(); idle < 1 || idle > 4 {
		t.Errorf("Idle() = %d, want 1..4", idle)
	}

	reply, err := p.Do(ctx, "SMEMBERS", "members")
	if err != nil {
		t.Fatalf("Do(SMEMBERS) error = %v", err)
	}
	if want := (resp.Set{resp.BulkFromString("m")}); !reflect.DeepEqual(reply, want) {
		t.Errorf("SMEMBERS = %#v, want %#v", reply, want)
	}
}

func TestPool_BorrowReturn(t *testing.T) {
	ctx := context.Background()
	p := NewPool(ctx, PoolConfig{Addr: startServer(t), MaxTotal: 1})
	defer p.Close(ctx)

	c, err := p.Borrow(ctx)
	if err != nil {
		t.Fatalf("Borrow() error = %v", err)
	}
	if p.Active() != 1 {
		t.Errorf("Active() = %d, want 1", p.Active())
	}

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := p.Borrow(waitCtx); err == nil {
		t.Error("Borrow() beyond MaxTotal should block until the context expires")
	}

	if err := p.Return(ctx, c); err != nil {
		t.Fatalf("Return() error = %v", err)
	}
	again, err := p.Borrow(ctx)
	if err != nil {
		t.Fatalf("Borrow() after Return error = %v", err)
	}
	if again != c {
		t.Error("pool did not reuse the returned client")
	}
	_ = p.Invalidate(ctx, again)
}
