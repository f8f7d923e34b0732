package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// benchRequests build the i-th request of each benchmarkable command.
var benchRequests = map[string]func(i, keyspace int) []string{
	"ping": func(int, int) []string { return []string{"PING"} },
	"echo": func(int, int) []string { return []string{"ECHO", "hello"} },
	"set": func(i, n int) []string {
		return []string{"SET", benchKey("key", i, n), "value:" + strconv.Itoa(i)}
	},
	"get": func(i, n int) []string { return []string{"GET", benchKey("key", i, n)} },
	"hset": func(i, n int) []string {
		return []string{"HSET", "bench:hash", benchKey("field", i, n), strconv.Itoa(i)}
	},
	"hget": func(i, n int) []string { return []string{"HGET", "bench:hash", benchKey("field", i, n)} },
	"sadd": func(i, n int) []string { return []string{"SADD", "bench:set", benchKey("member", i, n)} },
	"sismember": func(i, n int) []string {
		return []string{"SISMEMBER", "bench:set", benchKey("member", i, n)}
	},
}

func benchKey(prefix string, i, keyspace int) string {
	return "bench:" + prefix + ":" + strconv.Itoa(i%keyspace)
}

// BenchCommands lists the commands bench can drive.
func BenchCommands() []string {
	names := make([]string, 0, len(benchRequests))
	for n := range benchRequests {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Run a concurrent load test against the server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "clients",
				Aliases: []string{"c"},
				Usage:   "concurrent clients",
				Value:   50,
			},
			&cli.IntFlag{
				Name:    "requests",
				Aliases: []string{"n"},
				Usage:   "total requests",
				Value:   10000,
			},
			&cli.StringFlag{
				Name:  "command",
				Usage: "command to run: " + strings.Join(BenchCommands(), ", "),
				Value: "set",
			},
			&cli.IntFlag{
				Name:  "keyspace",
				Usage: "distinct keys to spread requests over",
				Value: 1000,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "hide the progress bar",
			},
		},
		Action: benchAction,
	}
}

// BenchOptions configures a benchmark run.
type BenchOptions struct {
	Server   string
	Timeout  time.Duration
	Clients  int
	Requests int
	Command  string
	Keyspace int
	// DialOptions apply to every benchmark connection.
	DialOptions []connection.DialOption
	// Progress, if set, is advanced once per completed request.
	Progress *output.ProgressBar
}

// BenchResult summarizes a benchmark run.
type BenchResult struct {
	Command   string
	Requests  int
	Clients   int
	Errors    int64
	Elapsed   time.Duration
	Latencies []time.Duration
}

// Throughput returns completed requests per second.
func (r *BenchResult) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Latencies)) / r.Elapsed.Seconds()
}

// Percentile returns the p-th latency percentile (0 < p <= 100).
// Latencies must be sorted.
func (r *BenchResult) Percentile(p float64) time.Duration {
	if len(r.Latencies) == 0 {
		return 0
	}
	idx := int(float64(len(r.Latencies))*p/100+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(r.Latencies) {
		idx = len(r.Latencies) - 1
	}
	return r.Latencies[idx]
}

// Mean returns the average latency.
func (r *BenchResult) Mean() time.Duration {
	if len(r.Latencies) == 0 {
		return 0
	}
	var sum time.Duration
	for _, l := range r.Latencies {
		sum += l
	}
	return sum / time.Duration(len(r.Latencies))
}

// Table renders the result for the output formatters.
func (r *BenchResult) Table() *output.Table {
	t := &output.Table{}
	t.SetHeaders("metric", "value")
	t.AddRow("command", strings.ToUpper(r.Command))
	t.AddRow("requests", strconv.Itoa(r.Requests))
	t.AddRow("clients", strconv.Itoa(r.Clients))
	t.AddRow("errors", strconv.FormatInt(r.Errors, 10))
	t.AddRow("elapsed", r.Elapsed.Round(time.Millisecond).String())
	t.AddRow("throughput", fmt.Sprintf("%.1f req/s", r.Throughput()))
	t.AddRow("latency_avg", r.Mean().String())
	t.AddRow("latency_p50", r.Percentile(50).String())
	t.AddRow("latency_p99", r.Percentile(99).String())
	if n := len(r.Latencies); n > 0 {
		t.AddRow("latency_max", r.Latencies[n-1].String())
	}
	return t
}

// RunBench drives opts.Requests requests through a pool of opts.Clients
// connections. Error replies and I/O failures count as errors.
func RunBench(ctx context.Context, opts BenchOptions) (*BenchResult, error) {
	build, ok := benchRequests[strings.ToLower(opts.Command)]
	if !ok {
		return nil, fmt.Errorf("bench: unsupported command %q (want one of %s)",
			opts.Command, strings.Join(BenchCommands(), ", "))
	}
	if opts.Clients <= 0 || opts.Requests <= 0 {
		return nil, fmt.Errorf("bench: clients and requests must be positive")
	}
	if opts.Keyspace <= 0 {
		opts.Keyspace = 1
	}
	if opts.Clients > opts.Requests {
		opts.Clients = opts.Requests
	}

	pool := connection.NewPool(ctx, connection.PoolConfig{
		Addr:        opts.Server,
		Timeout:     opts.Timeout,
		MaxTotal:    opts.Clients,
		MaxIdle:     opts.Clients,
		DialOptions: opts.DialOptions,
	})
	defer pool.Close(ctx)

	// Fail fast when the server is unreachable.
	if _, err := pool.Do(ctx, "PING"); err != nil {
		return nil, err
	}

	var (
		next    atomic.Int64
		errs    atomic.Int64
		mu      sync.Mutex
		all     = make([]time.Duration, 0, opts.Requests)
		wg      sync.WaitGroup
		started = time.Now()
	)
	for w := 0; w < opts.Clients; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]time.Duration, 0, opts.Requests/opts.Clients+1)
			for {
				i := int(next.Add(1)) - 1
				if i >= opts.Requests || ctx.Err() != nil {
					break
				}
				start := time.Now()
				reply, err := pool.Do(ctx, build(i, opts.Keyspace)...)
				elapsed := time.Since(start)
				if err != nil {
					errs.Add(1)
				} else {
					if _, isErr := reply.(resp.SimpleError); isErr {
						errs.Add(1)
					}
					local = append(local, elapsed)
				}
				if opts.Progress != nil {
					opts.Progress.Increment(1)
				}
			}
			mu.Lock()
			all = append(all, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return &BenchResult{
		Command:   strings.ToLower(opts.Command),
		Requests:  opts.Requests,
		Clients:   opts.Clients,
		Errors:    errs.Load(),
		Elapsed:   time.Since(started),
		Latencies: all,
	}, ctx.Err()
}

func benchAction(c *cli.Context) error {
	s := GetSettings(c)
	opts := BenchOptions{
		Server:      s.Server,
		Timeout:     s.Timeout,
		Clients:     c.Int("clients"),
		Requests:    c.Int("requests"),
		Command:     c.String("command"),
		Keyspace:    c.Int("keyspace"),
		DialOptions: s.DialOptions(),
	}
	if !c.Bool("quiet") && s.Output == output.FormatText {
		opts.Progress = output.NewProgressBar(os.Stderr, strings.ToUpper(opts.Command))
		opts.Progress.SetTotal(int64(opts.Requests))
	}

	result, err := RunBench(c.Context, opts)
	if opts.Progress != nil && result != nil {
		opts.Progress.Finish()
	}
	if err != nil {
		return err
	}
	return output.NewFormatter(s.Output).Format(c.App.Writer, result.Table())
}
