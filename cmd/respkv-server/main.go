package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/internal/server/adminserver"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("respkv-server", flag.ContinueOnError)
	var (
		configFile  = fs.String("config", "", "Path to configuration file (.yaml, .yml or .toml)")
		showVersion = fs.Bool("version", false, "Show version information")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Println("respkv-server " + buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)

	store := memory.New(memory.WithShards(cfg.Storage.Shards))
	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewCollector(keyCounts(store)))

	sh := shutdown.NewHandler(shutdownTimeout)

	redisCfg := redisConfig(&cfg.Server.Redis)
	certs, err := serverTLS(&cfg.Server.Redis.TLS, log)
	if err != nil {
		return fmt.Errorf("init tls: %w", err)
	}
	if certs != nil {
		var clientCAs *tlsroots.Pool
		if f := cfg.Server.Redis.TLS.ClientCAFile; f != "" {
			if clientCAs, err = tlsroots.LoadCAFile(f); err != nil {
				certs.Stop()
				return fmt.Errorf("init tls: %w", err)
			}
		}
		redisCfg.TLS = certs.ServerConfig(clientCAs)
		certs.StartAsync()
		sh.OnShutdown(func(context.Context) error {
			certs.Stop()
			return nil
		})
	}

	redis := redisserver.New(redisCfg, store,
		redisserver.WithLogger(log.Slog()),
		redisserver.WithMetrics(metrics))
	if err := redis.Start(ctx); err != nil {
		_ = sh.Run()
		return err
	}

	// Hooks run in reverse order: the config watcher stops first, the
	// certificate watcher last.
	sh.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return redis.Shutdown(ctx)
	})

	if cfg.Server.Admin.Enabled {
		admin := adminserver.New(cfg.Server.Admin.Addr, adminserver.NewRouter(&adminserver.RouterConfig{
			Metrics: metrics,
			Health:  redisHealth(redis),
			Logger:  log.Slog(),
		}), log.Slog())
		if err := admin.Start(); err != nil {
			_ = sh.Run()
			return err
		}
		sh.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down admin server")
			return admin.Shutdown(ctx)
		})
	}

	if *configFile != "" {
		w, err := watchLogLevel(*configFile, log)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			sh.OnShutdown(func(context.Context) error { return w.Stop() })
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := sh.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the optional file and the environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	opts := []confloader.Option{confloader.WithDefaults(config.DefaultMap())}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	cfg := config.Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

func redisConfig(c *config.RedisConfig) *redisserver.Config {
	return &redisserver.Config{
		Addr:                c.Addr,
		ReadTimeout:         c.ReadTimeout,
		WriteTimeout:        c.WriteTimeout,
		IdleTimeout:         c.IdleTimeout,
		RateLimit:           c.RateLimit,
		MaxConnections:      c.MaxConnections,
		CloseOnCommandError: c.OnCommandError == config.OnErrorClose,
		Limits: resp.Limits{
			MaxLineLen:      c.MaxLineLen,
			MaxBulkLen:      c.MaxBulkLen,
			MaxAggregateLen: c.MaxAggregateLen,
			MaxDepth:        c.MaxDepth,
		},
	}
}

// serverTLS loads the RESP listener's key pair, or returns nil when TLS is
// not configured.
func serverTLS(c *config.TLSConfig, log logger.Logger) (*tlsroots.Watcher, error) {
	if !c.Enabled() {
		return nil, nil
	}
	return tlsroots.NewWatcher(c.CertFile, c.KeyFile, tlsroots.WithLogger(log.Slog()))
}

func keyCounts(store *memory.Store) metric.KeyCountFunc {
	return func() map[string]int {
		st := store.Stats()
		return map[string]int{
			"string": st.Strings,
			"hash":   st.Hashes,
			"set":    st.Sets,
		}
	}
}

func redisHealth(s *redisserver.Server) func() error {
	return func() error {
		if !s.Running() {
			return errors.New("redis server is not running")
		}
		return nil
	}
}

// watchLogLevel re-reads the config file on change and applies log.level.
// Other settings need a restart.
func watchLogLevel(path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		prev := logger.Level()
		logger.SetLevel(cfg.Log.Level)
		if now := logger.Level(); now != prev {
			log.Info("log level changed", "from", prev, "to", now)
		}
	})
	w.StartAsync()
	return w, nil
}
