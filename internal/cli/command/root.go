package command

import (
	"crypto/tls"
	"net"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
)

const settingsKey = "settings"

// Settings are the resolved global options: flags and environment first,
// then the config file, then defaults.
type Settings struct {
	Server      string
	Timeout     time.Duration
	Output      output.Format
	HistoryFile string
	// TLS is nil for plaintext connections.
	TLS *tls.Config
}

// DialOptions returns the connection options the settings imply.
func (s *Settings) DialOptions() []connection.DialOption {
	if s.TLS == nil {
		return nil
	}
	return []connection.DialOption{connection.WithTLS(s.TLS)}
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respkv-cli",
		Usage:   "command-line client for respkv",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ExecCommand(),
			ReplCommand(),
			BenchCommand(),
		},
		Before: resolveSettings,
		Action: replAction,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address (host:port)",
			EnvVars: []string{"RESPKV_SERVER"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "dial and request timeout",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml",
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "connect over TLS",
		},
		&cli.StringFlag{
			Name:  "cacert",
			Usage: "PEM file of CA certificates to trust (implies --tls)",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"RESPKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

func resolveSettings(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	s := &Settings{
		Server:      cfg.Server,
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
	}
	if c.IsSet("server") {
		s.Server = c.String("server")
	}
	if c.IsSet("timeout") {
		s.Timeout = c.Duration("timeout")
	}
	format := cfg.Output
	if c.IsSet("output") {
		format = c.String("output")
	}
	if s.Output, err = output.ParseFormat(format); err != nil {
		return err
	}

	useTLS, caFile := cfg.TLS, cfg.CACert
	if c.IsSet("tls") {
		useTLS = c.Bool("tls")
	}
	if c.IsSet("cacert") {
		caFile = c.String("cacert")
	}
	if s.TLS, err = clientTLS(s.Server, useTLS, caFile); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[settingsKey] = s
	return nil
}

func clientTLS(server string, enabled bool, caFile string) (*tls.Config, error) {
	if !enabled && caFile == "" {
		return nil, nil
	}
	roots := tlsroots.NewPool()
	if caFile != "" {
		var err error
		if roots, err = tlsroots.LoadCAFile(caFile); err != nil {
			return nil, err
		}
	}
	host, _, err := net.SplitHostPort(server)
	if err != nil {
		host = server
	}
	return roots.ClientConfig(host), nil
}

// GetSettings returns the settings resolved before the action ran.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	d := config.Default()
	return &Settings{Server: d.Server, Timeout: d.Timeout, Output: output.FormatText}
}
