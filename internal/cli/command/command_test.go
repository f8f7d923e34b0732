package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/internal/infra/tlsroots/tlstest"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
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

// writeConfig writes a CLI config that keeps history inside the test's
// temp dir and returns its path.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cli.yaml")
	body := "history_file: " + filepath.Join(dir, "history") + "\n" + extra
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI runs the app with args after the program name and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"respkv-cli"}, args...))
	return out.String(), err
}

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "respkv-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "respkv-cli")
	}
	if app.Version == "" {
		t.Error("Version should not be empty")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"exec", "repl", "bench"} {
		if !commandNames[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"server", "timeout", "output", "config", "tls", "cacert"} {
		if !flagNames[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestResolveSettings(t *testing.T) {
	cfgPath := writeConfig(t, "server: cfg-host:7000\noutput: yaml\ntimeout: 3s\n")

	tests := []struct {
		name string
		args []string
		env  string
		want Settings
	}{
		{
			name: "config file",
			args: []string{"--config", cfgPath},
			want: Settings{Server: "cfg-host:7000", Output: output.FormatYAML, Timeout: 3 * time.Second},
		},
		{
			name: "flags override config",
			args: []string{"--config", cfgPath, "-s", "flag-host:1", "-o", "json", "--timeout", "1s"},
			want: Settings{Server: "flag-host:1", Output: output.FormatJSON, Timeout: time.Second},
		},
		{
			name: "env overrides config",
			args: []string{"--config", cfgPath},
			env:  "env-host:2",
			want: Settings{Server: "env-host:2", Output: output.FormatYAML, Timeout: 3 * time.Second},
		},
		{
			name: "defaults without config",
			args: []string{"--config", filepath.Join(t.TempDir(), "absent.yaml")},
			want: Settings{Server: "127.0.0.1:6379", Output: output.FormatText, Timeout: 5 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("RESPKV_SERVER", tt.env)
			}

			var got *Settings
			app := App()
			app.Commands = append(app.Commands, &cli.Command{
				Name: "probe",
				Action: func(c *cli.Context) error {
					got = GetSettings(c)
					return nil
				},
			})
			if err := app.Run(append(append([]string{"respkv-cli"}, tt.args...), "probe")); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got.Server != tt.want.Server || got.Output != tt.want.Output || got.Timeout != tt.want.Timeout {
				t.Errorf("settings = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestResolveSettings_BadOutput(t *testing.T) {
	_, err := runCLI(t, "", "--config", writeConfig(t, ""), "-o", "xml", "exec", "PING")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("error = %v, want unknown output format", err)
	}
}

func TestExec(t *testing.T) {
	addr := startServer(t)
	cfg := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"set", []string{"exec", "SET", "greeting", "hello world"}, "OK\n"},
		{"get text", []string{"exec", "GET", "greeting"}, "\"hello world\"\n"},
		{"get json", []string{"-o", "json", "exec", "GET", "greeting"}, "\"hello world\"\n"},
		{"missing", []string{"exec", "GET", "nope"}, "(nil)\n"},
		{"sadd", []string{"x", "SADD", "s", "a", "b"}, "(integer) 2\n"},
		{"error reply", []string{"exec", "GET"}, "(error) ERR wrong number of arguments for 'get' command\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "-s", addr}, tt.args...)
			out, err := runCLI(t, "", args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestExec_Errors(t *testing.T) {
	cfg := writeConfig(t, "")

	if _, err := runCLI(t, "", "--config", cfg, "-s", startServer(t), "exec"); err == nil {
		t.Error("exec without a command should fail")
	}
	if _, err := runCLI(t, "", "--config", cfg, "-s", "127.0.0.1:1", "--timeout", "500ms", "exec", "PING"); err == nil {
		t.Error("exec against a closed port should fail")
	}
}

func TestRepl(t *testing.T) {
	addr := startServer(t)
	cfg := writeConfig(t, "")

	for _, sub := range [][]string{{"repl"}, {}} {
		args := append([]string{"--config", cfg, "-s", addr}, sub...)
		out, err := runCLI(t, "SET lang go\nGET lang\nquit\n", args...)
		if err != nil {
			t.Fatalf("Run(%v) error = %v", sub, err)
		}
		if !strings.Contains(out, addr+"> ") {
			t.Errorf("output missing prompt:\n%s", out)
		}
		if !strings.Contains(out, "OK\n") || !strings.Contains(out, "\"go\"\n") {
			t.Errorf("output missing replies:\n%s", out)
		}
	}

	history, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "history"))
	if err != nil {
		t.Fatalf("history not saved: %v", err)
	}
	if !strings.Contains(string(history), "GET lang") {
		t.Errorf("history = %q", history)
	}
}

func TestExec_TLS(t *testing.T) {
	kp := tlstest.WriteKeyPair(t, t.TempDir(), "server")
	w, err := tlsroots.NewWatcher(kp.CertFile, kp.KeyFile)
	if err != nil {
		t.Fatal(err)
	}
	cfg := redisserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.TLS = w.ServerConfig(nil)
	srv := redisserver.New(cfg, memory.New())
	if err := srv.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	addr := srv.Addr().String()
	cliCfg := writeConfig(t, "")

	out, err := runCLI(t, "", "--config", cliCfg, "-s", addr, "--cacert", kp.CertFile, "exec", "ECHO", "over tls")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "\"over tls\"\n" {
		t.Errorf("output = %q", out)
	}

	if _, err := runCLI(t, "", "--config", cliCfg, "-s", addr, "--timeout", "1s", "exec", "PING"); err == nil {
		t.Error("plaintext exec against a TLS server should fail")
	}
}

func TestClientTLS(t *testing.T) {
	kp := tlstest.WriteKeyPair(t, t.TempDir(), "ca")

	tests := []struct {
		name     string
		enabled  bool
		caFile   string
		wantNil  bool
		wantErr  bool
		wantHost string
	}{
		{name: "plaintext", wantNil: true},
		{name: "system roots", enabled: true, wantHost: "example.com"},
		{name: "ca implies tls", caFile: kp.CertFile, wantHost: "example.com"},
		{name: "bad ca", caFile: kp.KeyFile, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clientTLS("example.com:6379", tt.enabled, tt.caFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("clientTLS() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != tt.wantNil {
				t.Fatalf("clientTLS() = %v, wantNil %v", got, tt.wantNil)
			}
			if got != nil && got.ServerName != tt.wantHost {
				t.Errorf("ServerName = %q, want %q", got.ServerName, tt.wantHost)
			}
		})
	}
}

func TestExec_DashArguments(t *testing.T) {
	addr := startServer(t)
	cfg := writeConfig(t, "")

	out, err := runCLI(t, "", "--config", cfg, "-s", addr, "exec", "ECHO", "-1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "\"-1\"\n" {
		t.Errorf("output = %q, want %q", out, "\"-1\"\n")
	}
}
