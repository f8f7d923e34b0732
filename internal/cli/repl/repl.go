package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// Executor sends one command to the server.
type Executor func(args []string) (resp.Frame, error)

// Config configures a REPL.
type Config struct {
	In        io.Reader
	Out       io.Writer
	Prompt    string
	Exec      Executor
	Formatter output.Formatter
	Completer *Completer
	History   *History
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	formatter output.Formatter
	completer *Completer
	history   *History
}

// New creates a new REPL instance.
func New(cfg Config) *REPL {
	r := &REPL{
		input:     cfg.In,
		output:    cfg.Out,
		prompt:    cfg.Prompt,
		exec:      cfg.Exec,
		formatter: cfg.Formatter,
		completer: cfg.Completer,
		history:   cfg.History,
	}
	if r.formatter == nil {
		r.formatter = &output.TextFormatter{}
	}
	if r.completer == nil {
		r.completer = NewCompleter(nil)
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	if r.prompt == "" {
		r.prompt = "respkv> "
	}
	return r
}

// Run starts the REPL loop. It returns nil on exit, quit or end of input.
func (r *REPL) Run() error {
	_ = r.history.Load()
	defer r.history.Save()

	reader := bufio.NewReader(r.input)
	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if done := r.handle(line); done {
			return nil
		}
		if err == io.EOF {
			return nil
		}
	}
}

// handle runs one input line and reports whether the loop should stop.
func (r *REPL) handle(line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true
	case "help":
		r.help(args[1:])
		return false
	case "clear":
		fmt.Fprint(r.output, "\033[H\033[2J")
		return false
	}

	if len(args) == 1 && len(args[0]) > 1 && strings.HasSuffix(args[0], "?") {
		r.suggest(strings.TrimSuffix(args[0], "?"))
		return false
	}

	reply, err := r.exec(args)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}
	if err := r.formatter.Format(r.output, reply); err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
	}
	return false
}

func (r *REPL) help(args []string) {
	if len(args) > 0 {
		if usage, ok := Usage[strings.ToLower(args[0])]; ok {
			fmt.Fprintf(r.output, "%s %s\n", strings.ToUpper(args[0]), usage)
			return
		}
		fmt.Fprintf(r.output, "no help for %q\n", args[0])
		return
	}
	fmt.Fprintln(r.output, "Commands:")
	for _, cmd := range r.completer.Commands() {
		if usage, ok := Usage[cmd]; ok {
			fmt.Fprintf(r.output, "  %-10s %s\n", strings.ToUpper(cmd), usage)
		}
	}
	fmt.Fprintln(r.output, "Type a command prefix followed by ? to list matches. exit or quit leaves.")
}

func (r *REPL) suggest(prefix string) {
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintln(r.output, "(no matches)")
		return
	}
	fmt.Fprintln(r.output, strings.Join(matches, "  "))
}

// Usage holds the argument synopsis of each command.
var Usage = map[string]string{
	"get":       "key",
	"set":       "key value",
	"hget":      "key field",
	"hset":      "key field value",
	"hgetall":   "key",
	"hmget":     "key field [field ...]",
	"sadd":      "key member [member ...]",
	"sismember": "key member",
	"smembers":  "key",
	"echo":      "message",
	"ping":      "[message]",
	"help":      "[command]",
	"exit":      "",
	"quit":      "",
	"clear":     "",
}
