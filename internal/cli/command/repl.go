package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	respcmd "github.com/yndnr/respkv/internal/command"
	"github.com/yndnr/respkv/pkg/resp"
)

// ReplCommand returns the repl command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Start an interactive session (default)",
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	s := GetSettings(c)

	client, err := connection.Dial(c.Context, s.Server, s.Timeout, s.DialOptions()...)
	if err != nil {
		return err
	}
	defer client.Close()

	r := repl.New(repl.Config{
		In:     c.App.Reader,
		Out:    c.App.Writer,
		Prompt: fmt.Sprintf("%s> ", s.Server),
		Exec: func(args []string) (resp.Frame, error) {
			return client.Do(args...)
		},
		Formatter: output.NewFormatter(s.Output),
		Completer: repl.NewCompleter(respcmd.Names()),
		History:   repl.NewHistory(s.HistoryFile),
	})
	return r.Run()
}
