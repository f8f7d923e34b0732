package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
)

// ExecCommand returns the exec command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Aliases:   []string{"x"},
		Usage:     "Send one command and print the reply",
		ArgsUsage: "COMMAND [ARG...]",
		// Arguments such as "-1" belong to the command, not to exec.
		SkipFlagParsing: true,
		Action:          execAction,
	}
}

func execAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("exec: command required")
	}
	s := GetSettings(c)

	client, err := connection.Dial(c.Context, s.Server, s.Timeout, s.DialOptions()...)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Do(c.Args().Slice()...)
	if err != nil {
		return err
	}
	return output.NewFormatter(s.Output).Format(c.App.Writer, reply)
}
