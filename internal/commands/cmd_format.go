package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/core/task"
	"github.com/colonyops/ctt/pkg/iojson"
)

type FormatCmd struct {
	flags *Flags
	input iojson.Input
}

// NewFormatCmd creates a new format command
func NewFormatCmd(flags *Flags) *FormatCmd {
	return &FormatCmd{flags: flags}
}

// Register adds the format command to the application
func (cmd *FormatCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "format",
		Usage:     "Render a JSON task as a task line",
		UsageText: "ctt format [-f file]",
		Description: `Reads a task in the JSON shape printed by 'ctt parse' from --file or
stdin and prints the task line it formats to under the current config.`,
		Flags:  []cli.Flag{cmd.input.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *FormatCmd) run(ctx context.Context, c *cli.Command) error {
	t, err := iojson.ReadJSON[task.Task](&cmd.input)
	if err != nil {
		return err
	}

	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status %q", t.Status)
	}

	_, err = fmt.Fprintln(c.Root().Writer, cmd.flags.Tracker.Format(t))
	return err
}
