package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/core/task"
	"github.com/colonyops/ctt/internal/tracker"
)

type transition func(ops *tracker.Operations, t task.Task) (task.Task, error)

// LineCmd rewrites a single task line in place.
type LineCmd struct {
	flags *Flags

	name        string
	usage       string
	description string
	apply       transition

	// flags
	line   int
	dryRun bool
}

// NewToggleCmd creates the toggle command.
func NewToggleCmd(flags *Flags) *LineCmd {
	return &LineCmd{
		flags: flags,
		name:  "toggle",
		usage: "Advance a task to its next status",
		description: `Moves a todo task to doing (recording the start time) and a doing task
to done (recording the end time). When the doing status is disabled, a todo
task is completed directly. Done and cancelled tasks are left unchanged.`,
		apply: func(ops *tracker.Operations, t task.Task) (task.Task, error) {
			return ops.Toggle(t), nil
		},
	}
}

// NewBeginCmd creates the begin command.
func NewBeginCmd(flags *Flags) *LineCmd {
	return &LineCmd{
		flags:       flags,
		name:        "begin",
		usage:       "Start a todo task",
		description: "Marks a todo task as doing and records the current time as its start.",
		apply:       (*tracker.Operations).Begin,
	}
}

// NewEndCmd creates the end command.
func NewEndCmd(flags *Flags) *LineCmd {
	return &LineCmd{
		flags:       flags,
		name:        "end",
		usage:       "Finish a task that is in progress",
		description: "Marks a doing task as done and records the current time as its end.",
		apply:       (*tracker.Operations).End,
	}
}

// NewCancelCmd creates the cancel command.
func NewCancelCmd(flags *Flags) *LineCmd {
	return &LineCmd{
		flags:       flags,
		name:        "cancel",
		usage:       "Cancel a task",
		description: "Marks a todo or doing task as cancelled. Recorded times are kept.",
		apply:       (*tracker.Operations).Cancel,
	}
}

// NewRestartCmd creates the restart command.
func NewRestartCmd(flags *Flags) *LineCmd {
	return &LineCmd{
		flags:       flags,
		name:        "restart",
		usage:       "Reopen a cancelled task",
		description: "Moves a cancelled task back to todo and clears its recorded times.",
		apply:       (*tracker.Operations).Restart,
	}
}

// Register adds the command to the application
func (cmd *LineCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        cmd.name,
		Usage:       cmd.usage,
		UsageText:   fmt.Sprintf("ctt %s --line N [--dry-run] <file>", cmd.name),
		Description: cmd.description,
		Flags:       lineFlags(&cmd.line, &cmd.dryRun),
		Action:      cmd.run,
	})

	return app
}

func (cmd *LineCmd) run(ctx context.Context, c *cli.Command) error {
	path, err := fileArg(c)
	if err != nil {
		return err
	}

	ctx, target, err := cmd.flags.loadTarget(ctx, path, cmd.line)
	if err != nil {
		return err
	}

	next, err := cmd.apply(cmd.flags.Tracker, target.task)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", path, cmd.line, err)
	}

	formatted := cmd.flags.Tracker.Format(next)
	if err := target.doc.SetLine(cmd.line, formatted); err != nil {
		return err
	}
	if err := target.save(ctx, cmd.dryRun); err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.Root().Writer, formatted)
	return err
}

func lineFlags(line *int, dryRun *bool) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "line",
			Aliases:     []string{"n"},
			Usage:       "1-based line number of the task",
			Required:    true,
			Destination: line,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "print the result without writing the file",
			Destination: dryRun,
		},
	}
}

func fileArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", errors.New("expected exactly one <file> argument")
	}
	return c.Args().First(), nil
}
