package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DuplicateCmd inserts a fresh copy of a task below it.
type DuplicateCmd struct {
	flags *Flags

	// endFirst finishes the original task before duplicating it
	endFirst bool

	// flags
	line   int
	dryRun bool
}

// NewDuplicateCmd creates the duplicate command.
func NewDuplicateCmd(flags *Flags) *DuplicateCmd {
	return &DuplicateCmd{flags: flags}
}

// NewEndDupCmd creates the end-dup command.
func NewEndDupCmd(flags *Flags) *DuplicateCmd {
	return &DuplicateCmd{flags: flags, endFirst: true}
}

// Register adds the command to the application
func (cmd *DuplicateCmd) Register(app *cli.Command) *cli.Command {
	name := "duplicate"
	usage := "Insert a new todo copy of a task on the next line"
	description := `Inserts a todo task with the same indentation, list marker and content
directly below the addressed task. Recorded times are not copied.`

	if cmd.endFirst {
		name = "end-dup"
		usage = "Finish a task and insert a new todo copy on the next line"
		description = `Finishes the addressed task (recording the end time) and inserts a
todo copy of it directly below, for splitting work across sessions.
Done tasks are duplicated as is; cancelled tasks are rejected.`
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:        name,
		Usage:       usage,
		UsageText:   fmt.Sprintf("ctt %s --line N [--dry-run] <file>", name),
		Description: description,
		Flags:       lineFlags(&cmd.line, &cmd.dryRun),
		Action:      cmd.run,
	})

	return app
}

func (cmd *DuplicateCmd) run(ctx context.Context, c *cli.Command) error {
	path, err := fileArg(c)
	if err != nil {
		return err
	}

	ctx, target, err := cmd.flags.loadTarget(ctx, path, cmd.line)
	if err != nil {
		return err
	}

	ops := cmd.flags.Tracker
	current, next := target.task, ops.Duplicate(target.task)
	if cmd.endFirst {
		current, next, err = ops.EndAndDuplicate(target.task)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, cmd.line, err)
		}
	}

	out := c.Root().Writer
	if cmd.endFirst {
		formatted := ops.Format(current)
		if err := target.doc.SetLine(cmd.line, formatted); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, formatted); err != nil {
			return err
		}
	}

	formatted := ops.Format(next)
	if err := target.doc.InsertAfter(cmd.line, formatted); err != nil {
		return err
	}
	if err := target.save(ctx, cmd.dryRun); err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, formatted)
	return err
}
