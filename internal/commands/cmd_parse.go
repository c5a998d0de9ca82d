package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/core/task"
	"github.com/colonyops/ctt/pkg/iojson"
)

type ParseCmd struct {
	flags *Flags
	input iojson.Input
}

// NewParseCmd creates a new parse command
func NewParseCmd(flags *Flags) *ParseCmd {
	return &ParseCmd{flags: flags}
}

// Register adds the parse command to the application
func (cmd *ParseCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "parse",
		Usage:     "Parse task lines and print them as JSON",
		UsageText: "ctt parse [line] [-f file]",
		Description: `Parses a single task line given as an argument and prints it as JSON.

Without an argument, lines are read from --file or stdin and one JSON object
is printed per task line. Lines that are not tasks are skipped; lines that
fail to parse are reported with an "error" field.`,
		Flags:  []cli.Flag{cmd.input.Flag()},
		Action: cmd.run,
	})

	return app
}

// parseResult is the JSON output format for ctt parse.
type parseResult struct {
	Line     int        `json:"line,omitempty"`
	Task     *task.Task `json:"task,omitempty"`
	Duration string     `json:"duration,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func (cmd *ParseCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if c.Args().Len() > 0 {
		t, ok, err := cmd.flags.Tracker.Parse(c.Args().First())
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoTask
		}
		return iojson.WriteWith(out, os.Stderr, cmd.result(0, t))
	}

	lines, err := iojson.ReadLines(&cmd.input)
	if err != nil {
		return err
	}

	for i, line := range lines {
		t, ok, err := cmd.flags.Tracker.Parse(line)
		if !ok {
			continue
		}

		res := cmd.result(i+1, t)
		if err != nil {
			res = parseResult{Line: i + 1, Error: err.Error()}
		}
		if err := iojson.WriteLine(out, res); err != nil {
			return fmt.Errorf("encode task: %w", err)
		}
	}

	return nil
}

func (cmd *ParseCmd) result(line int, t task.Task) parseResult {
	res := parseResult{Line: line, Task: &t}
	if d, ok := t.Duration(); ok {
		res.Duration = formatDuration(d)
	}
	return res
}
