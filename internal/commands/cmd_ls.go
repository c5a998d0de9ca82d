package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/core/status"
	"github.com/colonyops/ctt/internal/core/styles"
	"github.com/colonyops/ctt/internal/core/task"
	"github.com/colonyops/ctt/internal/document"
	"github.com/colonyops/ctt/internal/printer"
	"github.com/colonyops/ctt/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	statuses   []string
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List tasks found in documents",
		UsageText: "ctt ls [globs...] [--status s] [--json]",
		Description: `Scans documents matching the given glob patterns (or the configured
'files' patterns) and lists every task with its location, status, times and
duration. Tasks inside front matter and fenced code blocks are ignored.

Use --json for one JSON object per task.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "only list tasks with this status (todo, doing, done, cancelled)",
				Destination: &cmd.statuses,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// taskInfo is the JSON output format for ctt ls --json.
type taskInfo struct {
	File     string    `json:"file"`
	Line     int       `json:"line"`
	Task     task.Task `json:"task"`
	Duration string    `json:"duration,omitempty"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	filter, err := parseStatuses(cmd.statuses)
	if err != nil {
		return err
	}

	patterns := c.Args().Slice()
	if len(patterns) == 0 {
		patterns = cmd.flags.Config.Files
	}

	files, err := document.Glob(patterns)
	if err != nil {
		return err
	}

	var (
		found []taskInfo
		total time.Duration
	)
	for _, file := range files {
		doc, err := document.Load(file)
		if err != nil {
			p.Warnf("%s: %v", file, err)
			continue
		}

		for _, tl := range doc.TaskLines() {
			t, _, err := cmd.flags.Tracker.Parse(tl.Text)
			if err != nil {
				p.Warnf("%s:%d: %v", file, tl.Number, err)
				continue
			}
			if len(filter) > 0 && !slices.Contains(filter, t.Status) {
				continue
			}

			info := taskInfo{File: file, Line: tl.Number, Task: t}
			if d, ok := t.Duration(); ok {
				info.Duration = formatDuration(d)
				total += d
			}
			found = append(found, info)
		}
	}

	log.Debug().Int("files", len(files)).Int("tasks", len(found)).Msg("scanned documents")

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, info := range found {
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	if len(found) == 0 {
		p.Infof("No tasks found")
		return nil
	}

	st := styles.ForTheme(cmd.flags.Config.Theme)

	locWidth := 0
	for _, info := range found {
		locWidth = max(locWidth, len(location(info)))
	}

	_, _ = fmt.Fprintln(out, st.Header.Render(fmt.Sprintf("%-*s  %-9s  %-8s  %s", locWidth, "LOCATION", "STATUS", "DURATION", "TASK")))
	for _, info := range found {
		_, _ = fmt.Fprintf(out, "%s  %s  %s  %s\n",
			st.Location.Render(fmt.Sprintf("%-*s", locWidth, location(info))),
			st.Status(info.Task.Status).Render(fmt.Sprintf("%-9s", info.Task.Status.Name())),
			st.Duration.Render(fmt.Sprintf("%-8s", info.Duration)),
			cmd.flags.Tracker.Format(info.Task.WithoutIndent()),
		)
	}

	if total > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintf(out, "%d task(s), %s tracked\n", len(found), st.Duration.Render(formatDuration(total)))
	}

	return nil
}

func location(info taskInfo) string {
	return fmt.Sprintf("%s:%d", info.File, info.Line)
}

func parseStatuses(names []string) ([]status.Status, error) {
	out := make([]status.Status, 0, len(names))
	for _, name := range names {
		s := status.Status(strings.ToLower(strings.TrimSpace(name)))
		if !s.IsValid() {
			return nil, fmt.Errorf("unknown status %q (valid: todo, doing, done, cancelled)", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// formatDuration renders d as hours and minutes, e.g. "1h05m" or "45m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
