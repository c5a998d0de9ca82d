package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/core/doctor"
	"github.com/colonyops/ctt/internal/core/styles"
	"github.com/colonyops/ctt/pkg/iojson"
)

type DoctorCmd struct {
	flags  *Flags
	format string
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your configuration and documents",
		UsageText:   "ctt doctor [options]",
		Description: "Validates the configuration and parses every task in the configured documents, reporting malformed lines.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks := []doctor.Check{doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath)}
	// documents can only be parsed with a valid config
	if cmd.flags.Tracker != nil {
		checks = append(checks, doctor.NewDocumentsCheck(cmd.flags.Tracker, cmd.flags.Config.Files))
	}

	results := doctor.RunAll(ctx, checks)

	if cmd.format == "json" {
		if err := cmd.outputJSON(c, results); err != nil {
			return err
		}
	} else {
		cmd.outputText(c.Root().ErrWriter, results)
	}

	if _, _, failed := doctor.Summary(results); failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputText(w io.Writer, results []doctor.Result) {
	palette, ok := styles.GetPalette(cmd.flags.Config.Theme)
	if !ok {
		palette, _ = styles.GetPalette(styles.DefaultTheme)
	}

	var (
		muted   = lipgloss.NewStyle().Foreground(palette.Muted)
		title   = lipgloss.NewStyle().Bold(true).Foreground(palette.Primary)
		heading = lipgloss.NewStyle().Bold(true).Foreground(palette.Foreground)
		success = lipgloss.NewStyle().Foreground(palette.Success)
		warning = lipgloss.NewStyle().Foreground(palette.Warning)
		failure = lipgloss.NewStyle().Foreground(palette.Error)
	)

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, title.Render("ctt doctor"))
	_, _ = fmt.Fprintln(w, muted.Render(strings.Repeat("─", 40)))
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, heading.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + muted.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = success.Render("✔")
			case doctor.StatusWarn:
				icon = warning.Render("●")
			case doctor.StatusFail:
				icon = failure.Render("✘")
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	passed, warned, failed := doctor.Summary(results)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		success.Render(fmt.Sprintf("%d passed", passed)),
		warning.Render(fmt.Sprintf("%d warnings", warned)),
		failure.Render(fmt.Sprintf("%d failed", failed)),
	)
}
