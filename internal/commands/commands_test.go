package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ctt/internal/core/config"
	"github.com/colonyops/ctt/internal/core/status"
	"github.com/colonyops/ctt/internal/document"
	"github.com/colonyops/ctt/internal/tracker"
)

type testEnv struct {
	t     *testing.T
	now   time.Time
	flags *Flags
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	env := &testEnv{t: t, now: at(10, 0)}
	ops, err := tracker.New(cfg, tracker.WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)

	env.flags = &Flags{Config: &cfg, Tracker: ops}
	return env
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

// run executes ctt with args against a fresh command tree.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:           "ctt",
		Writer:         &buf,
		ErrWriter:      &buf,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	app = NewToggleCmd(e.flags).Register(app)
	app = NewBeginCmd(e.flags).Register(app)
	app = NewEndCmd(e.flags).Register(app)
	app = NewCancelCmd(e.flags).Register(app)
	app = NewRestartCmd(e.flags).Register(app)
	app = NewDuplicateCmd(e.flags).Register(app)
	app = NewEndDupCmd(e.flags).Register(app)
	app = NewParseCmd(e.flags).Register(app)
	app = NewFormatCmd(e.flags).Register(app)
	app = NewLsCmd(e.flags).Register(app)
	app = NewConfigValidateCmd(e.flags).Register(app)
	app = NewDoctorCmd(e.flags).Register(app)

	err := app.Run(context.Background(), append([]string{"ctt"}, args...))
	return buf.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestToggle_FullLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "today.md", "# Today\n- [ ] Write report\n")

	out, err := env.run("toggle", "--line", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "- [/] 10:00 Write report\n", out)
	assert.Equal(t, "# Today\n- [/] 10:00 Write report\n", readDoc(t, path))

	env.now = at(12, 0)
	out, err = env.run("toggle", "-n", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "- [x] 10:00-12:00 Write report\n", out)

	out, err = env.run("toggle", "-n", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "- [x] 10:00-12:00 Write report\n", out)
	assert.Equal(t, "# Today\n- [x] 10:00-12:00 Write report\n", readDoc(t, path))
}

func TestToggle_DryRun(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "today.md", "- [ ] Write report\n")

	out, err := env.run("toggle", "--line", "1", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, "- [/] 10:00 Write report\n", out)
	assert.Equal(t, "- [ ] Write report\n", readDoc(t, path))
}

func TestToggle_DoingDisabled(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.EnableDoingStatus = false })
	path := writeDoc(t, t.TempDir(), "today.md", "- [ ] Write report\n")

	out, err := env.run("toggle", "--line", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "- [x] 10:00 Write report\n", out)
}

func TestLineCommands_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	path := writeDoc(t, dir, "today.md", "# Today\n- [x] 10:00-11:00 Done thing\n- [?] odd\n")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "not a task", args: []string{"toggle", "--line", "1", path}, wantErr: ErrNoTask},
		{name: "out of range", args: []string{"toggle", "--line", "9", path}, wantErr: document.ErrLineOutOfRange},
		{name: "begin done", args: []string{"begin", "--line", "2", path}, wantErr: tracker.ErrInvalidStateForBegin},
		{name: "end done", args: []string{"end", "--line", "2", path}, wantErr: tracker.ErrInvalidStateForEnd},
		{name: "cancel done", args: []string{"cancel", "--line", "2", path}, wantErr: status.ErrAlreadyTerminal},
		{name: "restart done", args: []string{"restart", "--line", "2", path}, wantErr: tracker.ErrInvalidStateForRestart},
		{name: "unknown symbol", args: []string{"toggle", "--line", "3", path}, wantErr: status.ErrUnknownSymbol},
		{name: "missing file", args: []string{"toggle", "--line", "1", filepath.Join(dir, "nope.md")}, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, "# Today\n- [x] 10:00-11:00 Done thing\n- [?] odd\n", readDoc(t, path))
}

func TestLineCommands_RequireFile(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.run("toggle", "--line", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<file>")
}

func TestCancelAndRestart(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "today.md", "  * [/] 09:30 Review\n")

	out, err := env.run("cancel", "--line", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "  * [-] 09:30 Review\n", out)

	out, err = env.run("restart", "--line", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "  * [ ] Review\n", out)
	assert.Equal(t, "  * [ ] Review\n", readDoc(t, path))
}

func TestDuplicate(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "today.md", "- [x] 09:00-09:45 Standup\n- [ ] Next\n")

	out, err := env.run("duplicate", "--line", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] Standup\n", out)
	assert.Equal(t, "- [x] 09:00-09:45 Standup\n- [ ] Standup\n- [ ] Next\n", readDoc(t, path))
}

func TestEndDup(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "today.md", "1. [/] 09:00 Deep work\n")
	env.now = at(11, 30)

	out, err := env.run("end-dup", "--line", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "1. [x] 09:00-11:30 Deep work\n1. [ ] Deep work\n", out)
	assert.Equal(t, "1. [x] 09:00-11:30 Deep work\n1. [ ] Deep work\n", readDoc(t, path))
}

func TestEndDup_CancelledRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "today.md", "- [-] Dropped\n")

	_, err := env.run("end-dup", "--line", "1", path)
	require.ErrorIs(t, err, tracker.ErrInvalidStateForEnd)
	assert.Equal(t, "- [-] Dropped\n", readDoc(t, path))
}

func TestParse_Arg(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run("parse", "- [x] 10:00-12:00 Write report")
	require.NoError(t, err)

	var res parseResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Task)
	assert.Equal(t, status.Done, res.Task.Status)
	assert.Equal(t, "Write report", res.Task.Content)
	assert.True(t, at(10, 0).Equal(*res.Task.Start))
	assert.True(t, at(12, 0).Equal(*res.Task.End))
	assert.Equal(t, "2h00m", res.Duration)
}

func TestParse_ArgNotATask(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.run("parse", "just text")
	require.ErrorIs(t, err, ErrNoTask)
}

func TestParse_File(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "input.md", "# heading\n- [ ] a\n- [/] 25:00 b\n")

	out, err := env.run("parse", "--file", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first, second parseResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "a", first.Task.Content)
	assert.Equal(t, 3, second.Line)
	assert.Nil(t, second.Task)
	assert.Contains(t, second.Error, "HH:mm")
}

func TestFormat_File(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "task.json",
		`{"indentation":"  ","list_marker":"-","status":"done","start":"2024-05-01T10:00:00Z","end":"2024-05-01T10:30:00Z","content":"Write report"}`)

	out, err := env.run("format", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "  - [x] 10:00-10:30 Write report\n", out)
}

func TestFormat_InvalidStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	path := writeDoc(t, t.TempDir(), "task.json", `{"list_marker":"-","status":"paused","content":"x"}`)

	_, err := env.run("format", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paused")
}

func TestLs_JSON(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "- [x] 09:00-10:30 Report\n- [ ] Later\n")
	writeDoc(t, dir, "sub/b.md", "```\n- [ ] fenced\n```\n  - [/] 11:00 Nested\n")
	writeDoc(t, dir, "c.txt", "- [ ] not scanned\n")

	out, err := env.run("ls", "--json", filepath.Join(dir, "**", "*.md"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var infos []taskInfo
	for _, line := range lines {
		var info taskInfo
		require.NoError(t, json.Unmarshal([]byte(line), &info))
		infos = append(infos, info)
	}

	assert.Equal(t, filepath.Join(dir, "a.md"), infos[0].File)
	assert.Equal(t, 1, infos[0].Line)
	assert.Equal(t, "1h30m", infos[0].Duration)
	assert.Equal(t, status.Todo, infos[1].Task.Status)
	assert.Equal(t, filepath.Join(dir, "sub", "b.md"), infos[2].File)
	assert.Equal(t, 4, infos[2].Line)
	assert.Equal(t, "Nested", infos[2].Task.Content)
}

func TestLs_StatusFilter(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "- [x] 09:00-10:30 Report\n- [ ] Later\n- [-] Dropped\n")

	out, err := env.run("ls", "--json", "--status", "todo", "--status", "Cancelled", filepath.Join(dir, "*.md"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"content":"Later"`)
	assert.Contains(t, lines[1], `"content":"Dropped"`)

	_, err = env.run("ls", "--status", "paused", filepath.Join(dir, "*.md"))
	require.Error(t, err)
}

func TestLs_Text(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "- [x] 09:00-10:30 Report\n  - [ ] Later\n")

	out, err := env.run("ls", filepath.Join(dir, "*.md"))
	require.NoError(t, err)

	assert.Contains(t, out, "LOCATION")
	assert.Contains(t, out, filepath.Join(dir, "a.md")+":1")
	assert.Contains(t, out, "- [x] 09:00-10:30 Report")
	assert.Contains(t, out, "- [ ] Later")
	assert.Contains(t, out, "2 task(s), 1h30m tracked")
}

func TestConfigValidate_JSON(t *testing.T) {
	env := newTestEnv(t, nil)
	env.flags.Config.TimeFormat = "HH:mm Q"
	env.flags.Config.OmitEndDateOnSameDate = true

	out, err := env.run("config", "validate", "--format", "json")
	require.Error(t, err)

	var res struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
		Warnings []config.ValidationWarning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "time_format", res.Errors[0].Field)
	assert.NotEmpty(t, res.Warnings)
}

func TestConfigValidate_Valid(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run("config", "validate", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{45 * time.Minute, "45m"},
		{65 * time.Minute, "1h05m"},
		{10*time.Hour + 30*time.Second, "10h01m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}

func TestDoctor_JSON(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "- [x] 09:00-10:30 Report\n- [/] 31:00 Broken\n")
	env.flags.Config.Files = []string{filepath.Join(dir, "*.md")}

	out, err := env.run("doctor", "--format", "json")
	require.NoError(t, err)

	var res struct {
		Healthy bool `json:"healthy"`
		Summary struct {
			Warned int `json:"warned"`
			Failed int `json:"failed"`
		} `json:"summary"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Healthy)
	assert.Equal(t, 1, res.Summary.Warned)
	require.Len(t, res.Checks, 2)
	assert.Equal(t, "Documents", res.Checks[1].Name)
}

func TestDoctor_InvalidConfigSkipsDocuments(t *testing.T) {
	env := newTestEnv(t, nil)
	env.flags.Config.Separator = ""
	env.flags.Tracker = nil

	out, err := env.run("doctor", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, out, `"healthy": false`)
	assert.NotContains(t, out, "Documents")
}
