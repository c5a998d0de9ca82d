package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ctt/internal/core/config"
	"github.com/colonyops/ctt/internal/tracker"
)

type stubCheck struct {
	name  string
	items []CheckItem
}

func (s stubCheck) Name() string { return s.name }

func (s stubCheck) Run(context.Context) Result {
	return Result{Name: s.name, Items: s.items}
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		stubCheck{name: "a", items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn}}},
		stubCheck{name: "b", items: []CheckItem{{Status: StatusFail}, {Status: StatusPass}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "b", results[1].Name)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestConfigCheck(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := config.DefaultConfig()
		result := NewConfigCheck(&cfg, filepath.Join(t.TempDir(), "missing.yaml")).Run(context.Background())

		_, warned, failed := Summary([]Result{result})
		assert.Zero(t, failed)
		assert.Zero(t, warned)
		assert.Equal(t, "not found, using defaults", result.Items[0].Detail)
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Separator = ""
		cfg.DisableDoingStatusForSubTasks = true
		cfg.EnableDoingStatus = false

		result := NewConfigCheck(&cfg, "").Run(context.Background())

		_, warned, failed := Summary([]Result{result})
		assert.Equal(t, 1, failed)
		assert.Equal(t, 1, warned)
	})
}

func newOps(t *testing.T) *tracker.Operations {
	t.Helper()
	ops, err := tracker.New(config.DefaultConfig(), tracker.WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return ops
}

func TestDocumentsCheck(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"- [x] 09:00-10:00 Fine",
		"- [/] 10:00 Working",
		"- [/] 11:00 Also working",
		"- [/] 99:00 Broken",
		"- [?] Unknown",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "log.md"), []byte(content), 0o644))

	result := NewDocumentsCheck(newOps(t), []string{filepath.Join(dir, "*.md")}).Run(context.Background())

	labels := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}

	assert.Contains(t, labels, "Files")
	assert.Contains(t, labels, filepath.Join(dir, "log.md")+":4")
	assert.Contains(t, labels, filepath.Join(dir, "log.md")+":5")
	assert.Contains(t, labels, "In progress")

	passed, warned, failed := Summary([]Result{result})
	assert.Equal(t, 2, passed)
	assert.Equal(t, 3, warned)
	assert.Zero(t, failed)
}

func TestDocumentsCheck_NoFiles(t *testing.T) {
	result := NewDocumentsCheck(newOps(t), []string{filepath.Join(t.TempDir(), "*.md")}).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
}

func TestDocumentsCheck_CapsMalformed(t *testing.T) {
	dir := t.TempDir()
	lines := make([]string, 15)
	for i := range lines {
		lines[i] = "- [?] bad"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "log.md"), []byte(strings.Join(lines, "\n")), 0o644))

	result := NewDocumentsCheck(newOps(t), []string{filepath.Join(dir, "*.md")}).Run(context.Background())

	last := result.Items[len(result.Items)-1]
	assert.Equal(t, "Malformed tasks", last.Label)
	assert.Equal(t, "5 more not shown", last.Detail)
}
