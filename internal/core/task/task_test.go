package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ctt/internal/core/status"
)

func TestDuration(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	base := Task{Status: status.Done, Content: "a"}

	_, ok := base.Duration()
	assert.False(t, ok)

	_, ok = base.WithStart(start).Duration()
	assert.False(t, ok)

	d, ok := base.WithStart(start).WithEnd(end).Duration()
	require.True(t, ok)
	assert.Equal(t, 90*time.Minute, d)
}

func TestCopyHelpersDoNotMutate(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	orig := Task{Indentation: "  ", ListMarker: "-", Status: status.Doing, Start: &start, Content: "a"}

	moved := orig.WithoutIndent().WithStatus(status.Done).WithoutTimes()

	assert.Equal(t, "  ", orig.Indentation)
	assert.Equal(t, status.Doing, orig.Status)
	assert.NotNil(t, orig.Start)

	assert.Empty(t, moved.Indentation)
	assert.Equal(t, status.Done, moved.Status)
	assert.Nil(t, moved.Start)
	assert.Nil(t, moved.End)
}

func TestIsSubTask(t *testing.T) {
	assert.False(t, Task{}.IsSubTask())
	assert.True(t, Task{Indentation: "\t"}.IsSubTask())
}
