// Package task turns checkbox lines into structured Task values and back.
package task

import (
	"time"

	"github.com/colonyops/ctt/internal/core/status"
)

// Task is the structured form of one checkbox line. Task values are never
// modified in place; every transition produces a new Task.
type Task struct {
	Indentation string        `json:"indentation"`
	ListMarker  string        `json:"list_marker"`
	Status      status.Status `json:"status"`
	// RawBody is the text after the checkbox before any times were removed.
	RawBody string     `json:"raw_body"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
	// Content is the free text left once the times are removed.
	Content string `json:"content"`
}

// IsSubTask reports whether the task is indented under another list item.
func (t Task) IsSubTask() bool {
	return t.Indentation != ""
}

// Duration returns the time between start and end when both are recorded.
func (t Task) Duration() (time.Duration, bool) {
	if t.Start == nil || t.End == nil {
		return 0, false
	}
	return t.End.Sub(*t.Start), true
}

// WithStatus returns a copy of t with the status replaced.
func (t Task) WithStatus(s status.Status) Task {
	t.Status = s
	return t
}

// WithStart returns a copy of t that started at at.
func (t Task) WithStart(at time.Time) Task {
	t.Start = &at
	return t
}

// WithEnd returns a copy of t that ended at at.
func (t Task) WithEnd(at time.Time) Task {
	t.End = &at
	return t
}

// WithoutTimes returns a copy of t with both timestamps cleared.
func (t Task) WithoutTimes() Task {
	t.Start = nil
	t.End = nil
	return t
}

// WithoutIndent returns a copy of t moved to the top level.
func (t Task) WithoutIndent() Task {
	t.Indentation = ""
	return t
}
