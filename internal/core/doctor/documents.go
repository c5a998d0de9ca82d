package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/ctt/internal/core/status"
	"github.com/colonyops/ctt/internal/document"
	"github.com/colonyops/ctt/internal/tracker"
)

// maxReported caps the number of malformed tasks listed individually.
const maxReported = 10

// DocumentsCheck parses every task in the configured documents.
type DocumentsCheck struct {
	ops      *tracker.Operations
	patterns []string
}

// NewDocumentsCheck creates a new documents check.
func NewDocumentsCheck(ops *tracker.Operations, patterns []string) *DocumentsCheck {
	return &DocumentsCheck{ops: ops, patterns: patterns}
}

func (c *DocumentsCheck) Name() string {
	return "Documents"
}

func (c *DocumentsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	files, err := document.Glob(c.patterns)
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: "Files", Status: StatusFail, Detail: err.Error()})
		return result
	}
	if len(files) == 0 {
		result.Items = append(result.Items, CheckItem{Label: "Files", Status: StatusWarn, Detail: "no documents match the configured globs"})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "Files", Status: StatusPass, Detail: fmt.Sprintf("%d document(s)", len(files))})

	var (
		tasks     int
		malformed []CheckItem
		doing     []string
	)
	for _, file := range files {
		doc, err := document.Load(file)
		if err != nil {
			malformed = append(malformed, CheckItem{Label: file, Status: StatusFail, Detail: err.Error()})
			continue
		}

		for _, tl := range doc.TaskLines() {
			tasks++
			loc := fmt.Sprintf("%s:%d", file, tl.Number)

			t, _, err := c.ops.Parse(tl.Text)
			if err != nil {
				malformed = append(malformed, CheckItem{Label: loc, Status: StatusWarn, Detail: err.Error()})
				continue
			}
			if t.Status == status.Doing {
				doing = append(doing, loc)
			}
		}
	}

	result.Items = append(result.Items, CheckItem{Label: "Tasks", Status: StatusPass, Detail: fmt.Sprintf("%d task(s)", tasks)})

	if len(malformed) > maxReported {
		extra := len(malformed) - maxReported
		malformed = append(malformed[:maxReported], CheckItem{
			Label:  "Malformed tasks",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d more not shown", extra),
		})
	}
	result.Items = append(result.Items, malformed...)

	if len(doing) > 1 {
		result.Items = append(result.Items, CheckItem{
			Label:  "In progress",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d tasks are in progress at once (first at %s)", len(doing), doing[0]),
		})
	}

	return result
}
