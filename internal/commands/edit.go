package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/ctt/internal/core/logging"
	"github.com/colonyops/ctt/internal/core/task"
	"github.com/colonyops/ctt/internal/document"
)

// ErrNoTask is returned when the addressed line is not a checkbox task.
var ErrNoTask = errors.New("no task on this line")

// lineTarget is a task line addressed by file and 1-based line number.
type lineTarget struct {
	doc  *document.Document
	line int
	task task.Task
}

// loadTarget reads path and parses the task on line n. The returned context
// carries the document and line for logging.
func (f *Flags) loadTarget(ctx context.Context, path string, n int) (context.Context, lineTarget, error) {
	ctx = logging.ForLine(ctx, path, n)

	doc, err := document.Load(path)
	if err != nil {
		return ctx, lineTarget{}, err
	}

	text, err := doc.Line(n)
	if err != nil {
		return ctx, lineTarget{}, fmt.Errorf("%s: %w", path, err)
	}

	t, ok, err := f.Tracker.Parse(text)
	if err != nil {
		return ctx, lineTarget{}, fmt.Errorf("%s:%d: %w", path, n, err)
	}
	if !ok {
		return ctx, lineTarget{}, fmt.Errorf("%s:%d: %w", path, n, ErrNoTask)
	}

	log.Debug().Ctx(ctx).Str("status", string(t.Status)).Msg("loaded task")
	return ctx, lineTarget{doc: doc, line: n, task: t}, nil
}

// save writes the document unless dryRun is set.
func (lt lineTarget) save(ctx context.Context, dryRun bool) error {
	if dryRun {
		return nil
	}
	if err := lt.doc.Save(); err != nil {
		return err
	}
	log.Debug().Ctx(ctx).Msg("document saved")
	return nil
}
