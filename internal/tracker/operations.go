// Package tracker drives checkbox tasks through their lifecycle and records
// start and end times as they move.
package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/ctt/internal/core/config"
	"github.com/colonyops/ctt/internal/core/status"
	"github.com/colonyops/ctt/internal/core/task"
)

var (
	// ErrInvalidStateForBegin is returned when beginning a task that is not todo.
	ErrInvalidStateForBegin = errors.New("only todo tasks can be begun")
	// ErrInvalidStateForEnd is returned when ending a task that is not doing.
	ErrInvalidStateForEnd = errors.New("only doing tasks can be ended")
	// ErrInvalidStateForRestart is returned when restarting a task that is not cancelled.
	ErrInvalidStateForRestart = errors.New("only cancelled tasks can be restarted")
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures Operations.
type Option func(*Operations)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(o *Operations) {
		o.clock = c
	}
}

// WithLogger sets the logger used for transition events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Operations) {
		o.log = l
	}
}

// Operations parses, transitions and formats tasks for one configuration.
// It holds no mutable state and is safe for concurrent use.
type Operations struct {
	cfg     config.Config
	grammar *task.Grammar
	clock   Clock
	log     zerolog.Logger
}

// New builds Operations for cfg.
func New(cfg config.Config, opts ...Option) (*Operations, error) {
	g, err := task.NewGrammar(cfg)
	if err != nil {
		return nil, err
	}

	o := &Operations{
		cfg:     cfg,
		grammar: g,
		clock:   time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Config returns the active configuration.
func (o *Operations) Config() config.Config {
	return o.cfg
}

// Now returns the current time according to the configured clock.
func (o *Operations) Now() time.Time {
	return o.clock()
}

// Parse parses line, using today's date for timestamps without one. ok is
// false when the line is not a task.
func (o *Operations) Parse(line string) (t task.Task, ok bool, err error) {
	return o.grammar.FromLine(line, o.clock())
}

// Format renders t as a checkbox line.
func (o *Operations) Format(t task.Task) string {
	return o.grammar.Format(t)
}

// Toggle advances t by one step at the current time.
func (o *Operations) Toggle(t task.Task) task.Task {
	return o.ToggleAt(t, o.clock())
}

// ToggleAt advances t by one step at now:
//
//	todo      → doing (start = now), or straight to done when doing is disabled
//	doing     → done (end = now)
//	done      → unchanged
//	cancelled → unchanged
func (o *Operations) ToggleAt(t task.Task, now time.Time) task.Task {
	var next task.Task

	switch t.Status {
	case status.Todo:
		if o.usesDoing(t) {
			next = o.begin(t, now)
		} else {
			next = o.finish(t, now)
		}
	case status.Doing:
		next = o.finish(t, now)
	default:
		return t
	}

	o.log.Debug().
		Str("from", string(t.Status)).
		Str("to", string(next.Status)).
		Str("content", next.Content).
		Msg("toggled task")

	return next
}

// Begin starts a todo task at the current time.
func (o *Operations) Begin(t task.Task) (task.Task, error) {
	return o.BeginAt(t, o.clock())
}

// BeginAt starts a todo task at the given time. The whole body becomes the
// content, since a todo body has never been split into time and text.
func (o *Operations) BeginAt(t task.Task, at time.Time) (task.Task, error) {
	if t.Status != status.Todo {
		return t, fmt.Errorf("%w: task is %s", ErrInvalidStateForBegin, t.Status)
	}
	return o.begin(t, at), nil
}

// End finishes a doing task at the current time.
func (o *Operations) End(t task.Task) (task.Task, error) {
	return o.EndAt(t, o.clock())
}

// EndAt finishes a doing task at the given time.
func (o *Operations) EndAt(t task.Task, at time.Time) (task.Task, error) {
	if t.Status != status.Doing {
		return t, fmt.Errorf("%w: task is %s", ErrInvalidStateForEnd, t.Status)
	}
	return o.finish(t, at), nil
}

// Cancel marks t as cancelled. Recorded times are kept.
func (o *Operations) Cancel(t task.Task) (task.Task, error) {
	next, err := t.Status.Cancel()
	if err != nil {
		return t, err
	}
	return t.WithStatus(next), nil
}

// Restart turns a cancelled task back into a todo task with no times.
func (o *Operations) Restart(t task.Task) (task.Task, error) {
	if t.Status != status.Cancelled {
		return t, fmt.Errorf("%w: task is %s", ErrInvalidStateForRestart, t.Status)
	}

	next := t.WithoutTimes().WithStatus(t.Status.Successor())
	next.RawBody = t.Content
	return next, nil
}

// Duplicate returns a fresh todo task with the same content as t.
func (o *Operations) Duplicate(t task.Task) task.Task {
	return task.Task{
		Indentation: t.Indentation,
		ListMarker:  t.ListMarker,
		Status:      status.Todo,
		RawBody:     t.Content,
		Content:     t.Content,
	}
}

// EndAndDuplicate finishes t, unless it is already done, and returns it
// together with a fresh todo copy to follow it.
func (o *Operations) EndAndDuplicate(t task.Task) (ended, next task.Task, err error) {
	now := o.clock()

	switch t.Status {
	case status.Todo, status.Doing:
		ended = o.finish(t, now)
	case status.Done:
		ended = t
	default:
		return t, task.Task{}, fmt.Errorf("%w: task is %s", ErrInvalidStateForEnd, t.Status)
	}

	return ended, o.Duplicate(ended), nil
}

// usesDoing reports whether t passes through the doing state.
func (o *Operations) usesDoing(t task.Task) bool {
	if !o.cfg.EnableDoingStatus {
		return false
	}
	return !(o.cfg.DisableDoingStatusForSubTasks && t.IsSubTask())
}

func (o *Operations) begin(t task.Task, at time.Time) task.Task {
	next := t.WithStatus(status.Doing).WithStart(at)
	next.End = nil
	next.Content = t.RawBody
	return next
}

func (o *Operations) finish(t task.Task, at time.Time) task.Task {
	return t.WithStatus(status.Done).WithEnd(o.endTime(t, at))
}

// endTime applies the auto-increment rule: a task finished in the same
// minute it started ends one minute after its start.
func (o *Operations) endTime(t task.Task, now time.Time) time.Time {
	if o.cfg.AutoIncrementOnSameTime && t.Start != nil && sameMinute(*t.Start, now) {
		return t.Start.Add(time.Minute)
	}
	return now
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}
