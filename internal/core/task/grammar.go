package task

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/colonyops/ctt/internal/core/checkbox"
	"github.com/colonyops/ctt/internal/core/config"
	"github.com/colonyops/ctt/internal/core/status"
	"github.com/colonyops/ctt/internal/core/timefmt"
)

var (
	// ErrDoingShapeMismatch is returned when a doing task does not start
	// with a timestamp.
	ErrDoingShapeMismatch = errors.New("doing task must start with a start time")
	// ErrDoneShapeMismatch is returned when a done task does not start with
	// its start and end timestamps.
	ErrDoneShapeMismatch = errors.New("done task must start with start and end times")
)

// Times is the result of parsing a checkbox body.
type Times struct {
	Start   *time.Time
	End     *time.Time
	Content string
}

// Grammar parses and formats checkbox lines for one configuration. It is
// immutable and safe for concurrent use.
type Grammar struct {
	cfg      config.Config
	stamp    *timefmt.Layout
	timeOnly *timefmt.Layout

	doing     *regexp.Regexp
	done      *regexp.Regexp
	fullStamp *regexp.Regexp
}

// NewGrammar compiles the configured formats and separator.
func NewGrammar(cfg config.Config) (*Grammar, error) {
	stamp, err := timefmt.Compile(cfg.DateTimeFormat())
	if err != nil {
		return nil, fmt.Errorf("compile timestamp format: %w", err)
	}

	timeOnly, err := timefmt.Compile(cfg.TimeFormat)
	if err != nil {
		return nil, fmt.Errorf("compile time format: %w", err)
	}

	if cfg.Separator == "" {
		return nil, fmt.Errorf("%w: separator cannot be empty", config.ErrInvalidSeparator)
	}
	if cfg.Separator != config.SanitizeSeparator(cfg.Separator) {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSeparator, cfg.Separator)
	}

	start := "(" + stamp.Syntax() + ")"
	end := start
	if cfg.EnableDateInserting {
		end = "((?:" + stamp.Syntax() + ")|(?:" + timeOnly.Syntax() + "))"
	}
	rest := `(?:\s+(.*))?$`

	return &Grammar{
		cfg:       cfg,
		stamp:     stamp,
		timeOnly:  timeOnly,
		doing:     regexp.MustCompile("^" + start + rest),
		done:      regexp.MustCompile("^" + start + regexp.QuoteMeta(cfg.Separator) + end + rest),
		fullStamp: regexp.MustCompile("^(?:" + stamp.Syntax() + ")$"),
	}, nil
}

// Config returns the configuration the grammar was built from.
func (g *Grammar) Config() config.Config {
	return g.cfg
}

// ParseDoing extracts the start time from the body of a doing task.
func (g *Grammar) ParseDoing(body string, ref time.Time) (Times, error) {
	m := g.doing.FindStringSubmatch(body)
	if m == nil {
		return Times{}, fmt.Errorf("%w: expected %q at start of %q", ErrDoingShapeMismatch, g.stamp.Pattern(), body)
	}

	start, err := g.stamp.Parse(m[1], ref)
	if err != nil {
		return Times{}, err
	}

	return Times{Start: &start, Content: m[2]}, nil
}

// ParseDone extracts the start and end times from the body of a done task.
// The start token is consumed first, then the separator, then the end token,
// so time-like text later in the content is left alone. A lone timestamp is
// read as the end time of a task that skipped the doing state.
func (g *Grammar) ParseDone(body string, ref time.Time) (Times, error) {
	if times, ok, err := g.parseRange(body, ref); ok {
		return times, err
	}
	return g.parseEndOnly(body, ref)
}

// parseRange parses a "<start><separator><end>" prefix. ok is false when the
// prefix is absent.
func (g *Grammar) parseRange(body string, ref time.Time) (times Times, ok bool, err error) {
	m := g.done.FindStringSubmatch(body)
	if m == nil {
		return Times{}, false, nil
	}

	start, err := g.stamp.Parse(m[1], ref)
	if err != nil {
		return Times{}, true, err
	}

	end, err := g.parseEnd(m[2], start)
	if err != nil {
		return Times{}, true, err
	}

	return Times{Start: &start, End: &end, Content: m[3]}, true, nil
}

func (g *Grammar) parseEndOnly(body string, ref time.Time) (Times, error) {
	m := g.doing.FindStringSubmatch(body)
	if m == nil {
		return Times{}, fmt.Errorf("%w: expected %q at start of %q",
			ErrDoneShapeMismatch, g.stamp.Pattern()+g.cfg.Separator+g.stamp.Pattern(), body)
	}

	end, err := g.stamp.Parse(m[1], ref)
	if err != nil {
		return Times{}, err
	}

	return Times{End: &end, Content: m[2]}, nil
}

// parseEnd parses the end token. Without a date component the end falls on
// the start's date, or the following day when it would precede the start.
func (g *Grammar) parseEnd(raw string, start time.Time) (time.Time, error) {
	if g.fullStamp.MatchString(raw) {
		end, err := g.stamp.Parse(raw, start)
		if err != nil {
			return time.Time{}, err
		}
		if !g.stamp.HasDate() && end.Before(start) {
			end = end.AddDate(0, 0, 1)
		}
		return end, nil
	}

	return g.timeOnly.Parse(raw, start)
}

// ParseBody parses body according to the shape implied by s.
func (g *Grammar) ParseBody(s status.Status, body string, ref time.Time) (Times, error) {
	switch s {
	case status.Doing:
		return g.ParseDoing(body, ref)
	case status.Done:
		return g.ParseDone(body, ref)
	case status.Cancelled:
		// a task may be cancelled from any state
		if times, ok, err := g.parseRange(body, ref); ok && err == nil {
			return times, nil
		}
		if times, err := g.ParseDoing(body, ref); err == nil {
			return times, nil
		}
		return Times{Content: body}, nil
	default:
		return Times{Content: body}, nil
	}
}

// FromLine parses a checkbox line. ok is false, with a nil error, when the
// line is not a checkbox task at all. ref supplies the date for timestamps
// that carry only a time of day.
func (g *Grammar) FromLine(line string, ref time.Time) (t Task, ok bool, err error) {
	parts, ok := checkbox.Split(line)
	if !ok {
		return Task{}, false, nil
	}

	st, err := g.cfg.Symbols.FromSymbol(parts.StatusSymbol)
	if err != nil {
		return Task{}, true, err
	}

	times, err := g.ParseBody(st, parts.Body, ref)
	if err != nil {
		return Task{}, true, fmt.Errorf("parse %s task: %w", st, err)
	}

	return Task{
		Indentation: parts.Indentation,
		ListMarker:  parts.ListMarker,
		Status:      st,
		RawBody:     parts.Body,
		Start:       times.Start,
		End:         times.End,
		Content:     times.Content,
	}, true, nil
}

// FormatStamps renders the timestamp prefix of t, or "" when t has none.
func (g *Grammar) FormatStamps(t Task) string {
	switch {
	case t.Start != nil && t.End != nil:
		return g.stamp.Format(*t.Start) + g.cfg.Separator + g.formatEnd(*t.Start, *t.End)
	case t.Start != nil:
		return g.stamp.Format(*t.Start)
	case t.End != nil:
		return g.stamp.Format(*t.End)
	default:
		return ""
	}
}

func (g *Grammar) formatEnd(start, end time.Time) string {
	if g.cfg.EnableDateInserting && g.cfg.OmitEndDateOnSameDate && sameDate(start, end) {
		return g.timeOnly.Format(end)
	}
	return g.stamp.Format(end)
}

// Format renders t as a checkbox line. It is the inverse of FromLine.
func (g *Grammar) Format(t Task) string {
	var b strings.Builder
	b.WriteString(t.Indentation)
	b.WriteString(t.ListMarker)
	b.WriteString(" [")
	b.WriteString(g.cfg.Symbols.Symbol(t.Status))
	b.WriteString("] ")

	if stamps := g.FormatStamps(t); stamps != "" {
		b.WriteString(stamps)
		b.WriteString(" ")
	}
	b.WriteString(t.Content)

	return b.String()
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FromLine parses line with a grammar built from cfg.
func FromLine(line string, cfg config.Config, ref time.Time) (Task, bool, error) {
	g, err := NewGrammar(cfg)
	if err != nil {
		return Task{}, false, err
	}
	return g.FromLine(line, ref)
}
