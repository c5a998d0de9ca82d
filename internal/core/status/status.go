// Package status defines the lifecycle states of a checkbox task and the
// symbols used to render them inside the checkbox brackets.
package status

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrUnknownSymbol is returned when a checkbox symbol maps to no status.
	ErrUnknownSymbol = errors.New("unknown status symbol")
	// ErrAlreadyTerminal is returned when cancelling a task that is already done.
	ErrAlreadyTerminal = errors.New("task is already done")
)

// Status represents the lifecycle state of a task.
type Status string

const (
	Todo      Status = "todo"
	Doing     Status = "doing"
	Done      Status = "done"
	Cancelled Status = "cancelled"
)

// All lists every status in lifecycle order.
var All = []Status{Todo, Doing, Done, Cancelled}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case Todo, Doing, Done, Cancelled:
		return true
	default:
		return false
	}
}

// Name returns the human readable name of the status.
func (s Status) Name() string {
	switch s {
	case Todo:
		return "Todo"
	case Doing:
		return "Doing"
	case Done:
		return "Done"
	case Cancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Successor returns the next status under normal advancement.
// Done is terminal and returns itself; Cancelled only leads back to Todo.
func (s Status) Successor() Status {
	switch s {
	case Todo:
		return Doing
	case Doing:
		return Done
	case Done:
		return Done
	case Cancelled:
		return Todo
	default:
		return s
	}
}

// Cancel returns Cancelled, or ErrAlreadyTerminal when s is Done.
func (s Status) Cancel() (Status, error) {
	if s == Done {
		return s, ErrAlreadyTerminal
	}
	return Cancelled, nil
}

// Symbols maps each status to the single character shown between the
// checkbox brackets.
type Symbols struct {
	Todo      string `yaml:"todo" json:"todo"`
	Doing     string `yaml:"doing" json:"doing"`
	Done      string `yaml:"done" json:"done"`
	Cancelled string `yaml:"cancelled" json:"cancelled"`
}

// DefaultSymbols returns the conventional markdown task symbols.
func DefaultSymbols() Symbols {
	return Symbols{
		Todo:      " ",
		Doing:     "/",
		Done:      "x",
		Cancelled: "-",
	}
}

// Symbol returns the checkbox character for s.
func (sy Symbols) Symbol(s Status) string {
	switch s {
	case Todo:
		return sy.Todo
	case Doing:
		return sy.Doing
	case Done:
		return sy.Done
	case Cancelled:
		return sy.Cancelled
	default:
		return ""
	}
}

// FromSymbol maps a checkbox character to its status.
func (sy Symbols) FromSymbol(symbol string) (Status, error) {
	for _, s := range All {
		if sy.Symbol(s) == symbol {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
}

// Validate checks that every symbol is a single character and that no two
// statuses share a symbol.
func (sy Symbols) Validate() error {
	seen := make(map[string]Status, len(All))
	for _, s := range All {
		sym := sy.Symbol(s)
		if utf8.RuneCountInString(sym) != 1 {
			return fmt.Errorf("%s symbol must be exactly one character, got %q", s, sym)
		}
		if other, ok := seen[sym]; ok {
			return fmt.Errorf("%s and %s share symbol %q", other, s, sym)
		}
		seen[sym] = s
	}
	return nil
}
