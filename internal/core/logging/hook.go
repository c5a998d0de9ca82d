package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the document and line set on the event's context into
// the log event.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if path := GetDocument(ctx); path != "" {
		e.Str(string(documentKey), path)
	}

	if n := GetLine(ctx); n > 0 {
		e.Int(string(lineKey), n)
	}
}
