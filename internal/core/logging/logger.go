package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier under the
// "cmp" key.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ForLine returns ctx annotated with the document and line so that events
// logged with it carry both fields.
func ForLine(ctx context.Context, path string, line int) context.Context {
	return WithLine(WithDocument(ctx, path), line)
}
