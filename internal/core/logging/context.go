package logging

import "context"

type contextKey string

const (
	documentKey contextKey = "document"
	lineKey     contextKey = "line"
)

// WithDocument records the document being edited on the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// WithLine records the 1-based line number being edited on the context.
func WithLine(ctx context.Context, line int) context.Context {
	return context.WithValue(ctx, lineKey, line)
}

// GetDocument returns the document path, or "" when not set.
func GetDocument(ctx context.Context) string {
	if path, ok := ctx.Value(documentKey).(string); ok {
		return path
	}
	return ""
}

// GetLine returns the line number, or 0 when not set.
func GetLine(ctx context.Context) int {
	if n, ok := ctx.Value(lineKey).(int); ok {
		return n
	}
	return 0
}
