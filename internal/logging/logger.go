// Package logging is the structured logger shared by the server packages.
// New returns the slog-backed JSON implementation; Discard is for tests.
package logging

import "context"

// Logger takes a message plus alternating keys and values:
//
//	logger.Info(ctx, "user signed up", "user_id", id)
//
// Keys used across the server: "module", "error", "user_id", "request_id".
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
