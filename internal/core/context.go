package core

import (
	"context"
	"log/slog"
)

// ClientInfo identifies who started an import. It is stored with the
// import history entry.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientKey struct{}

// WithClient attaches the caller's ClientInfo to ctx.
func WithClient(ctx context.Context, c ClientInfo) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext returns the ClientInfo set by WithClient, or the zero
// value for imports started outside a request (leadctl).
func ClientFromContext(ctx context.Context) ClientInfo {
	c, _ := ctx.Value(clientKey{}).(ClientInfo)
	return c
}

type loggerKey struct{}

// WithLogger attaches a request-scoped logger to ctx. Imports started
// with it log through that logger, keeping fields such as request_id.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return fallback
}
