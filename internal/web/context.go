package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/LeadImport/internal/core"
	"github.com/JonMunkholm/LeadImport/internal/logging"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for the
// import history, and the request logger so import logs carry the
// request ID.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // Already processed by TrustedRealIP
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ctx = core.WithClient(ctx, core.ClientInfo{IP: ip, UserAgent: r.UserAgent()})
	return core.WithLogger(ctx, logging.FromContext(ctx))
}
