package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

// withClient adds the caller's IP and User-Agent to the request context so
// import log entries carry them. RemoteAddr has already been rewritten by
// the trusted real-IP middleware.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), r.RemoteAddr, r.UserAgent())
}
