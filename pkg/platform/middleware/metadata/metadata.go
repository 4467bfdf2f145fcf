package metadata

import (
	"net"
	"net/http"
	"strings"

	"erpsessions/pkg/requestcontext"
)

// ClientMetadata resolves the client IP and User-Agent and stores them in the
// request context. Forwarding headers are only consulted when trustProxy is set;
// otherwise the TCP peer address is authoritative.
func ClientMetadata(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIPFromRequest(r, trustProxy)
			ctx := requestcontext.WithClientMetadata(r.Context(), ip, r.Header.Get("User-Agent"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPFromRequest extracts the client IP from the request.
func ClientIPFromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For is "client, proxy1, proxy2"; the first entry is the origin.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// No port component.
		return strings.Trim(r.RemoteAddr, "[]")
	}
	return host
}
