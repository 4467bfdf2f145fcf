package testutil

import (
	"net/http"

	"erpsessions/pkg/requestcontext"
)

// WithClientIP adds a resolved client IP to the request context.
// This simulates what the metadata middleware does for incoming requests.
func WithClientIP(req *http.Request, ip string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, req.Header.Get("User-Agent"))
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
