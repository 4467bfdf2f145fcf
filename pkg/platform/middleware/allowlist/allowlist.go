// Package allowlist filters requests by client network origin.
package allowlist

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"

	"erpsessions/pkg/platform/httputil"
	"erpsessions/pkg/requestcontext"
)

// Allowlist holds the permitted client addresses and prefixes. An empty list
// permits everyone.
type Allowlist struct {
	prefixes []netip.Prefix
}

// Parse builds an Allowlist from IP or CIDR entries. Blank entries are skipped.
func Parse(entries []string) (*Allowlist, error) {
	list := &Allowlist{}
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid allowlist prefix %q: %w", entry, err)
			}
			list.prefixes = append(list.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid allowlist address %q: %w", entry, err)
		}
		addr = addr.Unmap()
		list.prefixes = append(list.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return list, nil
}

// Empty reports whether the list permits everyone.
func (a *Allowlist) Empty() bool {
	return a == nil || len(a.prefixes) == 0
}

// Allows reports whether ip is permitted. Unparsable addresses are rejected
// unless the list is empty.
func (a *Allowlist) Allows(ip string) bool {
	if a.Empty() {
		return true
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range a.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

type options struct {
	onDeny func(ip string)
}

// Option configures the middleware.
type Option func(*options)

// WithOnDeny registers a callback invoked for each rejected request.
func WithOnDeny(fn func(ip string)) Option {
	return func(o *options) {
		o.onDeny = fn
	}
}

// Middleware rejects requests whose client IP is not on the list with 400 and
// a {"message": ...} body. It expects the metadata middleware to have run.
func Middleware(list *Allowlist, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			if list.Allows(ip) {
				next.ServeHTTP(w, r)
				return
			}
			if logger != nil {
				logger.WarnContext(ctx, "client ip not allowed",
					"client_ip", ip,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
			if o.onDeny != nil {
				o.onDeny(ip)
			}
			httputil.WriteMessage(w, http.StatusBadRequest,
				fmt.Sprintf("IP %s is not allowed to access this resource", ip))
		})
	}
}
