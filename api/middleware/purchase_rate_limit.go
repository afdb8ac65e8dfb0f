package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/skeldnet/cosmetics-backend/api/responses"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// PurchaseRateLimitPolicy throttles the endpoints that reach the payment
// vendor, per verified user and per client IP.
type PurchaseRateLimitPolicy struct {
	name      string
	window    time.Duration
	userLimit int
	ipLimit   int
}

// NewPurchaseRateLimitPolicy builds a policy with the supplied window and limits.
func NewPurchaseRateLimitPolicy(name string, window time.Duration, userLimit, ipLimit int) PurchaseRateLimitPolicy {
	return PurchaseRateLimitPolicy{
		name:      strings.ToLower(strings.TrimSpace(name)),
		window:    window,
		userLimit: userLimit,
		ipLimit:   ipLimit,
	}
}

func (p PurchaseRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.userLimit > 0 || p.ipLimit > 0)
}

func (p PurchaseRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "purchase"
	}
	return p.name
}

func (p PurchaseRateLimitPolicy) userKey(userID string) string {
	if userID == "" {
		return ""
	}
	return fmt.Sprintf("rl:user:%s:%s", p.normalizedName(), userID)
}

func (p PurchaseRateLimitPolicy) ipKey(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("rl:ip:%s:%s", p.normalizedName(), ip)
}

// PurchaseRateLimit enforces the policy. Runs after Auth so the verified
// user id is available; a nil store disables limiting.
func PurchaseRateLimit(policy PurchaseRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if key := policy.ipKey(clientIP(r)); key != "" {
					if !allow(ctx, logg, w, store, key, policy.window, int64(policy.ipLimit)) {
						return
					}
				}
			}

			if policy.userLimit > 0 {
				if user := UserFromContext(ctx); user != nil {
					if key := policy.userKey(user.ClientID); key != "" {
						if !allow(ctx, logg, w, store, key, policy.window, int64(policy.userLimit)) {
							return
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store rateLimiterStore, key string, window time.Duration, limit int64) bool {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if count > limit {
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{"rate_limit_key": key, "count": count})
			logg.Warn(ctx, "rate_limit.exceeded")
		}
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "Too many purchase attempts, slow down"))
		return false
	}
	return true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
