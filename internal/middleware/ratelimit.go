package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/serialcheck/serialcheck-server/internal/audit"
	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/httputil"
	"github.com/serialcheck/serialcheck-server/internal/service"
	"github.com/serialcheck/serialcheck-server/internal/util"
)

// ClientRateLimitMiddleware applies the shared lookup quota per client IP.
type ClientRateLimitMiddleware struct {
	limiter *service.RateLimiter
}

func NewClientRateLimitMiddleware(limiter *service.RateLimiter) *ClientRateLimitMiddleware {
	return &ClientRateLimitMiddleware{limiter: limiter}
}

func (m *ClientRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := util.ClientIP(r)
		decision := m.limiter.Allow(r.Context(), ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			log.Warn().Str("ip", ip).Msg("rate limit exceeded")
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"path": r.URL.Path},
			})
			w.Header().Set("Retry-After", retryAfter(decision.ResetAt))
			httputil.WriteError(w, apperrors.RateLimitExceeded(m.exceededMessage()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *ClientRateLimitMiddleware) exceededMessage() string {
	window := m.limiter.Window()
	if window == time.Hour {
		return fmt.Sprintf("Rate limit exceeded (%d/hour)", m.limiter.Limit())
	}
	return fmt.Sprintf("Rate limit exceeded (%d per %s)", m.limiter.Limit(), window)
}

func retryAfter(resetAt time.Time) string {
	seconds := int(math.Ceil(time.Until(resetAt).Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
