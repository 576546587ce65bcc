package middleware

import (
	"net/http"
	"strconv"

	"github.com/serialcheck/serialcheck-server/internal/audit"
	"github.com/serialcheck/serialcheck-server/internal/config"
	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/httputil"
	"github.com/serialcheck/serialcheck-server/internal/service"
	"github.com/serialcheck/serialcheck-server/internal/util"
)

// LoginRateLimiter throttles login attempts per client IP. It keeps its
// own counters so that the public lookup quota is unaffected.
type LoginRateLimiter struct {
	limiter *service.RateLimiter
}

func NewLoginRateLimiter(store service.RateLimitStore) *LoginRateLimiter {
	return &LoginRateLimiter{
		limiter: service.NewRateLimiter(store, config.LoginMaxAttempts, config.LoginWindowDuration),
	}
}

func (l *LoginRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := util.ClientIP(r)

		decision := l.limiter.Allow(r.Context(), "login:"+ip)
		if !decision.Allowed {
			audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginRateLimited})
			w.Header().Set("Retry-After", strconv.Itoa(int(config.LoginWindowDuration.Seconds())))
			httputil.WriteError(w, apperrors.RateLimitExceeded("Too many login attempts. Please try again later."))
			return
		}

		next.ServeHTTP(w, r)
	})
}
