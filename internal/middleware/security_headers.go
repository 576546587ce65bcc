package middleware

import (
	"net/http"
	"strings"
)

// consolePolicy is the CSP for the bundled admin console, which only talks
// to its own origin.
var consolePolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data:",
	"connect-src 'self'",
	"frame-ancestors 'none'",
	"base-uri 'self'",
	"form-action 'self'",
}, "; ")

type SecurityHeadersMiddleware struct {
	headers map[string]string
}

func NewSecurityHeadersMiddleware(isProduction bool) *SecurityHeadersMiddleware {
	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": consolePolicy,
	}
	if isProduction {
		headers["Strict-Transport-Security"] = "max-age=31536000; includeSubDomains"
	}
	return &SecurityHeadersMiddleware{headers: headers}
}

func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for name, value := range m.headers {
			w.Header().Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}
