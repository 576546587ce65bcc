package middleware

import (
	"net/http"
	"slices"
)

type CORSMiddleware struct {
	origins []string
}

// NewCORSMiddleware allows the listed origins, or any origin when the list is empty.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	return &CORSMiddleware{origins: allowed}
}

func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			switch {
			case len(m.origins) == 0:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(m.origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
