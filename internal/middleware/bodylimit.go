package middleware

import (
	"net/http"

	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/httputil"
)

// DefaultMaxBodySize applies when JSON_LIMIT_BYTES is unset or not positive.
const DefaultMaxBodySize = 1 << 20

// BodyLimitMiddleware caps JSON request bodies. Declared oversize bodies are
// refused up front; undeclared ones fail on read.
type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > m.maxSize {
			httputil.WriteErrorWithStatus(w, http.StatusRequestEntityTooLarge,
				apperrors.ValidationError("Request body too large"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
