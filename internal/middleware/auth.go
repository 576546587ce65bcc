package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/serialcheck/serialcheck-server/internal/audit"
	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/httputil"
	"github.com/serialcheck/serialcheck-server/internal/model"
)

type contextKey string

const AdminContextKey contextKey = "admin"

func GetAdmin(ctx context.Context) *model.AdminIdentity {
	if admin, ok := ctx.Value(AdminContextKey).(*model.AdminIdentity); ok {
		return admin
	}
	return nil
}

// TokenAuthenticator resolves a session token to an admin identity.
type TokenAuthenticator interface {
	Authenticate(token string) (*model.AdminIdentity, error)
}

type AdminAuthMiddleware struct {
	auth TokenAuthenticator
}

func NewAdminAuthMiddleware(auth TokenAuthenticator) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{auth: auth}
}

func (m *AdminAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.reject(w, r, "Missing authorization header")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			m.reject(w, r, "Invalid authorization header")
			return
		}

		admin, err := m.auth.Authenticate(token)
		if err != nil {
			m.reject(w, r, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AdminAuthMiddleware) reject(w http.ResponseWriter, r *http.Request, message string) {
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventAuthFailure,
		Details: map[string]interface{}{"reason": message, "path": r.URL.Path},
	})
	httputil.WriteError(w, apperrors.Unauthorized(message))
}

// bearerToken splits "Bearer <token>". The scheme is case insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
