package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialcheck/serialcheck-server/internal/model"
)

type mockAuthenticator struct {
	authenticateFunc func(token string) (*model.AdminIdentity, error)
}

func (m *mockAuthenticator) Authenticate(token string) (*model.AdminIdentity, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(token)
	}
	return nil, errors.New("no authenticator configured")
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestAdminAuthMiddleware(t *testing.T) {
	admin := &model.AdminIdentity{ID: 1, Username: "admin"}
	auth := &mockAuthenticator{
		authenticateFunc: func(token string) (*model.AdminIdentity, error) {
			if token == "good-token" {
				return admin, nil
			}
			return nil, errors.New("bad token")
		},
	}

	t.Run("allows a valid bearer token", func(t *testing.T) {
		handler := NewAdminAuthMiddleware(auth).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := GetAdmin(r.Context())
			require.NotNil(t, got)
			assert.Equal(t, "admin", got.Username)
			w.WriteHeader(http.StatusOK)
		}))

		for _, header := range []string{"Bearer good-token", "bearer good-token", "BEARER  good-token"} {
			req := httptest.NewRequest("GET", "/list", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code, header)
		}
	})

	rejected := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Missing authorization header"},
		{"wrong scheme", "Basic YWRtaW46cGFzcw==", "Invalid authorization header"},
		{"scheme only", "Bearer", "Invalid authorization header"},
		{"blank token", "Bearer   ", "Invalid authorization header"},
		{"invalid token", "Bearer other-token", "Invalid or expired token"},
	}
	for _, tc := range rejected {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			handler := NewAdminAuthMiddleware(auth).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be called")
			}))

			req := httptest.NewRequest("GET", "/list", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec))
		})
	}
}

func TestGetAdmin(t *testing.T) {
	t.Run("returns admin from context", func(t *testing.T) {
		admin := &model.AdminIdentity{ID: 7, Username: "ops"}
		ctx := context.WithValue(context.Background(), AdminContextKey, admin)

		result := GetAdmin(ctx)
		require.NotNil(t, result)
		assert.Equal(t, int64(7), result.ID)
	})

	t.Run("returns nil when no admin in context", func(t *testing.T) {
		assert.Nil(t, GetAdmin(context.Background()))
	})
}
