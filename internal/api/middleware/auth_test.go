package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/draftforge/draftforge/internal/api/middleware"
	"github.com/draftforge/draftforge/internal/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	var gotID uuid.UUID
	var gotEmail, gotRole string
	handler := middleware.Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = middleware.GetUserID(r.Context())
		gotEmail = middleware.GetUserEmail(r.Context())
		gotRole = middleware.GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/protected", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("valid token loads claims into context", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, "mw@example.com", "admin")
		require.NoError(t, err)

		rr := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, "mw@example.com", gotEmail)
		assert.Equal(t, "admin", gotRole)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("").Code)
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Basic dXNlcjpwYXNz").Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer garbage").Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := auth.NewJWTService("test-secret", -time.Minute)
		token, err := expired.GenerateToken(userID, "mw@example.com", "admin")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})

	t.Run("context helpers fall back to zero values", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, uuid.Nil, middleware.GetUserID(req.Context()))
		assert.Equal(t, "", middleware.GetUserEmail(req.Context()))
	})
}
