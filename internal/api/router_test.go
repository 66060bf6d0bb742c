package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftforge/draftforge/internal/api"
	"github.com/draftforge/draftforge/internal/auth"
	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/draftforge/draftforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   http.Handler
	store    *store.Memory
	notifier *testutil.RecordingNotifier
	jwt      *auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := store.NewMemory()
	notifier := &testutil.RecordingNotifier{}
	logger := testutil.NewLogger()
	jwtService := testutil.CreateTestJWTService()
	authService := auth.NewService(st, jwtService, notifier, logger)

	router := api.NewRouter(api.RouterConfig{
		Store:       st,
		Logger:      logger,
		JWTService:  jwtService,
		AuthService: authService,
		FrontendURL: "http://localhost:3000",
	})

	return &testServer{router: router, store: st, notifier: notifier, jwt: jwtService}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/register", map[string]string{
		"email":     email,
		"password":  "password123",
		"firstName": "Api",
		"lastName":  "Tester",
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Token string `json:"token"`
	}
	testutil.ParseJSONResponse(t, rr, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("returns the created user without credentials", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/register", map[string]string{
			"email":     "reg@example.com",
			"password":  "password123",
			"firstName": "Reg",
			"lastName":  "User",
			"role":      "business_developer",
		}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp struct {
			Message string `json:"message"`
			User    struct {
				ID              string `json:"id"`
				Email           string `json:"email"`
				Role            string `json:"role"`
				IsEmailVerified bool   `json:"is_email_verified"`
			} `json:"user"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.User.ID)
		assert.Equal(t, "reg@example.com", resp.User.Email)
		assert.Equal(t, "business_developer", resp.User.Role)
		assert.False(t, resp.User.IsEmailVerified)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("duplicate email returns 400", func(t *testing.T) {
		ts := newTestServer(t)

		req := map[string]string{"email": "dup@example.com", "password": "password123"}
		testutil.AssertStatus(t, ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/register", req)), http.StatusOK)

		rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/register", req))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Contains(t, rr.Body.String(), "User already exists")
	})

	t.Run("validation failures return field details", func(t *testing.T) {
		ts := newTestServer(t)

		rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/register", map[string]string{
			"email":    "not-an-email",
			"password": "short",
			"role":     "superuser",
		}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var resp struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Contains(t, resp.Details, "email")
		assert.Contains(t, resp.Details, "password")
		assert.Contains(t, resp.Details, "role")
	})
}

func TestLoginEndpoint(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateTestUser(t, ts.store, "login@example.com", "password123", false)

	t.Run("succeeds before verification", func(t *testing.T) {
		rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/login", map[string]string{
			"email":    "login@example.com",
			"password": "password123",
		}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp struct {
			Token string `json:"token"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		_, err := ts.jwt.ValidateToken(resp.Token)
		assert.NoError(t, err)
	})

	t.Run("identical 401 for unknown email and wrong password", func(t *testing.T) {
		unknown := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "password123",
		}))
		wrongPw := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/login", map[string]string{
			"email":    "login@example.com",
			"password": "wrongpass",
		}))

		testutil.AssertStatus(t, unknown, http.StatusUnauthorized)
		testutil.AssertStatus(t, wrongPw, http.StatusUnauthorized)
		assert.Equal(t, unknown.Body.String(), wrongPw.Body.String())
	})
}

func TestVerificationEndpoints(t *testing.T) {
	t.Run("json verification consumes the token", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerAndLogin(t, "verify@example.com")
		token := ts.notifier.Sent()[0].Token

		rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/verify-email", map[string]string{"token": token}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/verify-email", map[string]string{"token": token}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Contains(t, rr.Body.String(), "Invalid or expired token")
	})

	t.Run("browser verification link renders html", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registerAndLogin(t, "browser@example.com")
		token := ts.notifier.Sent()[0].Token

		rr := ts.do(httptest.NewRequest("GET", "/verify-email?token="+token, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rr.Body.String(), "Email Verified Successfully!")

		rr = ts.do(httptest.NewRequest("GET", "/verify-email?token="+token, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid or Expired Token")
	})

	t.Run("browser link without token", func(t *testing.T) {
		ts := newTestServer(t)
		rr := ts.do(httptest.NewRequest("GET", "/verify-email", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("resend", func(t *testing.T) {
		ts := newTestServer(t)
		testutil.CreateTestUser(t, ts.store, "resend@example.com", "password123", false)
		testutil.CreateTestUser(t, ts.store, "done@example.com", "password123", true)

		rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/resend-verification", map[string]string{"email": "resend@example.com"}))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/resend-verification", map[string]string{"email": "nobody@example.com"}))
		testutil.AssertStatus(t, rr, http.StatusNotFound)

		rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/resend-verification", map[string]string{"email": "done@example.com"}))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		assert.Contains(t, rr.Body.String(), "Email already verified")
	})
}

func TestPasswordResetEndpoints(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateTestUser(t, ts.store, "forgot@example.com", "oldpassword", true)

	rr := ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"}))
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/forgot-password", map[string]string{"email": "forgot@example.com"}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	token := ts.notifier.LastToken()
	require.NotEmpty(t, token)

	rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "newpassword",
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	// Old password no longer works, new one does.
	rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/login", map[string]string{
		"email":    "forgot@example.com",
		"password": "oldpassword",
	}))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/login", map[string]string{
		"email":    "forgot@example.com",
		"password": "newpassword",
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	// Token was consumed.
	rr = ts.do(testutil.UnauthenticatedRequest(t, "POST", "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "anotherpassword",
	}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestProtectedRoutes(t *testing.T) {
	ts := newTestServer(t)

	t.Run("reject without a bearer token", func(t *testing.T) {
		for _, path := range []string{"/api/user/profile", "/api/proposals/", "/api/sows/"} {
			rr := ts.do(testutil.UnauthenticatedRequest(t, "GET", path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code, "path %s", path)
		}
	})

	t.Run("reject a malformed token", func(t *testing.T) {
		rr := ts.do(testutil.AuthenticatedRequest(t, "GET", "/api/user/profile", nil, "not-a-token"))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("profile returns the authenticated user", func(t *testing.T) {
		token := ts.registerAndLogin(t, "profile@example.com")

		rr := ts.do(testutil.AuthenticatedRequest(t, "GET", "/api/user/profile", nil, token))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Contains(t, rr.Body.String(), "profile@example.com")
		assert.NotContains(t, rr.Body.String(), "password")
	})
}

func TestProposalEndpoints(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "owner@example.com")
	intruder := ts.registerAndLogin(t, "intruder@example.com")

	var created models.Proposal

	t.Run("create defaults status to draft", func(t *testing.T) {
		rr := ts.do(testutil.AuthenticatedRequest(t, "POST", "/api/proposals/", map[string]any{
			"title":         "Replatform",
			"content":       "Move the monolith",
			"client_name":   "Acme",
			"budget":        25000.0,
			"timeline_days": 60,
		}, owner))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.ParseJSONResponse(t, rr, &created)
		assert.Equal(t, "draft", created.Status)
	})

	t.Run("create rejects a bad status", func(t *testing.T) {
		rr := ts.do(testutil.AuthenticatedRequest(t, "POST", "/api/proposals/", map[string]any{
			"title":  "Bad",
			"status": "finished",
		}, owner))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("list is scoped to the owner", func(t *testing.T) {
		rr := ts.do(testutil.AuthenticatedRequest(t, "GET", "/api/proposals/", nil, owner))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var list []models.Proposal
		testutil.ParseJSONResponse(t, rr, &list)
		assert.Len(t, list, 1)

		rr = ts.do(testutil.AuthenticatedRequest(t, "GET", "/api/proposals/", nil, intruder))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("other users cannot see or modify", func(t *testing.T) {
		path := "/api/proposals/" + created.ID.String()

		rr := ts.do(testutil.AuthenticatedRequest(t, "GET", path, nil, intruder))
		testutil.AssertStatus(t, rr, http.StatusNotFound)

		rr = ts.do(testutil.AuthenticatedRequest(t, "DELETE", path, nil, intruder))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		path := "/api/proposals/" + created.ID.String()

		rr := ts.do(testutil.AuthenticatedRequest(t, "PUT", path, map[string]any{
			"title":  "Replatform v2",
			"status": "submitted",
		}, owner))
		testutil.AssertStatus(t, rr, http.StatusOK)
		var updated models.Proposal
		testutil.ParseJSONResponse(t, rr, &updated)
		assert.Equal(t, "Replatform v2", updated.Title)
		assert.Equal(t, "submitted", updated.Status)

		rr = ts.do(testutil.AuthenticatedRequest(t, "DELETE", path, nil, owner))
		testutil.AssertStatus(t, rr, http.StatusOK)

		rr = ts.do(testutil.AuthenticatedRequest(t, "GET", path, nil, owner))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := ts.do(testutil.AuthenticatedRequest(t, "GET", "/api/proposals/not-a-uuid", nil, owner))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestSOWEndpoints(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.registerAndLogin(t, "sow@example.com")

	rr := ts.do(testutil.AuthenticatedRequest(t, "POST", "/api/sows/", map[string]any{
		"title":         "Phase one",
		"content":       "Initial engagement",
		"project_scope": "Discovery and design",
		"payment_terms": "Net 30",
	}, owner))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var created models.SOW
	testutil.ParseJSONResponse(t, rr, &created)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, "Discovery and design", created.ProjectScope)

	rr = ts.do(testutil.AuthenticatedRequest(t, "PUT", "/api/sows/"+created.ID.String(), map[string]any{
		"title":        "Phase one",
		"status":       "approved",
		"deliverables": "Design document",
	}, owner))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var updated models.SOW
	testutil.ParseJSONResponse(t, rr, &updated)
	assert.Equal(t, "approved", updated.Status)
	assert.Equal(t, "Design document", updated.Deliverables)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "memory", resp.Services["database"])

	rr = ts.do(httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
