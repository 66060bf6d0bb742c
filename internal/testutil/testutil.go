package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/draftforge/draftforge/internal/auth"
	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/draftforge/draftforge/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewLogger returns a logger whose output goes nowhere.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTestDB creates an in-memory SQLite database for testing.
// TranslateError must be on: the store layer depends on
// gorm.ErrDuplicatedKey for its uniqueness contract.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Single connection, same as the production SQLite setup: writes
	// serialize instead of surfacing busy errors.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.VerificationToken{},
		&models.PasswordResetToken{},
		&models.Proposal{},
		&models.SOW{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CreateTestUser inserts a user through the given store with the
// password already hashed.
func CreateTestUser(t *testing.T, st store.Store, email, password string, verified bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:           email,
		PasswordHash:    hash,
		FirstName:       "Test",
		LastName:        "User",
		Role:            models.RoleCreator,
		IsEmailVerified: verified,
	}

	if err := st.InsertUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid bearer token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// SentEmail records one delivery captured by RecordingNotifier.
type SentEmail struct {
	Kind  mailer.Kind
	Email string
	Token string
}

// RecordingNotifier captures notifications instead of sending them.
// Setting Err makes every Send fail, for best-effort delivery tests.
type RecordingNotifier struct {
	mu   sync.Mutex
	Err  error
	sent []SentEmail
}

var _ mailer.Notifier = (*RecordingNotifier)(nil)

func (n *RecordingNotifier) Send(ctx context.Context, kind mailer.Kind, email, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, SentEmail{Kind: kind, Email: email, Token: token})
	return nil
}

// Sent returns a copy of the captured deliveries.
func (n *RecordingNotifier) Sent() []SentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]SentEmail, len(n.sent))
	copy(out, n.sent)
	return out
}

// LastToken returns the token of the most recent delivery, or "".
func (n *RecordingNotifier) LastToken() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].Token
}
