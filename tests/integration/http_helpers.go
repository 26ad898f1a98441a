package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/precure-app/precure-api/internal/auth"
	"github.com/precure-app/precure-api/internal/database"
	"github.com/precure-app/precure-api/internal/handlers"
	middlewareCustom "github.com/precure-app/precure-api/internal/middleware"
	"github.com/precure-app/precure-api/internal/repositories"
	"github.com/precure-app/precure-api/internal/routes"
	"github.com/precure-app/precure-api/internal/services"
	"github.com/precure-app/precure-api/internal/storage"
	pkgauth "github.com/precure-app/precure-api/pkg/auth"
)

// SentEmail represents a captured reset-code email
type SentEmail struct {
	To   string
	Name string
	Code string
}

// MockEmailService captures sent emails for test assertions
type MockEmailService struct {
	SentEmails []SentEmail
	mu         sync.Mutex
}

// SendPasswordResetCode records the email instead of dispatching it
func (m *MockEmailService) SendPasswordResetCode(ctx context.Context, email, name, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{To: email, Name: name, Code: code})
	return nil
}

// GetLastEmail returns the most recent email sent
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// TestServerOptions tunes the server under test
type TestServerOptions struct {
	TokenExpiry            time.Duration
	ResetCodeTTL           time.Duration
	RevokeOnPasswordChange bool
	UploadDir              string
}

// TestServer wraps httptest.Server with a real database and a mocked email
// dispatcher
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	EmailService *MockEmailService
	TokenManager *auth.TokenManager
}

// NewTestServer builds the complete HTTP stack against the given database.
func NewTestServer(db *database.DB, opts TestServerOptions) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if opts.TokenExpiry == 0 {
		opts.TokenExpiry = time.Hour
	}
	if opts.ResetCodeTTL == 0 {
		opts.ResetCodeTTL = 10 * time.Minute
	}
	if opts.UploadDir == "" {
		opts.UploadDir = os.TempDir()
	}

	accountRepo := repositories.NewAccountRepository(db)
	revokeRepo := repositories.NewRevokedTokenRepository(db)

	tokenManager := auth.NewTokenManager("test-secret-32-characters-long-ok", opts.TokenExpiry)
	resetCodes := auth.NewResetCodeManager(opts.ResetCodeTTL)
	hasher := pkgauth.NewHasher(4)

	imageStore, err := storage.NewDiskImageStore(opts.UploadDir, 5<<20)
	if err != nil {
		panic(fmt.Sprintf("failed to create image store: %v", err))
	}

	emailService := &MockEmailService{}

	authService := services.NewAuthService(accountRepo, revokeRepo, tokenManager, hasher, logger)
	passwordService := services.NewPasswordService(accountRepo, resetCodes, hasher, emailService, logger)
	profileService := services.NewProfileService(accountRepo, imageStore, logger)
	revocationChecker := services.NewTokenRevocationChecker(revokeRepo, accountRepo, opts.RevokeOnPasswordChange, logger)

	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	profileHandler := handlers.NewProfileHandler(profileService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, authHandler, passwordHandler, profileHandler, tokenManager, revocationChecker)

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           db,
		EmailService: emailService,
		TokenManager: tokenManager,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// DoJSON issues a JSON request with an optional bearer token and returns the
// response with its decoded body.
func (ts *TestServer) DoJSON(method, path, token string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return resp, nil, fmt.Errorf("decoding response %q: %w", raw, err)
		}
	}

	return resp, decoded, nil
}
