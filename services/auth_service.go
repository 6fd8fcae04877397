package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samape/samape/logging"
	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// LoginStatus is the outcome of a login attempt.
type LoginStatus int

const (
	// LoginAuthenticated means credentials checked out and a session may be established
	LoginAuthenticated LoginStatus = iota
	// LoginBlocked means the identity exceeded its failure budget; credentials were not checked
	LoginBlocked
	// LoginRejected means the credentials were wrong or the account is inactive
	LoginRejected
)

// DefaultLandingPath is where authenticated users land when no safe
// destination was requested.
const DefaultLandingPath = "/dashboard"

// Generic user-facing messages. Blocked and rejected responses must never
// reveal whether the account exists.
const (
	MsgTooManyAttempts    = "Muitas tentativas de login. Tente novamente mais tarde."
	MsgInvalidCredentials = "Nome de usuário ou senha inválidos."
)

// LoginResult is the outcome of AttemptLogin
type LoginResult struct {
	Status       LoginStatus
	RedirectPath string
	Message      string
	User         *models.User
}

// AuthService is the authentication gate: it consults the rate limiter,
// verifies credentials and appends to the login ledger.
type AuthService interface {
	AttemptLogin(ctx context.Context, username, password string, rememberMe bool, ipAddress, nextPath string) *LoginResult
	IsBlocked(ctx context.Context, username string) (bool, error)
	RecordAttempt(ctx context.Context, identity string, success bool, ipAddress string)
	RecentAttempts(ctx context.Context, username string, limit int) ([]models.LoginAttempt, error)
	ResolveIdentity(ctx context.Context, username string) string
}

// authService implements AuthService interface
type authService struct {
	userRepo    repositories.UserRepository
	attemptRepo repositories.LoginAttemptRepository
	audit       AuditService

	maxAttempts int
	window      time.Duration

	// swappable for tests
	now func() time.Time
}

// NewAuthService creates a new auth service. maxAttempts and window come
// from startup configuration and are immutable afterwards.
func NewAuthService(
	userRepo repositories.UserRepository,
	attemptRepo repositories.LoginAttemptRepository,
	audit AuditService,
	maxAttempts int,
	window time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
		audit:       audit,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// AttemptLogin runs the full gate: validation, block check, credential
// check, ledger write and best-effort audit entry. It never returns an
// error; storage problems on the read path surface as a rejection
// (fail closed) and on the write paths are swallowed (fail open).
func (s *authService) AttemptLogin(ctx context.Context, username, password string, rememberMe bool, ipAddress, nextPath string) *LoginResult {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &LoginResult{Status: LoginRejected, Message: MsgInvalidCredentials}
	}

	user, identity := s.resolveUser(ctx, username)

	blocked, err := s.countBlocked(ctx, identity)
	if err != nil {
		// A broken ledger must not grant unlimited attempts
		logging.Error("login block check failed", zap.String("identity", identity), zap.Error(err))
		return &LoginResult{Status: LoginRejected, Message: MsgInvalidCredentials}
	}
	if blocked {
		// The rejection itself is not a credential check, so no attempt
		// row is written for it
		return &LoginResult{Status: LoginBlocked, Message: MsgTooManyAttempts}
	}

	if user == nil || !user.CheckPassword(password) || !user.Active {
		s.RecordAttempt(ctx, identity, false, ipAddress)
		return &LoginResult{Status: LoginRejected, Message: MsgInvalidCredentials}
	}

	s.RecordAttempt(ctx, identity, true, ipAddress)
	s.audit.Record(ctx, &user.ID, "Login", "user", &user.ID, "", ipAddress)

	return &LoginResult{
		Status:       LoginAuthenticated,
		RedirectPath: SafeRedirectPath(nextPath),
		User:         user,
	}
}

// IsBlocked reports whether the identity behind a username has exceeded its
// failure budget inside the sliding window. Read-only.
func (s *authService) IsBlocked(ctx context.Context, username string) (bool, error) {
	_, identity := s.resolveUser(ctx, username)
	return s.countBlocked(ctx, identity)
}

func (s *authService) countBlocked(ctx context.Context, identity string) (bool, error) {
	cutoff := s.now().Add(-s.window)
	count, err := s.attemptRepo.CountRecentFailures(ctx, identity, cutoff)
	if err != nil {
		return false, err
	}
	return count >= s.maxAttempts, nil
}

// RecordAttempt appends one row to the login ledger. Failures are swallowed:
// the ledger is observability, and logging in must not depend on it.
func (s *authService) RecordAttempt(ctx context.Context, identity string, success bool, ipAddress string) {
	attempt := &models.LoginAttempt{
		Email:     identity,
		Success:   success,
		IPAddress: ipAddress,
		Timestamp: s.now().UTC(),
	}

	tryRecord("login attempt", func() error {
		return s.attemptRepo.Create(ctx, attempt)
	})
}

// RecentAttempts lists the newest ledger rows for the identity behind a
// username, for the admin user page.
func (s *authService) RecentAttempts(ctx context.Context, username string, limit int) ([]models.LoginAttempt, error) {
	if limit <= 0 {
		limit = 10
	}
	_, identity := s.resolveUser(ctx, username)
	return s.attemptRepo.GetRecent(ctx, identity, limit)
}

// ResolveIdentity maps a submitted username to the ledger key: the
// account's email address when the username matches an account, otherwise
// the raw username. The fallback keeps probing of nonexistent usernames
// throttled; flagged for product confirmation before changing.
func (s *authService) ResolveIdentity(ctx context.Context, username string) string {
	_, identity := s.resolveUser(ctx, username)
	return identity
}

func (s *authService) resolveUser(ctx context.Context, username string) (*models.User, string) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logging.Error("user lookup failed", zap.Error(err))
		}
		return nil, username
	}
	return user, user.Email
}

// SafeRedirectPath returns the requested destination when it is a
// same-origin relative path, and the default landing page otherwise.
// Protocol-relative ("//host") and absolute URLs are rejected to prevent
// open redirects.
func SafeRedirectPath(nextPath string) string {
	if nextPath == "" {
		return DefaultLandingPath
	}
	if !strings.HasPrefix(nextPath, "/") {
		return DefaultLandingPath
	}
	if strings.HasPrefix(nextPath, "//") || strings.HasPrefix(nextPath, "/\\") {
		return DefaultLandingPath
	}
	return nextPath
}
