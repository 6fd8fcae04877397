package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// stubUserRepo serves users from a map keyed by username
type stubUserRepo struct {
	users map[string]*models.User
	err   error
}

func (r *stubUserRepo) GetAll(ctx context.Context) ([]models.User, error) { return nil, nil }
func (r *stubUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}
func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}
func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (r *stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (r *stubUserRepo) Count(ctx context.Context) (int, error)              { return len(r.users), nil }

// stubAttemptRepo keeps the ledger in memory and counts like the real one
type stubAttemptRepo struct {
	attempts  []models.LoginAttempt
	createErr error
	countErr  error
}

func (r *stubAttemptRepo) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	if r.createErr != nil {
		return r.createErr
	}
	attempt.ID = int64(len(r.attempts) + 1)
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *stubAttemptRepo) CountRecentFailures(ctx context.Context, identity string, since time.Time) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	count := 0
	for _, a := range r.attempts {
		if a.Email == identity && !a.Success && !a.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *stubAttemptRepo) GetRecent(ctx context.Context, identity string, limit int) ([]models.LoginAttempt, error) {
	var matched []models.LoginAttempt
	for i := len(r.attempts) - 1; i >= 0 && len(matched) < limit; i-- {
		if r.attempts[i].Email == identity {
			matched = append(matched, r.attempts[i])
		}
	}
	return matched, nil
}

// stubActionLogRepo collects audit entries
type stubActionLogRepo struct {
	entries   []models.ActionLogEntry
	createErr error
}

func (r *stubActionLogRepo) Create(ctx context.Context, entry *models.ActionLogEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubActionLogRepo) GetRecent(ctx context.Context, limit int) ([]models.ActionLogEntry, error) {
	return r.entries, nil
}

type authFixture struct {
	svc      *authService
	users    *stubUserRepo
	attempts *stubAttemptRepo
	audit    *stubActionLogRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	user := &models.User{
		ID:       1,
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Role:     models.RoleAdmin,
		Active:   true,
	}
	require.NoError(t, user.SetPassword("correct-horse"))

	users := &stubUserRepo{users: map[string]*models.User{"alice": user}}
	attempts := &stubAttemptRepo{}
	audit := &stubActionLogRepo{}

	svc := NewAuthService(users, attempts, NewAuditService(audit), 5, 300*time.Second).(*authService)
	return &authFixture{svc: svc, users: users, attempts: attempts, audit: audit}
}

func (f *authFixture) failAt(t *testing.T, ts time.Time, username string) {
	t.Helper()
	f.svc.now = func() time.Time { return ts }
	result := f.svc.AttemptLogin(context.Background(), username, "wrong-password", false, "10.0.0.1", "")
	require.Equal(t, LoginRejected, result.Status)
}

func TestAttemptLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)

	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")

	require.Equal(t, LoginAuthenticated, result.Status)
	require.NotNil(t, result.User)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, DefaultLandingPath, result.RedirectPath)

	require.Len(t, f.attempts.attempts, 1)
	assert.True(t, f.attempts.attempts[0].Success)
	assert.Equal(t, "alice@example.com", f.attempts.attempts[0].Email)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "Login", f.audit.entries[0].Action)
}

func TestAttemptLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	result := f.svc.AttemptLogin(context.Background(), "alice", "nope", false, "10.0.0.1", "")

	assert.Equal(t, LoginRejected, result.Status)
	assert.Equal(t, MsgInvalidCredentials, result.Message)
	require.Len(t, f.attempts.attempts, 1)
	assert.False(t, f.attempts.attempts[0].Success)
}

func TestAttemptLoginInactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.users.users["alice"].Active = false

	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")

	// Same message as a wrong password: the response must not reveal
	// account state
	assert.Equal(t, LoginRejected, result.Status)
	assert.Equal(t, MsgInvalidCredentials, result.Message)
	require.Len(t, f.attempts.attempts, 1)
	assert.False(t, f.attempts.attempts[0].Success)
}

func TestAttemptLoginEmptyFields(t *testing.T) {
	f := newAuthFixture(t)

	result := f.svc.AttemptLogin(context.Background(), "   ", "pw", false, "10.0.0.1", "")
	assert.Equal(t, LoginRejected, result.Status)

	result = f.svc.AttemptLogin(context.Background(), "alice", "", false, "10.0.0.1", "")
	assert.Equal(t, LoginRejected, result.Status)

	// Neither malformed submission reaches the ledger as a real attempt
	assert.Empty(t, f.attempts.attempts)
}

func TestUnderThresholdNotBlocked(t *testing.T) {
	f := newAuthFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		f.failAt(t, base.Add(time.Duration(i)*time.Second), "alice")
	}

	f.svc.now = func() time.Time { return base.Add(10 * time.Second) }
	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")
	assert.Equal(t, LoginAuthenticated, result.Status)
}

func TestBlockedAtThreshold(t *testing.T) {
	f := newAuthFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		f.failAt(t, base.Add(time.Duration(i)*time.Second), "alice")
	}
	require.Len(t, f.attempts.attempts, 5)

	f.svc.now = func() time.Time { return base.Add(10 * time.Second) }
	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")

	assert.Equal(t, LoginBlocked, result.Status)
	assert.Equal(t, MsgTooManyAttempts, result.Message)
	// The blocked rejection is not itself an attempt: no new ledger row
	assert.Len(t, f.attempts.attempts, 5)
}

func TestBlockExpiresWithWindow(t *testing.T) {
	f := newAuthFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Failures at t=0..40s, ten seconds apart
	for i := 0; i < 5; i++ {
		f.failAt(t, base.Add(time.Duration(i*10)*time.Second), "alice")
	}

	f.svc.now = func() time.Time { return base.Add(41 * time.Second) }
	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")
	assert.Equal(t, LoginBlocked, result.Status)
	assert.Len(t, f.attempts.attempts, 5)

	// The first failure slides out of the 300s window after t=300,
	// leaving four recent failures
	f.svc.now = func() time.Time { return base.Add(301 * time.Second) }
	result = f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")
	assert.Equal(t, LoginAuthenticated, result.Status)
}

func TestSuccessDoesNotEraseFailures(t *testing.T) {
	f := newAuthFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		f.failAt(t, base.Add(time.Duration(i)*time.Second), "alice")
	}

	f.svc.now = func() time.Time { return base.Add(5 * time.Second) }
	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")
	require.Equal(t, LoginAuthenticated, result.Status)

	// 3 failures + 1 success: the ledger is append-only
	require.Len(t, f.attempts.attempts, 4)
	assert.True(t, f.attempts.attempts[3].Success)

	// Two more failures reach the threshold together with the old ones
	f.failAt(t, base.Add(6*time.Second), "alice")
	f.failAt(t, base.Add(7*time.Second), "alice")

	f.svc.now = func() time.Time { return base.Add(8 * time.Second) }
	result = f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")
	assert.Equal(t, LoginBlocked, result.Status)
}

func TestIdentityNormalization(t *testing.T) {
	f := newAuthFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Three failures submitted under the username
	for i := 0; i < 3; i++ {
		f.failAt(t, base.Add(time.Duration(i)*time.Second), "alice")
	}
	// Two more recorded directly under the resolved email
	f.svc.now = func() time.Time { return base.Add(3 * time.Second) }
	f.svc.RecordAttempt(context.Background(), "alice@example.com", false, "10.0.0.1")
	f.svc.RecordAttempt(context.Background(), "alice@example.com", false, "10.0.0.1")

	// All five rows share the ledger key: the account's email
	require.Len(t, f.attempts.attempts, 5)
	for _, a := range f.attempts.attempts {
		assert.Equal(t, "alice@example.com", a.Email)
	}

	f.svc.now = func() time.Time { return base.Add(10 * time.Second) }
	blocked, err := f.svc.IsBlocked(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestUnknownUsernameFallback(t *testing.T) {
	f := newAuthFixture(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		f.failAt(t, base.Add(time.Duration(i)*time.Second), "ghost")
	}

	// Unknown usernames are throttled under their raw value
	for _, a := range f.attempts.attempts {
		assert.Equal(t, "ghost", a.Email)
	}

	f.svc.now = func() time.Time { return base.Add(10 * time.Second) }
	result := f.svc.AttemptLogin(context.Background(), "ghost", "anything", false, "10.0.0.1", "")
	assert.Equal(t, LoginBlocked, result.Status)

	// The real account is untouched by the ghost's failures
	result = f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")
	assert.Equal(t, LoginAuthenticated, result.Status)
}

func TestBlockCheckFailsClosed(t *testing.T) {
	f := newAuthFixture(t)
	f.attempts.countErr = errors.New("database is locked")

	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")

	assert.Equal(t, LoginRejected, result.Status)
	assert.Equal(t, MsgInvalidCredentials, result.Message)
	assert.Nil(t, result.User)
}

func TestLedgerWriteFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	f.attempts.createErr = errors.New("disk full")

	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")

	assert.Equal(t, LoginAuthenticated, result.Status)
	assert.NotNil(t, result.User)
}

func TestAuditWriteFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	f.audit.createErr = errors.New("disk full")

	result := f.svc.AttemptLogin(context.Background(), "alice", "correct-horse", false, "10.0.0.1", "")

	assert.Equal(t, LoginAuthenticated, result.Status)
	assert.Empty(t, f.audit.entries)
}

func TestResolveIdentity(t *testing.T) {
	f := newAuthFixture(t)

	assert.Equal(t, "alice@example.com", f.svc.ResolveIdentity(context.Background(), "alice"))
	assert.Equal(t, "ghost", f.svc.ResolveIdentity(context.Background(), "ghost"))
}

func TestRecentAttempts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.svc.RecordAttempt(ctx, "alice@example.com", false, "10.0.0.1")
	f.svc.RecordAttempt(ctx, "ghost", false, "10.0.0.2")
	f.svc.RecordAttempt(ctx, "alice@example.com", true, "10.0.0.1")

	// Username resolves to the email identity before the ledger lookup
	attempts, err := f.svc.RecentAttempts(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Success)
	for _, a := range attempts {
		assert.Equal(t, "alice@example.com", a.Email)
	}
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		name string
		next string
		want string
	}{
		{"empty falls back", "", DefaultLandingPath},
		{"relative path kept", "/clientes", "/clientes"},
		{"relative with query kept", "/os/12?tab=equip", "/os/12?tab=equip"},
		{"absolute URL rejected", "https://evil.example/", DefaultLandingPath},
		{"protocol relative rejected", "//evil.example/phish", DefaultLandingPath},
		{"backslash variant rejected", "/\\evil.example", DefaultLandingPath},
		{"no leading slash rejected", "clientes", DefaultLandingPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeRedirectPath(tt.next))
		})
	}
}
