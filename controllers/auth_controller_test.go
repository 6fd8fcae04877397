package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gitea.com/go-chi/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samape/samape/config"
	"github.com/samape/samape/models"
	"github.com/samape/samape/services"
)

// stubAuthService authenticates one fixed user and captures the remember
// flag it was handed
type stubAuthService struct {
	rememberMe bool
}

func (s *stubAuthService) AttemptLogin(ctx context.Context, username, password string, rememberMe bool, ipAddress, nextPath string) *services.LoginResult {
	s.rememberMe = rememberMe
	if username != "alice" || password != "correct-horse" {
		return &services.LoginResult{Status: services.LoginRejected, Message: services.MsgInvalidCredentials}
	}
	return &services.LoginResult{
		Status:       services.LoginAuthenticated,
		RedirectPath: services.DefaultLandingPath,
		User:         &models.User{ID: 1, Username: "alice", Name: "Alice", Role: models.RoleAdmin, Active: true},
	}
}

func (s *stubAuthService) IsBlocked(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (s *stubAuthService) RecordAttempt(ctx context.Context, identity string, success bool, ipAddress string) {
}

func (s *stubAuthService) RecentAttempts(ctx context.Context, username string, limit int) ([]models.LoginAttempt, error) {
	return nil, nil
}

func (s *stubAuthService) ResolveIdentity(ctx context.Context, username string) string {
	return username
}

type stubAuditService struct{}

func (s *stubAuditService) Record(ctx context.Context, actorID *int, action string, entityType string, entityID *int, details string, ipAddress string) {
}

func (s *stubAuditService) GetRecent(ctx context.Context, limit int) ([]models.ActionLogEntry, error) {
	return nil, nil
}

func loginFixture(t *testing.T) (*stubAuthService, http.Handler) {
	t.Helper()

	auth := &stubAuthService{}
	ctrl := NewAuthController(
		&services.Services{Auth: auth, Audit: &stubAuditService{}},
		&config.Config{RememberMeLifetimeSeconds: 2592000},
	)

	sessioner, err := session.Sessioner(session.Options{
		Provider:   "memory",
		CookieName: config.SessionCookieName,
	})
	require.NoError(t, err)

	return auth, sessioner(http.HandlerFunc(ctrl.Login))
}

func postLogin(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func persistentSessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == config.SessionCookieName && c.MaxAge > 0 {
			return c
		}
	}
	return nil
}

func TestLoginRememberMeExtendsCookie(t *testing.T) {
	auth, handler := loginFixture(t)

	rec := postLogin(t, handler, url.Values{
		"username":    {"alice"},
		"password":    {"correct-horse"},
		"remember_me": {"on"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, services.DefaultLandingPath, rec.Header().Get("Location"))
	assert.True(t, auth.rememberMe)

	cookie := persistentSessionCookie(rec)
	require.NotNil(t, cookie, "expected a persistent session cookie")
	assert.Equal(t, 2592000, cookie.MaxAge)
}

func TestLoginWithoutRememberMeStaysSessionScoped(t *testing.T) {
	auth, handler := loginFixture(t)

	rec := postLogin(t, handler, url.Values{
		"username": {"alice"},
		"password": {"correct-horse"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, auth.rememberMe)
	assert.Nil(t, persistentSessionCookie(rec))
}
