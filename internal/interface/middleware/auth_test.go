package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/internal/infrastructure/memory"
	"github.com/satriohq/blognest-api/pkg/helpers"
)

type noopMailer struct{}

func (noopMailer) SendPasswordReset(context.Context, string, string, string, string) error {
	return nil
}
func (noopMailer) SendWelcome(context.Context, string, string, string) error { return nil }

func testAuthService(t *testing.T) (*application.AuthService, *memory.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := memory.NewUserRepository()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return application.NewAuthService(repo, jwt, noopMailer{}, logger), repo
}

func protectedEngine(svc *application.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	r := gin.New()
	r.Use(ErrorHandler(logger))
	handlers := append([]gin.HandlerFunc{Protect(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		u := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
	})
	r.GET("/secure", handlers...)
	return r
}

func seedUser(t *testing.T, repo *memory.UserRepository, role entity.Role) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword("pass1234")
	require.NoError(t, err)
	changed := time.Now().Add(-time.Hour)
	u := &entity.User{
		FirstName:         "Ana",
		Email:             "ana@example.com",
		Password:          hash,
		Role:              role,
		Active:            true,
		PasswordChangedAt: &changed,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestProtectAcceptsBearerHeader(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleBlogger)
	token, _, err := svc.JWT.Sign(u.ID)
	require.NoError(t, err)

	r := protectedEngine(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), u.ID)
}

func TestProtectAcceptsCookie(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleBlogger)
	token, _, err := svc.JWT.Sign(u.ID)
	require.NoError(t, err)

	r := protectedEngine(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AuthCookieName, Value: token})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectHeaderWinsOverCookie(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleBlogger)
	token, _, err := svc.JWT.Sign(u.ID)
	require.NoError(t, err)

	r := protectedEngine(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: helpers.AuthCookieName, Value: "loggedout"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectMissingToken(t *testing.T) {
	svc, _ := testAuthService(t)

	r := protectedEngine(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "not logged in")
}

func TestProtectRejectsTamperedToken(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleBlogger)
	other := helpers.NewJWTManager("other-secret", time.Hour)
	token, _, err := other.Sign(u.ID)
	require.NoError(t, err)

	r := protectedEngine(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectRejectsTokenAfterPasswordChange(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleBlogger)
	token, _, err := svc.JWT.Sign(u.ID)
	require.NoError(t, err)

	// Rotate the password after the token was issued.
	time.Sleep(1100 * time.Millisecond)
	hash, err := helpers.HashPassword("newpass123")
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePassword(context.Background(), u.ID, hash, time.Now()))

	r := protectedEngine(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "recently changed")
}

func TestRestrictToAllowsMatchingRole(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleAdmin)
	token, _, err := svc.JWT.Sign(u.ID)
	require.NoError(t, err)

	r := protectedEngine(svc, RestrictTo(entity.RoleAdmin))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRestrictToForbidsOtherRoles(t *testing.T) {
	svc, repo := testAuthService(t)
	u := seedUser(t, repo, entity.RoleGuest)
	token, _, err := svc.JWT.Sign(u.ID)
	require.NoError(t, err)

	r := protectedEngine(svc, RestrictTo(entity.RoleAdmin, entity.RoleBlogger))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "permission")
}
