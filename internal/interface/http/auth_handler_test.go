package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/infrastructure/memory"
	"github.com/satriohq/blognest-api/internal/interface/middleware"
	"github.com/satriohq/blognest-api/pkg/helpers"
	"github.com/satriohq/blognest-api/pkg/validation"
)

// captureMailer records the last links instead of delivering anything, so
// tests can walk the reset and verification flows end to end.
type captureMailer struct {
	resetURL  string
	verifyURL string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, _, _, resetURL, _ string) error {
	m.resetURL = resetURL
	return nil
}

func (m *captureMailer) SendWelcome(_ context.Context, _, _, verifyURL string) error {
	m.verifyURL = verifyURL
	return nil
}

type testEnv struct {
	router *gin.Engine
	repo   *memory.UserRepository
	svc    *application.AuthService
	mail   *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := memory.NewUserRepository()
	mail := &captureMailer{}
	svc := application.NewAuthService(repo, helpers.NewJWTManager("test-secret", time.Hour), mail, logger)
	svc.ResetURLBase = "https://app.example.com/reset-password"
	svc.VerifyURLBase = "https://app.example.com/verify"

	h := NewAuthHandler(svc, logger, helpers.NewCookieManager("", false))

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.PATCH("/reset-password/:token", h.ResetPassword)
		auth.POST("/verify/request", middleware.Protect(svc), h.VerifyRequest)
		auth.POST("/verify/confirm", h.VerifyConfirm)
	}
	r.GET("/api/users/me", middleware.Protect(svc), func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
	})

	return &testEnv{router: r, repo: repo, svc: svc, mail: mail}
}

func (e *testEnv) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func signupBody(email string) gin.H {
	return gin.H{
		"first_name":       "Ana",
		"last_name":        "Reyes",
		"email":            email,
		"password":         "pass1234",
		"password_confirm": "pass1234",
	}
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestSignupResponseOmitsPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "a@x.com")
	require.NotContains(t, w.Body.String(), "pass1234")
	require.NotContains(t, w.Body.String(), "password")
}

func TestSignupRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	body := signupBody("a@x.com")
	body["password"] = "abc"
	body["password_confirm"] = "abc"
	w := env.do(http.MethodPost, "/api/auth/signup", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "at least 6 characters")
}

func TestSignupRejectsAdminRoleInPayload(t *testing.T) {
	env := newTestEnv(t)

	body := signupBody("a@x.com")
	body["role"] = "Admin"
	w := env.do(http.MethodPost, "/api/auth/signup", body, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated,
		env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil).Code)

	wrong := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "nope12"}, nil)
	unknown := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "b@x.com", "password": "pass1234"}, nil)

	require.Equal(t, http.StatusUnauthorized, wrong.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Contains(t, wrong.Body.String(), "incorrect email or password")
	require.Contains(t, unknown.Body.String(), "incorrect email or password")
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "please provide email and password")
}

func TestLoginSetsCookieAndReturnsToken(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated,
		env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil).Code)

	w := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pass1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)

	cookie := w.Header().Get("Set-Cookie")
	require.Contains(t, cookie, helpers.AuthCookieName+"=")
	require.Contains(t, cookie, "HttpOnly")
	require.Contains(t, cookie, "SameSite=Lax")

	// The cookie carries the same token the body does.
	require.Contains(t, cookie, body.Data.Token)
}

func TestMeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusUnauthorized,
		env.do(http.MethodGet, "/api/users/me", nil, nil).Code)
}

func TestMeWithBearerToken(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil)
	login := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pass1234"}, nil)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &body))

	w := env.do(http.MethodGet, "/api/users/me", nil, bearer(body.Data.Token))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "a@x.com")
}

func TestLogoutOverwritesCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	require.Contains(t, cookie, helpers.AuthCookieName+"=loggedout")
	require.Contains(t, cookie, "Max-Age=10")
}

func TestForgotPasswordDoesNotLeakToken(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil)

	w := env.do(http.MethodPost, "/api/auth/forgot-password", gin.H{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, env.mail.resetURL)

	plain := env.mail.resetURL[strings.LastIndex(env.mail.resetURL, "/")+1:]
	require.NotContains(t, w.Body.String(), plain)
}

func TestResetPasswordFlowInvalidatesOldTokens(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil)

	login := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pass1234"}, nil)
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &body))
	oldToken := body.Data.Token

	env.do(http.MethodPost, "/api/auth/forgot-password", gin.H{"email": "a@x.com"}, nil)
	plain := env.mail.resetURL[strings.LastIndex(env.mail.resetURL, "/")+1:]

	// The change timestamp is backdated by a small skew and compared at
	// second precision, so the rotation must land clearly after login.
	time.Sleep(3100 * time.Millisecond)

	w := env.do(http.MethodPatch, "/api/auth/reset-password/"+plain,
		gin.H{"password": "newpass123", "password_confirm": "newpass123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The old bearer token is dead.
	replay := env.do(http.MethodGet, "/api/users/me", nil, bearer(oldToken))
	require.Equal(t, http.StatusUnauthorized, replay.Code)
	require.Contains(t, replay.Body.String(), "recently changed")

	// So is the reset token.
	reuse := env.do(http.MethodPatch, "/api/auth/reset-password/"+plain,
		gin.H{"password": "another123", "password_confirm": "another123"}, nil)
	require.Equal(t, http.StatusBadRequest, reuse.Code)
	require.Contains(t, reuse.Body.String(), "invalid or has expired")

	// The old password no longer works, the new one does.
	require.Equal(t, http.StatusUnauthorized,
		env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pass1234"}, nil).Code)
	require.Equal(t, http.StatusOK,
		env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "newpass123"}, nil).Code)
}

func TestVerificationFlow(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil)

	// Signup already queued a welcome email with a verification link.
	require.NotEmpty(t, env.mail.verifyURL)
	plain := env.mail.verifyURL[strings.LastIndex(env.mail.verifyURL, "/")+1:]

	w := env.do(http.MethodPost, "/api/auth/verify/confirm", gin.H{"token": plain}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "account verified")

	// Single use.
	reuse := env.do(http.MethodPost, "/api/auth/verify/confirm", gin.H{"token": plain}, nil)
	require.Equal(t, http.StatusBadRequest, reuse.Code)
}

func TestVerifyRequestAlreadyVerified(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/auth/signup", signupBody("a@x.com"), nil)

	plain := env.mail.verifyURL[strings.LastIndex(env.mail.verifyURL, "/")+1:]
	env.do(http.MethodPost, "/api/auth/verify/confirm", gin.H{"token": plain}, nil)

	login := env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@x.com", "password": "pass1234"}, nil)
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &body))

	w := env.do(http.MethodPost, "/api/auth/verify/request", nil, bearer(body.Data.Token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already verified")
}
