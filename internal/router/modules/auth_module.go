package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/container"
	handlers "github.com/satriohq/blognest-api/internal/interface/http"
	"github.com/satriohq/blognest-api/internal/interface/middleware"
)

// AuthModule wires the authentication endpoints.
// Public: signup, login, logout, forgot-password, reset-password,
// verify/confirm. Protected: verify/request.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Svc     *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, svc *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Svc: svc}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	signupLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.PATCH("/auth/reset-password/:token", resetLimiter, m.Handler.ResetPassword)
	rg.POST("/auth/verify/confirm", resetLimiter, m.Handler.VerifyConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Svc))
	auth.Use(middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/verify/request", m.Handler.VerifyRequest)
	}
}
