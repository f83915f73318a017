package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/container"
	"github.com/satriohq/blognest-api/internal/domain/entity"
	handlers "github.com/satriohq/blognest-api/internal/interface/http"
	"github.com/satriohq/blognest-api/internal/interface/middleware"
)

// UserModule wires profile and administration endpoints.
// Public: GET /users/search. Protected: GET /me, PUT /profile,
// POST /profile/avatar. Admin: PATCH /users/:id/block, /users/:id/role.
type UserModule struct {
	Handler *handlers.UserHandler
	Svc     *application.AuthService
}

func NewUserModule(h *handlers.UserHandler, svc *application.AuthService) *UserModule {
	return &UserModule{Handler: h, Svc: svc}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	searchLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/users/search", searchLimiter, m.Handler.Search)

	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Svc))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}

	admin := auth.Group("/")
	admin.Use(middleware.RestrictTo(entity.RoleAdmin))
	{
		admin.PATCH("/users/:id/block", m.Handler.SetBlocked)
		admin.PATCH("/users/:id/role", m.Handler.SetRole)
	}
}
