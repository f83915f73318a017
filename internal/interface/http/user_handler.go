package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/internal/interface/middleware"
	"github.com/satriohq/blognest-api/pkg/response"
	"github.com/satriohq/blognest-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio" binding:"omitempty,max=500"`
}

type setBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Admin Guest Blogger"`
}

// Me GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.Success(c, http.StatusOK, gin.H{"user": u}, "profile")
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "profile updated")
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString("userID"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded")
}

// Search GET /api/users/search?q=...&size=...
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchAuthors(c.Request.Context(), q, size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": hits}, "authors")
}

// SetBlocked PATCH /api/users/:id/block (admin only)
func (h *UserHandler) SetBlocked(c *gin.Context) {
	var req setBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id := c.Param("id")
	if err := h.Svc.SetBlocked(c.Request.Context(), id, *req.Blocked); err != nil {
		_ = c.Error(err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"user_id": id, "blocked": *req.Blocked}).Info("block status changed")
	response.Success[any](c, http.StatusOK, gin.H{"blocked": *req.Blocked}, "block status updated")
}

// SetRole PATCH /api/users/:id/role (admin only)
func (h *UserHandler) SetRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id := c.Param("id")
	if err := h.Svc.SetRole(c.Request.Context(), id, entity.Role(req.Role)); err != nil {
		_ = c.Error(err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"user_id": id, "role": req.Role}).Info("role changed")
	response.Success[any](c, http.StatusOK, gin.H{"role": req.Role}, "role updated")
}
