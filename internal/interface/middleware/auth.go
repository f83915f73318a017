package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/pkg/apperror"
	"github.com/satriohq/blognest-api/pkg/helpers"
)

// CtxUserKey is the gin context key holding the authenticated user.
const CtxUserKey = "currentUser"

// Protect authenticates the request. The token is taken from the
// Authorization header if present, else from the jwt cookie. On success the
// sanitized user is attached to the context for downstream handlers.
func Protect(svc *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if v, err := c.Cookie(helpers.AuthCookieName); err == nil {
				token = v
			}
		}
		if token == "" {
			abortWith(c, apperror.Unauthenticated("you are not logged in, please log in to get access"))
			return
		}

		u, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(CtxUserKey, u)
		c.Set("userID", u.ID)
		c.Next()
	}
}

// RestrictTo authorizes the request against an explicit allowed-role set.
// It must run after Protect; without an authenticated user in context the
// request is rejected.
func RestrictTo(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abortWith(c, apperror.Unauthenticated("you are not logged in, please log in to get access"))
			return
		}
		if !u.Role.In(roles...) {
			abortWith(c, apperror.Forbidden())
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Protect, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
