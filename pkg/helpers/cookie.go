package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the cookie carrying the signed bearer token.
const AuthCookieName = "jwt"

// CookieManager writes the auth cookie with a consistent policy:
// httpOnly, SameSite=Lax, Secure outside local development.
type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

// SetAuth stores the token until its expiry.
func (m *CookieManager) SetAuth(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

// ClearAuth overwrites the auth cookie with a sentinel that expires in a few
// seconds. Logout is logical only: a bearer token held outside the cookie
// stays valid until its natural expiry.
func (m *CookieManager) ClearAuth(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, "loggedout", 10, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
