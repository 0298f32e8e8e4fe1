package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName matches what the storefront expects.
	CookieName = "sessionId"

	// One year, in seconds.
	cookieMaxAge = 365 * 24 * 60 * 60

	contextKey = "session_token"
)

// NewToken returns an unguessable 128-bit identifier, hex encoded.
func NewToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// Middleware resolves the anonymous cart-owner token for every request.
// A request without a valid cookie gets a fresh token set as an httponly,
// SameSite=Lax cookie; the token is attached to the context either way so
// cart operations downstream never see an unidentified visitor. If the
// cookie write is lost the token still serves the current request.
func Middleware() gin.HandlerFunc {
	// Scoped to the apex domain in production, unscoped in development.
	domain := os.Getenv("COOKIE_DOMAIN")

	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			token = NewToken()
			if token != "" {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(CookieName, token, cookieMaxAge, "/", domain, false, true)
			}
		}
		c.Set(contextKey, token)
		c.Next()
	}
}

// Token returns the resolved session token for the current request, or ""
// when the middleware did not run.
func Token(c *gin.Context) string {
	if v, ok := c.Get(contextKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
